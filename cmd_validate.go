package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"mapforge/pkg/errors"
	"mapforge/pkg/game/level"
	"mapforge/pkg/game/snapshot"
)

var validateCmd = &cobra.Command{
	Use:   "validate [snapshot.json]",
	Short: "Validate a config, or a stored snapshot file",
	Long: `Without arguments, check the config file for out-of-range or inconsistent settings.
With a snapshot file, re-run map validation over the stored map.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		snap, err := snapshot.Decode(data)
		if err != nil {
			return err
		}
		v := level.Validate(snap.ToMap())
		printIssues(cmd, v)
		if v.HasErrors() {
			return errors.FailedPreconditionf("map is invalid: %s", v.Summary())
		}
		fmt.Fprintf(w, "%s: ok (%s)\n", args[0], v.Summary())
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		printFieldErrors(cmd, err)
		return err
	}
	name := configPath
	if name == "" {
		name = "defaults"
	}
	fmt.Fprintf(w, "%s: ok\n", name)
	return nil
}

func printFieldErrors(cmd *cobra.Command, err error) {
	fields, ok := errors.GetMeta(err)["fields"].(map[string][]string)
	if !ok {
		return
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, msg := range fields[name] {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", name, msg)
		}
	}
}
