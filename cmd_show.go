package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mapforge/pkg/game/devtools"
	"mapforge/pkg/game/generator"
)

var showFlags struct {
	redisAddr string
	seed      int64
	legend    bool
}

var showCmd = &cobra.Command{
	Use:   "show [snapshot-id]",
	Short: "Show a map stored in Redis",
	Long:  `Load a stored snapshot by id and print it, or list the snapshots stored for --seed.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func init() {
	f := showCmd.Flags()
	f.StringVar(&showFlags.redisAddr, "redis", "localhost:6379", "Redis address")
	f.Int64Var(&showFlags.seed, "seed", 0, "list snapshot ids stored for this seed")
	f.BoolVar(&showFlags.legend, "legend", false, "include the legend and object lists")
}

func runShow(cmd *cobra.Command, args []string) error {
	svc, closeRepo, err := newService(showFlags.redisAddr, 0)
	if err != nil {
		return err
	}
	defer closeRepo()

	w := cmd.OutOrStdout()
	if len(args) == 0 {
		if !cmd.Flags().Changed("seed") {
			return fmt.Errorf("give a snapshot id or --seed")
		}
		out, err := svc.ListBySeed(cmd.Context(), &generator.ListBySeedInput{Seed: showFlags.seed})
		if err != nil {
			return err
		}
		for _, id := range out.IDs {
			fmt.Fprintln(w, id)
		}
		return nil
	}

	out, err := svc.Load(cmd.Context(), &generator.LoadInput{ID: args[0]})
	if err != nil {
		return err
	}
	opts := devtools.TerminalOptions(os.Stdout)
	opts.Color = opts.Color && !noColor
	opts.Legend = showFlags.legend
	if err := devtools.WriteDump(w, out.Map, opts); err != nil {
		return err
	}
	fmt.Fprint(w, devtools.Summary(out.Map))
	printIssues(cmd, out.Validation)
	return nil
}
