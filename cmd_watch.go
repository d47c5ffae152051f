package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mapforge/pkg/errors"
	"mapforge/pkg/game/config"
	"mapforge/pkg/game/devtools"
	"mapforge/pkg/game/generator"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the map whenever the config file changes",
	RunE:  runWatch,
}

func init() {
	addGenerationFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		return fmt.Errorf("watch needs --config")
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, closeRepo, err := newService(genFlags.redisAddr, genFlags.ttl)
	if err != nil {
		return err
	}
	defer closeRepo()

	regenerate := func(cfg *config.Config) {
		applyOverrides(cmd, cfg)
		out, err := svc.Generate(ctx, &generator.GenerateInput{Config: cfg})
		if err != nil {
			slog.Error("generation failed", "error", err)
			printFieldErrors(cmd, err)
			return
		}
		w := cmd.OutOrStdout()
		opts := devtools.TerminalOptions(os.Stdout)
		opts.Color = opts.Color && !noColor
		if err := devtools.WriteDump(w, out.Result.Map, opts); err != nil {
			slog.Error("dump failed", "error", err)
		}
		fmt.Fprint(w, devtools.Summary(out.Result.Map))
		printIssues(cmd, out.Result.Validation)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	regenerate(cfg)

	watcher, err := config.NewWatcher(configPath)
	if err != nil {
		return err
	}
	defer watcher.Close()

	slog.Info("watching config", "path", configPath)
	err = watcher.Run(ctx, func(cfg *config.Config, err error) {
		if err != nil {
			slog.Warn("config reload failed", "error", err)
			return
		}
		regenerate(cfg)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
