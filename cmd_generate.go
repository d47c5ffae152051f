package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"mapforge/pkg/engine/clock"
	"mapforge/pkg/engine/terminal"
	"mapforge/pkg/errors"
	"mapforge/pkg/game/devtools"
	"mapforge/pkg/game/generator"
	"mapforge/pkg/game/level"
	"mapforge/pkg/game/snapshot"
)

// generationFlags are shared by generate and watch.
type generationFlags struct {
	seed       int64
	width      int
	height     int
	difficulty int
	out        string
	dump       string
	print      bool
	redisAddr  string
	ttl        time.Duration
}

var genFlags generationFlags

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a map",
	Long:  `Generate a map from the config and flags, print a summary, and optionally write a snapshot, a text dump, or store it in Redis.`,
	RunE:  runGenerate,
}

func init() {
	addGenerationFlags(generateCmd)
}

func addGenerationFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int64Var(&genFlags.seed, "seed", 1, "random seed")
	f.IntVar(&genFlags.width, "width", 80, "map width in tiles")
	f.IntVar(&genFlags.height, "height", 50, "map height in tiles")
	f.IntVar(&genFlags.difficulty, "difficulty", 5, "difficulty level 1-10")
	f.StringVarP(&genFlags.out, "out", "o", "", "write the snapshot JSON to this file")
	f.StringVar(&genFlags.dump, "dump", "", "write a text dump to this file")
	f.BoolVarP(&genFlags.print, "print", "p", false, "print the map grid even when stdout is not a terminal")
	f.StringVar(&genFlags.redisAddr, "redis", "", "store the snapshot in Redis at this address")
	f.DurationVar(&genFlags.ttl, "ttl", 24*time.Hour, "snapshot expiry in Redis, 0 keeps it forever")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	svc, closeRepo, err := newService(genFlags.redisAddr, genFlags.ttl)
	if err != nil {
		return err
	}
	defer closeRepo()

	out, err := svc.Generate(cmd.Context(), &generator.GenerateInput{Config: cfg})
	if err != nil {
		if out != nil && out.Result != nil && out.Result.Validation != nil {
			printIssues(cmd, out.Result.Validation)
		}
		return err
	}

	res := out.Result
	w := cmd.OutOrStdout()
	fmt.Fprint(w, devtools.Summary(res.Map))
	printIssues(cmd, res.Validation)
	if out.SnapshotID != "" {
		fmt.Fprintf(w, "snapshot: %s\n", out.SnapshotID)
	}

	if genFlags.print || terminal.IsTerminal(os.Stdout) {
		opts := devtools.TerminalOptions(os.Stdout)
		opts.Color = opts.Color && !noColor
		if err := devtools.WriteDump(w, res.Map, opts); err != nil {
			return err
		}
	}
	if genFlags.dump != "" {
		path, err := devtools.DumpToFile(res.Map, genFlags.dump)
		if err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}
		fmt.Fprintf(w, "dump: %s\n", path)
	}
	if genFlags.out != "" {
		id := out.SnapshotID
		if id == "" {
			id = snapshot.NewID()
		}
		data, err := snapshot.Encode(snapshot.FromMap(id, res.Map, time.Now()))
		if err != nil {
			return err
		}
		if err := os.WriteFile(genFlags.out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
		fmt.Fprintf(w, "snapshot file: %s\n", genFlags.out)
	}
	return nil
}

// newService wires the generator and, when addr is set, a Redis snapshot
// repository. The returned func closes the Redis client.
func newService(addr string, ttl time.Duration) (generator.Service, func(), error) {
	clk := clock.New()
	logger := slog.Default()
	cfg := &generator.Config{
		Generator: generator.NewBSPGenerator(generator.Options{
			Logger: logger,
			Clock:  clk,
			OnFailure: func(m *level.Map, err error) {
				if m == nil {
					return
				}
				if path, dumpErr := devtools.DumpToFile(m, "mapforge-failure.txt"); dumpErr == nil {
					logger.Error("wrote partial map", "path", path, "error", err)
				}
			},
		}),
		Clock:  clk,
		Logger: logger,
	}

	closeRepo := func() {}
	if addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, errors.WrapWithCode(err, errors.CodeFailedPrecondition, "redis unreachable at "+addr)
		}
		repo, err := snapshot.NewRedisRepository(&snapshot.Config{Client: client, Clock: clk, TTL: ttl})
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		cfg.Repository = repo
		closeRepo = func() { _ = client.Close() }
	}

	svc, err := generator.NewService(cfg)
	if err != nil {
		closeRepo()
		return nil, nil, err
	}
	return svc, closeRepo, nil
}

func printIssues(cmd *cobra.Command, v *level.ValidationResult) {
	if v == nil {
		return
	}
	w := cmd.ErrOrStderr()
	for _, issue := range v.Errors() {
		fmt.Fprintf(w, "error: %s\n", issue)
	}
	for _, issue := range v.Warnings() {
		fmt.Fprintf(w, "warning: %s\n", issue)
	}
}
