package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/shoal/config"
	"github.com/pthm-cable/shoal/sim"
	"github.com/pthm-cable/shoal/telemetry"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation headless",
		Long: `Run steps the tank with the configured dt until --max-ticks is reached
or the process is interrupted. Window stats, bookmarks and per-fish
summaries are written as CSV when --output-dir is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			maxTicks, _ := cmd.Flags().GetUint64("max-ticks")
			outputDir, _ := cmd.Flags().GetString("output-dir")
			snapshotDir, _ := cmd.Flags().GetString("snapshot-dir")
			logStats, _ := cmd.Flags().GetBool("log-stats")
			statsWindow, _ := cmd.Flags().GetFloat64("stats-window")
			stepsPerUpdate, _ := cmd.Flags().GetInt("steps-per-update")
			perf, _ := cmd.Flags().GetBool("perf")
			resume, _ := cmd.Flags().GetString("resume")

			// JSON to stdout for structured logging
			logger := slog.New(slog.NewJSONHandler(cmd.OutOrStdout(), nil))
			slog.SetDefault(logger)

			opts := sim.Options{
				LogStats:       logStats,
				StatsWindowSec: statsWindow,
				SnapshotDir:    snapshotDir,
				OutputDir:      outputDir,
				StepsPerUpdate: stepsPerUpdate,
				Perf:           perf,
				Logger:         logger,
			}
			if cmd.Flags().Changed("seed") {
				seed, _ := cmd.Flags().GetUint32("seed")
				opts.Seed = &seed
			}
			if resume != "" {
				snap, err := telemetry.LoadSnapshot(resume)
				if err != nil {
					return fmt.Errorf("resuming: %w", err)
				}
				if err := applySnapshot(cfg, &opts, snap); err != nil {
					return fmt.Errorf("resuming %s: %w", resume, err)
				}
				logger.Info("resuming from snapshot", "path", resume, "tick", snap.State.Tick)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runHeadless(ctx, cfg, opts, maxTicks)
		},
	}

	cmd.Flags().Uint32("seed", 0, "RNG seed (default: config seed)")
	cmd.Flags().Uint64("max-ticks", 0, "Stop after N ticks (0 = until interrupted)")
	cmd.Flags().String("output-dir", "", "Output directory for CSV logs and config snapshot")
	cmd.Flags().String("snapshot-dir", "", "Directory for bookmark snapshot files")
	cmd.Flags().Bool("log-stats", false, "Output window stats and bookmarks via slog")
	cmd.Flags().Float64("stats-window", 0, "Stats window size in simulated seconds (0 = use config)")
	cmd.Flags().Int("steps-per-update", 0, "Simulation ticks per update call (0 = use config)")
	cmd.Flags().Bool("perf", false, "Time each tick and write perf.csv")
	cmd.Flags().String("resume", "", "Resume from a snapshot file")

	return cmd
}

// runHeadless steps a session until maxTicks (0 = no limit) or ctx is done.
func runHeadless(ctx context.Context, cfg *config.Config, opts sim.Options, maxTicks uint64) error {
	s, err := sim.New(cfg, opts)
	if err != nil {
		return err
	}

	opts.Logger.Info("starting headless simulation",
		"seed", s.Seed(),
		"fish", len(s.State().Fish),
		"dt", cfg.Simulation.DT,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for ctx.Err() == nil {
		s.Update(cfg.Simulation.DT)

		if maxTicks > 0 && s.Tick() >= maxTicks {
			opts.Logger.Info("max ticks reached", "tick", s.Tick())
			break
		}
	}
	if ctx.Err() != nil {
		opts.Logger.Info("interrupted", "tick", s.Tick())
	}
	return s.Close()
}

// applySnapshot makes the session continue exactly where snap left off: its
// seed, its state and the tank it was taken in.
func applySnapshot(cfg *config.Config, opts *sim.Options, snap *telemetry.Snapshot) error {
	if err := snap.Tank.Validate(); err != nil {
		return err
	}
	cfg.Tank = snap.Tank
	seed := snap.Seed
	opts.Seed = &seed
	opts.Initial = &snap.State
	return nil
}
