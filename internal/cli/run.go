package cli

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/spf13/cobra"

	"github.com/aradilov/syncx/internal/scenario"
)

func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario...]",
		Short: "Run scenarios, or all of them when none is named",
		RunE:  runScenarios,
	}

	def := scenario.DefaultConfig()
	cmd.Flags().String("config", "", "Read scenario sizes from a properties file")
	cmd.Flags().Int(keyThreads, def.Threads, "Goroutines used by the contention scenarios")
	cmd.Flags().Int(keyIterations, def.Iterations, "Increments per goroutine in spinlock-counter")
	cmd.Flags().Int(keyMessages, def.Messages, "Items sent through the channel scenarios")
	cmd.Flags().Bool("stats", false, "Print collected metrics after the run")

	return cmd
}

func runScenarios(cc *cobra.Command, args []string) error {
	flags := cc.Flags()

	path, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("invalid argument: %w", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	if err := applyFlags(&cfg, flags); err != nil {
		return fmt.Errorf("invalid argument: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid argument: %w", err)
	}

	selected, err := selectScenarios(args)
	if err != nil {
		return err
	}

	var failed error
	out := cc.OutOrStdout()
	for _, s := range selected {
		start := time.Now()
		err := s.Run(cc.Context(), cfg)
		elapsed := time.Since(start)
		if err != nil {
			slog.Error("scenario failed", "name", s.Name, "err", err)
			fmt.Fprintf(out, "FAIL %-20s %v\n", s.Name, err)
			failed = multierror.Append(failed, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		slog.Info("scenario passed", "name", s.Name, "elapsed", elapsed)
		fmt.Fprintf(out, "ok   %-20s %s\n", s.Name, elapsed.Round(time.Microsecond))
	}

	stats, err := flags.GetBool("stats")
	if err != nil {
		return fmt.Errorf("invalid argument: %w", err)
	}
	if stats {
		collected := monkit.Collect(monkit.Default)
		for _, key := range slices.Sorted(maps.Keys(collected)) {
			fmt.Fprintf(out, "%s %g\n", key, collected[key])
		}
	}

	if failed != nil {
		return fmt.Errorf("scenarios failed: %w", failed)
	}
	return nil
}

func selectScenarios(names []string) ([]scenario.Scenario, error) {
	if len(names) == 0 {
		return scenario.All(), nil
	}

	var merr error
	selected := make([]scenario.Scenario, 0, len(names))
	for _, name := range names {
		s, err := scenario.Lookup(name)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		selected = append(selected, s)
	}
	if merr != nil {
		return nil, merr
	}
	return selected, nil
}
