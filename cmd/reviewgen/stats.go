package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chrimar3/MVP-Hotel-sub001/config"
	"github.com/chrimar3/MVP-Hotel-sub001/models"
	"github.com/chrimar3/MVP-Hotel-sub001/repositories"
	"github.com/chrimar3/MVP-Hotel-sub001/repositories/postgres"
	"github.com/chrimar3/MVP-Hotel-sub001/repositories/sqlite"
	"github.com/chrimar3/MVP-Hotel-sub001/services/costs"
)

func newStatsCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the persisted engine metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}

			if cfg.Store.Backend == "none" {
				fmt.Fprintln(cmd.OutOrStdout(), "Metrics persistence is disabled (METRICS_BACKEND=none); nothing to show.")
				return nil
			}

			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("open metrics store: %w", err)
			}
			defer func() { _ = store.Close() }()

			snapshot, err := store.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}
			if snapshot == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No metrics have been saved yet.")
				return nil
			}

			printSnapshot(cmd, snapshot)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "path to an env file (default: .env when present)")
	return cmd
}

// openStore opens the configured backend without booting the full engine
func openStore(ctx context.Context, cfg *config.Config) (repositories.MetricsRepository, error) {
	logger := zap.NewNop()

	switch cfg.Store.Backend {
	case "postgres":
		db, err := postgres.NewDB(cfg.Store.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if err := db.InitSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return postgres.NewMetricsRepository(db, logger), nil
	default:
		return sqlite.New(cfg.Store.SQLitePath, logger)
	}
}

func printSnapshot(cmd *cobra.Command, snap *models.MetricsSnapshot) {
	out := cmd.OutOrStdout()
	heading := color.New(color.FgCyan, color.Bold)

	total := snap.Counter("requests.total")
	now := time.Now()

	_, _ = heading.Fprintln(out, "Requests")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  total\t%.0f\n", total)
	fmt.Fprintf(w, "  cache hits\t%.0f\n", snap.Counter("cache.hits"))
	fmt.Fprintf(w, "  cache misses\t%.0f\n", snap.Counter("cache.misses"))
	fmt.Fprintf(w, "  provider success\t%.0f\n", snap.Counter("provider.success"))
	fmt.Fprintf(w, "  provider errors\t%.0f\n", snap.Counter("provider.errors"))
	fmt.Fprintf(w, "  error rate\t%s\n", rateLabel(snap.ErrorRatePercent()))
	_ = w.Flush()

	if sources := sourceCounters(snap); len(sources) > 0 {
		_, _ = heading.Fprintln(out, "Sources")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, s := range sources {
			fmt.Fprintf(w, "  %s\t%.0f\n", s.name, s.count)
		}
		_ = w.Flush()
	}

	_, _ = heading.Fprintln(out, "Latency")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if snap.Latency.Count > 0 {
		fmt.Fprintf(w, "  mean\t%.1fms\n", snap.Latency.MeanMs)
		fmt.Fprintf(w, "  min\t%.0fms\n", snap.Latency.MinMs)
		fmt.Fprintf(w, "  max\t%.0fms\n", snap.Latency.MaxMs)
	} else {
		fmt.Fprintln(w, "  no samples")
	}
	_ = w.Flush()

	_, _ = heading.Fprintln(out, "Cost")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  today\t$%.4f\n", snap.CostForDay(costs.PeriodKey(now, costs.PeriodDaily)))
	fmt.Fprintf(w, "  this month\t$%.4f\n", snap.Cost.Monthly[costs.PeriodKey(now, costs.PeriodMonthly)])
	fmt.Fprintf(w, "  total\t$%.4f\n", snap.Cost.Total)
	_ = w.Flush()

	fmt.Fprintf(out, "\nSnapshot taken %s\n", snap.TakenAt.Format(time.RFC3339))
}

func rateLabel(percent float64) string {
	label := fmt.Sprintf("%.1f%%", percent)
	if percent > 10 {
		return color.RedString(label)
	}
	return color.GreenString(label)
}

type sourceCount struct {
	name  string
	count float64
}

// sourceCounters extracts the per-terminal-source counters, sorted by name
func sourceCounters(snap *models.MetricsSnapshot) []sourceCount {
	var out []sourceCount
	for path, value := range snap.Counters {
		if name, ok := strings.CutPrefix(path, "source."); ok {
			out = append(out, sourceCount{name: name, count: value})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
