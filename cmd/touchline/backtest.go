package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/touchline/internal/backtest"
	"github.com/yourusername/touchline/internal/models"
	"github.com/yourusername/touchline/internal/repository"
	"github.com/yourusername/touchline/internal/strategy"
)

const bootstrapSeed = 42

var (
	strategyFlag  string
	historyKind   string
	startFlag     int
	endFlag       int
	allFlag       bool
	exportFlag    bool
	equityFlag    bool
	bootstrapRuns int
	teamRows      int
	topNValues    []int
	compareTopN   int
	historyLimit  int
)

func init() {
	for _, cmd := range []*cobra.Command{backtestCmd, sweepCmd, compareCmd} {
		cmd.Flags().IntVar(&startFlag, "start", 0, "First season (defaults to backtest.start_season or the earliest available)")
		cmd.Flags().IntVar(&endFlag, "end", 0, "Last season (defaults to backtest.end_season or the latest available)")
		cmd.Flags().BoolVar(&exportFlag, "export", false, "Write results as JSON (and bets as CSV) to backtest.output_dir")
	}

	backtestCmd.Flags().StringVar(&strategyFlag, "strategy", string(strategy.KindTopBottom), "Strategy to backtest: top_bottom, home_away, form or momentum")
	backtestCmd.Flags().BoolVar(&allFlag, "all", false, "Backtest every strategy and rank them by ROI")
	backtestCmd.Flags().BoolVar(&equityFlag, "equity", false, "Write the equity curve as CSV to backtest.output_dir")
	backtestCmd.Flags().IntVar(&bootstrapRuns, "bootstrap", 0, "Resample the bets N times and print ROI confidence intervals")
	backtestCmd.Flags().IntVar(&teamRows, "teams", 10, "Rows in the per-team breakdown (0 to hide)")

	sweepCmd.Flags().IntSliceVar(&topNValues, "values", nil, "Top-N values to sweep (defaults to backtest.top_n_values)")
	compareCmd.Flags().IntVar(&compareTopN, "top-n", 3, "Top-N used by both runs")

	historyCmd.Flags().StringVar(&historyKind, "strategy", "", "Only list runs of this strategy")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Backtest a strategy over a range of seasons",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		runner, err := newRunner(ctx)
		if err != nil {
			return err
		}
		reporter := backtest.NewReporter(os.Stdout)

		if allFlag {
			ranked, err := runner.RunAll(ctx, startFlag, endFlag)
			if err != nil {
				return err
			}
			if err := reporter.Ranking(ranked); err != nil {
				return err
			}
			for _, r := range ranked {
				if err := exportReport(runner.Config().OutputDir, r.Report); err != nil {
					return err
				}
			}
			return nil
		}

		kind, err := strategy.ParseKind(strategyFlag)
		if err != nil {
			return err
		}
		report, err := runner.RunSingle(ctx, kind, startFlag, endFlag)
		if err != nil {
			return err
		}
		return presentReport(reporter, runner.Config().OutputDir, report)
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Backtest Top-Bottom over several top-N values",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		runner, err := newRunner(ctx)
		if err != nil {
			return err
		}
		results, err := runner.RunMultiple(ctx, topNValues, startFlag, endFlag)
		if err != nil {
			return err
		}
		if err := backtest.NewReporter(os.Stdout).Sweep(results); err != nil {
			return err
		}
		if exportFlag {
			return backtest.WriteJSON(filepath.Join(runner.Config().OutputDir, "top_bottom_sweep.json"), results)
		}
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare Top-Bottom FOR-only against FOR plus AGAINST",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		runner, err := newRunner(ctx)
		if err != nil {
			return err
		}
		cmp, err := runner.Compare(ctx, compareTopN, startFlag, endFlag)
		if err != nil {
			return err
		}
		if err := backtest.NewReporter(os.Stdout).Comparison(cmp); err != nil {
			return err
		}
		if exportFlag {
			name := fmt.Sprintf("top_bottom_comparison_top%d.json", compareTopN)
			return backtest.WriteJSON(filepath.Join(runner.Config().OutputDir, name), cmp)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List persisted backtest runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		r, err := openRepositories(ctx)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("history needs database.enabled")
		}

		var summaries []*models.BacktestSummary
		if historyKind != "" {
			kind, err := strategy.ParseKind(historyKind)
			if err != nil {
				return err
			}
			summaries, err = r.BacktestReport.GetByStrategy(ctx, string(kind), historyLimit)
			if err != nil {
				return err
			}
		} else {
			summaries, err = r.BacktestReport.GetLatest(ctx, historyLimit)
			if err != nil {
				return err
			}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Run date\tStrategy\tLeague\tSeasons\tBets\tWin rate\tROI\tID")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d-%d\t%d\t%.1f%%\t%+.2f%%\t%s\n",
				s.RunDate.Format("2006-01-02 15:04"), s.Strategy, s.League, s.StartSeason, s.EndSeason,
				s.TotalBets, s.WinRate, s.ROI, s.ID)
		}
		return w.Flush()
	},
}

// newRunner wires the backtest runner from configuration. Persistence is
// only attached when backtest.persist is set.
func newRunner(ctx context.Context) (*backtest.Runner, error) {
	btCfg, err := backtest.FromConfig(&cfg.Backtest)
	if err != nil {
		return nil, err
	}

	var store repository.BacktestReportRepository
	if btCfg.Persist {
		r, err := openRepositories(ctx)
		if err != nil {
			return nil, err
		}
		if r != nil {
			store = r.BacktestReport
		}
	}

	return backtest.NewRunner(
		strategy.Deps{Source: source, Logger: appLog},
		strategy.ParamsFromConfig(cfg),
		btCfg,
		store,
		appLog,
	)
}

func presentReport(reporter *backtest.Reporter, outputDir string, report *models.BacktestReport) error {
	if err := reporter.Summary(report); err != nil {
		return err
	}
	if err := reporter.YearlyTable(report); err != nil {
		return err
	}
	if teamRows > 0 {
		if err := reporter.TeamTable(report, teamRows); err != nil {
			return err
		}
	}

	if bootstrapRuns > 0 {
		result, err := backtest.Bootstrap(report.BetDetails, backtest.BootstrapConfig{
			Iterations: bootstrapRuns,
			Seed:       bootstrapSeed,
		})
		if err != nil {
			return err
		}
		printBootstrap(result)
	}

	if equityFlag {
		path := filepath.Join(outputDir, backtest.ReportFilename(report, "equity.csv"))
		if err := writeEquityCurve(path, report); err != nil {
			return err
		}
		fmt.Printf("Equity curve written to %s\n", path)
	}
	return exportReport(outputDir, report)
}

func exportReport(outputDir string, report *models.BacktestReport) error {
	if !exportFlag {
		return nil
	}
	jsonPath := filepath.Join(outputDir, backtest.ReportFilename(report, "json"))
	if err := backtest.WriteJSON(jsonPath, report); err != nil {
		return err
	}
	csvPath := filepath.Join(outputDir, backtest.ReportFilename(report, "csv"))
	if err := backtest.ExportBetsCSV(csvPath, report.BetDetails); err != nil {
		return err
	}
	fmt.Printf("Report written to %s and %s\n", jsonPath, csvPath)
	return nil
}

func writeEquityCurve(path string, report *models.BacktestReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := backtest.BuildEquityCurve(report.BetDetails).WriteCSV(f); err != nil {
		return err
	}
	return f.Close()
}

func printBootstrap(result backtest.BootstrapResult) {
	fmt.Printf("\nBootstrap (%d resamples)\n", result.Iterations)
	fmt.Printf("Mean ROI: %+.2f%% (std %.2f)\n", result.MeanROI, result.StdROI)
	fmt.Printf("Probability of profit: %.1f%%\n", result.ProbabilityOfProfit*100)

	levels := make([]string, 0, len(result.ConfidenceIntervals))
	for level := range result.ConfidenceIntervals {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	for _, level := range levels {
		ci := result.ConfidenceIntervals[level]
		fmt.Printf("%s interval: %+.2f%% to %+.2f%%\n", level, ci[0], ci[1])
	}
}
