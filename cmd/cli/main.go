// Command cli runs one-shot analyses against a panel file (or the built-in
// sample panel) without starting the server.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cohortlens/adapters/export"
	"cohortlens/adapters/stats/engine"
	"cohortlens/domain/core"
	"cohortlens/domain/stats"
	"cohortlens/internal/analysis"
	"cohortlens/internal/dataset"
	"cohortlens/internal/synthdata"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cohortlens-cli",
		Short: "Cohortlens CLI for one-shot cohort analyses",
	}

	rootCmd.AddCommand(
		newSweepCmd(),
		newSummaryCmd(),
		newCorrelateCmd(),
		newAnomaliesCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// panelFlags are shared by every subcommand: analyse a file, or fall back
// to the deterministic sample panel.
type panelFlags struct {
	file  string
	days  int
	size  int
	seed  int64
	alpha float64
}

func (f *panelFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "Panel file (.csv or .xlsx); omit to use generated sample data")
	cmd.Flags().IntVar(&f.days, "days", 120, "Sample panel length in days (generated data only)")
	cmd.Flags().IntVar(&f.size, "participants", 5, "Participants per cohort (generated data only)")
	cmd.Flags().Int64Var(&f.seed, "seed", 42, "Random seed (generated data only)")
	cmd.Flags().Float64Var(&f.alpha, "alpha", 0.05, "Significance threshold")
}

func (f *panelFlags) load() (*dataset.Table, *engine.Engine, error) {
	if f.alpha <= 0 || f.alpha >= 1 {
		return nil, nil, fmt.Errorf("alpha must be in (0, 1), got %v", f.alpha)
	}
	eng := engine.New(stats.DefaultThresholds().WithAlpha(f.alpha))

	if f.file != "" {
		tbl, err := dataset.Load(f.file)
		return tbl, eng, err
	}

	cfg := synthdata.DefaultConfig()
	cfg.Days = f.days
	cfg.Participants = f.size
	cfg.Seed = f.seed
	tbl, err := synthdata.Generate(cfg)
	return tbl, eng, err
}

func newSweepCmd() *cobra.Command {
	var flags panelFlags
	var out string

	cmd := &cobra.Command{
		Use:   "sweep [cohort-a] [cohort-b]",
		Short: "Compare two cohorts across every metric",
		Long: `Run a two-sample comparison per metric and print the report as JSON.

Example: cohortlens-cli sweep clinical control --file panel.csv --out report.xlsx`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, eng, err := flags.load()
			if err != nil {
				return err
			}

			groupA, groupB, err := pickCohorts(tbl, args)
			if err != nil {
				return err
			}

			report, err := analysis.NewSweeper(eng).CompareCohorts(
				cmd.Context(), tbl, groupA, groupB, tbl.Metrics)
			if err != nil {
				return err
			}

			if out != "" {
				return writeReport(report, out)
			}
			return printJSON(report)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "Write the report to a .csv or .xlsx file instead of stdout")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var flags panelFlags

	cmd := &cobra.Command{
		Use:   "summary [metric] [cohort]",
		Short: "Print descriptive statistics for one metric and cohort",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, eng, err := flags.load()
			if err != nil {
				return err
			}

			metric, err := core.ParseMetricKey(args[0])
			if err != nil {
				return err
			}
			cohort, err := stats.ParseCohort(args[1])
			if err != nil {
				return err
			}

			sample, err := tbl.Sample(metric, cohort)
			if err != nil {
				return err
			}
			summary, err := eng.Summarize(sample)
			if err != nil {
				return err
			}
			return printJSON(summary)
		},
	}

	flags.register(cmd)
	return cmd
}

func newCorrelateCmd() *cobra.Command {
	var flags panelFlags

	cmd := &cobra.Command{
		Use:   "correlate [metric-x] [metric-y] [cohort]",
		Short: "Correlate two metrics within one cohort",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, eng, err := flags.load()
			if err != nil {
				return err
			}

			cohort, err := stats.ParseCohort(args[2])
			if err != nil {
				return err
			}
			x, err := tbl.Series(core.MetricKey(args[0]), cohort)
			if err != nil {
				return err
			}
			y, err := tbl.Series(core.MetricKey(args[1]), cohort)
			if err != nil {
				return err
			}

			result, err := eng.CorrelateWithin(cohort, x, y)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	flags.register(cmd)
	return cmd
}

func newAnomaliesCmd() *cobra.Command {
	var flags panelFlags
	var participant string

	cmd := &cobra.Command{
		Use:   "anomalies [metric] [cohort] [reference-cohort]",
		Short: "Flag observations outside the reference cohort band",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, eng, err := flags.load()
			if err != nil {
				return err
			}

			metric, err := core.ParseMetricKey(args[0])
			if err != nil {
				return err
			}
			cohort, err := stats.ParseCohort(args[1])
			if err != nil {
				return err
			}
			reference, err := stats.ParseCohort(args[2])
			if err != nil {
				return err
			}

			var sample stats.Sample
			if participant != "" {
				sample, err = tbl.ParticipantSample(metric, core.ParticipantID(participant))
			} else {
				sample, err = tbl.Sample(metric, cohort)
			}
			if err != nil {
				return err
			}

			refSample, err := tbl.Sample(metric, reference)
			if err != nil {
				return err
			}
			flagsFound, err := eng.AnomaliesAgainstCohort(sample, refSample)
			if err != nil {
				return err
			}
			return printJSON(map[string]interface{}{
				"metric":  metric,
				"checked": sample.N(),
				"flags":   flagsFound,
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&participant, "participant", "", "Restrict to one participant's series")
	return cmd
}

// pickCohorts resolves the compared pair from args, defaulting to the
// panel's two cohorts in sorted order.
func pickCohorts(tbl *dataset.Table, args []string) (stats.Cohort, stats.Cohort, error) {
	if len(args) == 2 {
		a, err := stats.ParseCohort(args[0])
		if err != nil {
			return "", "", err
		}
		b, err := stats.ParseCohort(args[1])
		if err != nil {
			return "", "", err
		}
		return a, b, nil
	}

	cohorts := tbl.Cohorts()
	if len(cohorts) != 2 {
		return "", "", fmt.Errorf("panel has %d cohorts; name the compared pair explicitly", len(cohorts))
	}
	return cohorts[0], cohorts[1], nil
}

func writeReport(report *analysis.CohortReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch {
	case strings.HasSuffix(path, ".xlsx"):
		err = export.WriteComparisonsExcel(f, report)
	case strings.HasSuffix(path, ".csv"):
		err = export.WriteComparisonsCSV(f, report)
	default:
		err = fmt.Errorf("unsupported output format for %q (use .csv or .xlsx)", path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
