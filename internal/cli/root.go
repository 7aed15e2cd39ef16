package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/user/metric_plotter_go/internal/analysis"
	"github.com/user/metric_plotter_go/internal/report"
	"github.com/user/metric_plotter_go/internal/viewer"
)

type plotFlags struct {
	out    string
	format string
	width  float64
	height float64
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree. Each call returns independent flag state.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	pf := &plotFlags{}

	rootCmd := &cobra.Command{
		Use:   "metric_plotter <results.csv>",
		Short: "Compare interpolation error metrics of the --avg, --idw and --msh methods",
		Long: `metric_plotter reads a results table (columns percentage, method and
error metrics such as RMSE, MAE, PERROR, MSE), groups the rows by method and
draws one line-chart panel per metric.

Without --out the figure is shown in a window; with --out it is written to
disk in the format given by the file extension.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or flag values
  11 - Required column missing from the header
  12 - Cell not parsable as a number
  13 - File missing or unreadable`,
		Args:              usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runPlot(cmd, opts, pf, args[0])
		},
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newUsageError(err)
	})

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ~/.metricplot/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "print the collected columns and series")
	rootCmd.PersistentFlags().StringVar(&opts.variant, "variant", "", "metric set: basic (RMSE,MAE), errors (+PERROR) or full (+MSE)")
	rootCmd.PersistentFlags().StringSliceVar(&opts.metrics, "metrics", nil, "explicit metric columns, overrides --variant")

	rootCmd.Flags().StringVarP(&pf.out, "out", "o", "", "write the figure to this file instead of opening a window")
	rootCmd.Flags().StringVar(&pf.format, "format", "", "figure format (png, jpg, svg, pdf, eps, tiff); default from --out extension")
	rootCmd.Flags().Float64Var(&pf.width, "width", 0, "figure width in inches (overrides config)")
	rootCmd.Flags().Float64Var(&pf.height, "height", 0, "figure height in inches (overrides config; default 3 per panel)")

	rootCmd.AddCommand(
		newSummaryCmd(opts),
		newReportCmd(opts),
		newExportCmd(opts),
		newErrorsCmd(opts),
		newConfigCmd(opts),
	)
	return rootCmd
}

func runPlot(cmd *cobra.Command, opts *rootOptions, pf *plotFlags, path string) error {
	g, metrics, err := opts.loadSeries(path)
	if err != nil {
		return err
	}
	results, err := analysis.AnalyzeSeries(g)
	if err != nil {
		return err
	}
	opts.warn(results)

	figOpts := report.FigureOptions{
		Metrics: metrics,
		Width:   vg.Length(opts.cfg.WidthIn) * vg.Inch,
		Height:  vg.Length(opts.cfg.HeightIn) * vg.Inch,
	}
	if pf.width > 0 {
		figOpts.Width = vg.Length(pf.width) * vg.Inch
	}
	if pf.height > 0 {
		figOpts.Height = vg.Length(pf.height) * vg.Inch
	}

	if pf.out == "" {
		figOpts.Format = "png"
		img, err := report.CreateComparisonFigure(g, figOpts)
		if err != nil {
			return err
		}
		return viewer.Run(viewer.Options{
			Title:   fmt.Sprintf("%s - %s", report.ComparisonTitle(metrics), filepath.Base(path)),
			Figure:  img,
			Summary: summaryLines(results),
		})
	}

	figOpts.Format = pf.format
	if figOpts.Format == "" && filepath.Ext(pf.out) == "" {
		figOpts.Format = opts.cfg.Format
	}
	if figOpts.Format == "" {
		if figOpts.Format, err = report.FormatFromPath(pf.out); err != nil {
			return invalidFlagf("%v", err)
		}
	}
	img, err := report.CreateComparisonFigure(g, figOpts)
	if err != nil {
		return err
	}
	if err := report.SaveFigure(pf.out, img); err != nil {
		return err
	}
	opts.log.Info("Figure written to %s", pf.out)
	return nil
}

func summaryLines(results *analysis.AnalysisResults) []string {
	lines := make([]string, 0, len(results.Summaries))
	for _, s := range results.Summaries {
		lines = append(lines, fmt.Sprintf("%-6s %-5s n=%d mean=%s sd=%s min=%s max=%s",
			s.Metric, s.Method, s.Count, fmtStat(s.Mean), fmtStat(s.StdDev), fmtStat(s.Min), fmtStat(s.Max)))
	}
	for _, w := range results.AnalysisErrors {
		lines = append(lines, "Warning: "+w)
	}
	return lines
}
