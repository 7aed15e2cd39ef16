package cli

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/user/metric_plotter_go/internal/errmetrics"
	"github.com/user/metric_plotter_go/internal/parser"
)

type errorsFlags struct {
	method         string
	percentage     int
	appendTo       string
	undef          float64
	undefPredicted float64
}

func newErrorsCmd(opts *rootOptions) *cobra.Command {
	f := &errorsFlags{}
	cmd := &cobra.Command{
		Use:   "errors <original> <interpolated>",
		Short: "Compute RMSE, MAE, MSE and percentage error between two grids",
		Long: `errors compares an interpolated grid with the original one point by point.
Files ending in .bin are read as little-endian float32 values, anything else
as whitespace separated numbers. Points equal to the undefined value (or NaN)
are skipped.

With --append the metrics are added as one row to a results table.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runErrors(cmd, opts, f, args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&f.method, "method", "", "interpolation method of the grid, required (--avg, --idw or --msh, also avg, idw, msh)")
	cmd.Flags().IntVar(&f.percentage, "percentage", 0, "percentage of points removed before interpolation")
	cmd.Flags().StringVar(&f.appendTo, "append", "", "results table to append the metrics to")
	cmd.Flags().Float64Var(&f.undef, "undef", math.NaN(), "undefined value of the original grid (default from config)")
	cmd.Flags().Float64Var(&f.undefPredicted, "undef-predicted", math.NaN(), "undefined value of the interpolated grid (default --undef)")
	return cmd
}

func runErrors(cmd *cobra.Command, opts *rootOptions, f *errorsFlags, originalPath, predictedPath string) error {
	if f.method == "" {
		return newUsageError(errors.New(`required flag "method" not set`))
	}
	method, ok := parseMethodFlag(f.method)
	if !ok {
		return invalidFlagf("unknown method %q (valid: --avg, --idw, --msh)", f.method)
	}

	undef := f.undef
	if math.IsNaN(undef) {
		undef = opts.cfg.Undef
	}
	undefPredicted := f.undefPredicted
	if math.IsNaN(undefPredicted) {
		undefPredicted = undef
	}

	original, err := errmetrics.ReadSeries(originalPath)
	if err != nil {
		return err
	}
	predicted, err := errmetrics.ReadSeries(predictedPath)
	if err != nil {
		return err
	}
	opts.log.Verbose("read %d original and %d interpolated value(s)", len(original), len(predicted))

	m, err := errmetrics.Compute(original, predicted, errmetrics.Options{
		UndefOriginal:  undef,
		UndefPredicted: undefPredicted,
	})
	if err != nil {
		return err
	}
	opts.log.Verbose("%d defined point(s) compared", m.Count)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "RMSE: %f\n", m.RMSE)
	fmt.Fprintf(out, "MAE: %f\n", m.MAE)
	fmt.Fprintf(out, "MSE: %f\n", m.MSE)
	fmt.Fprintf(out, "Percentage Error: %f%%\n", m.PercentageError)

	if f.appendTo == "" {
		return nil
	}
	metrics, err := appendMetrics(opts)
	if err != nil {
		return err
	}
	rec := parser.Record{Percentage: f.percentage, Method: method, Values: m.Values()}
	if err := parser.AppendRecord(f.appendTo, metrics, rec); err != nil {
		return err
	}
	opts.log.Info("Appended %s row for %d%% to %s", method, f.percentage, f.appendTo)
	return nil
}

// appendMetrics is the full metric set unless --metrics or --variant narrows it.
func appendMetrics(opts *rootOptions) ([]string, error) {
	if len(opts.metrics) == 0 && opts.variant == "" {
		return parser.VariantMetrics("full")
	}
	return opts.resolveMetrics()
}

func parseMethodFlag(s string) (parser.Method, bool) {
	if m, ok := parser.ParseMethod(s); ok {
		return m, true
	}
	return parser.ParseMethod("--" + s)
}
