package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/metric_plotter_go/internal/analysis"
	"github.com/user/metric_plotter_go/internal/config"
	"github.com/user/metric_plotter_go/internal/logging"
	"github.com/user/metric_plotter_go/internal/parser"
)

// rootOptions carries the persistent flags and the state built from them
// before any subcommand runs.
type rootOptions struct {
	cfgFile string
	verbose bool
	variant string
	metrics []string

	cfg *config.Global
	log logging.Logger
}

func (o *rootOptions) setup(cmd *cobra.Command, _ []string) error {
	o.log = logging.NewConsoleLoggerTo(cmd.ErrOrStderr(), o.verbose)
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.log.Verbose("config: variant=%s metrics=%v width=%gin height=%gin output_dir=%s",
		cfg.Variant, cfg.Metrics, cfg.WidthIn, cfg.HeightIn, cfg.OutputDir)
	return nil
}

// resolveMetrics picks the metric columns: --metrics, then --variant, then the
// configured metrics, then the configured variant.
func (o *rootOptions) resolveMetrics() ([]string, error) {
	if len(o.metrics) > 0 {
		return cleanMetrics(o.metrics)
	}
	variant := o.variant
	if variant == "" {
		if o.cfg != nil && len(o.cfg.Metrics) > 0 {
			return cleanMetrics(o.cfg.Metrics)
		}
		variant = parser.DefaultVariant
		if o.cfg != nil && o.cfg.Variant != "" {
			variant = o.cfg.Variant
		}
	}
	metrics, err := parser.VariantMetrics(variant)
	if err != nil {
		return nil, invalidFlagf("%v", err)
	}
	return metrics, nil
}

func cleanMetrics(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, m := range in {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		if m == parser.ColPercentage || m == parser.ColMethod {
			return nil, invalidFlagf("%q is not a metric column", m)
		}
		seen[m] = true
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, invalidFlagf("no metric columns given")
	}
	return out, nil
}

// loadSeries resolves the metric set and loads the results table at path.
func (o *rootOptions) loadSeries(path string) (*parser.GroupedSeries, []string, error) {
	metrics, err := o.resolveMetrics()
	if err != nil {
		return nil, nil, err
	}
	o.log.Verbose("loading %s with metrics %v", path, metrics)

	g, err := parser.Load(path, metrics, parser.WithLogger(o.log))
	if err != nil {
		return nil, nil, err
	}

	o.log.Verbose("percentages: %v", g.Percentages)
	for _, m := range parser.Methods {
		for _, metric := range metrics {
			o.log.Verbose("%s %s: %v", m, metric, g.Values(m, metric))
		}
	}
	return g, metrics, nil
}

func (o *rootOptions) warn(results *analysis.AnalysisResults) {
	for _, w := range results.AnalysisErrors {
		o.log.Info("Warning: %s", w)
	}
}

// invalidFlagf reports a bad flag or config value; it maps to ExitConfigError.
func invalidFlagf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", config.ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func fmtStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}
