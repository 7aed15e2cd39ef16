package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/user/metric_plotter_go/internal/analysis"
	"github.com/user/metric_plotter_go/internal/report"
)

// Heatmaps are rendered at 800x300pt.
const heatmapAspect = 300.0 / 800.0

func newReportCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report <results.csv>",
		Short: "Write a PDF report with statistics, rankings and figures",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			g, metrics, err := opts.loadSeries(path)
			if err != nil {
				return err
			}
			results, err := analysis.AnalyzeSeries(g)
			if err != nil {
				return err
			}
			opts.warn(results)

			if out == "" {
				base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				out = filepath.Join(opts.cfg.OutputDir, base+"_report.pdf")
			}

			width := vg.Length(opts.cfg.WidthIn) * vg.Inch
			height := vg.Length(opts.cfg.HeightIn) * vg.Inch
			if height <= 0 {
				height = report.DefaultPanelHeight * vg.Length(len(metrics))
			}
			comparison, err := report.CreateComparisonFigure(g, report.FigureOptions{
				Metrics: metrics,
				Width:   width,
				Height:  height,
				Format:  "png",
			})
			if err != nil {
				return fmt.Errorf("failed to render comparison figure: %w", err)
			}

			in := report.ReportInput{
				Source:      path,
				Series:      g,
				Results:     results,
				Images:      map[string][]byte{report.ImageKeyComparison: comparison},
				ImageAspect: map[string]float64{report.ImageKeyComparison: float64(height / width)},
			}
			for _, metric := range metrics {
				img, err := report.CreateHeatmapPlot(g, metric)
				if err != nil {
					opts.log.Error("heatmap for %s: %v", metric, err)
					continue
				}
				key := report.HeatmapImageKey(metric)
				in.Images[key] = img
				in.ImageAspect[key] = heatmapAspect
			}

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			id, err := report.BuildPDFReport(out, in)
			if err != nil {
				return err
			}
			opts.log.Info("Report %s written to %s", id, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "PDF path (default <output_dir>/<name>_report.pdf)")
	return cmd
}
