package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/metric_plotter_go/internal/parser"
)

// Default figure size: 10 inches wide, 3 inches per metric panel.
const (
	DefaultWidth       = 10 * vg.Inch
	DefaultPanelHeight = 3 * vg.Inch
)

var methodColors = [parser.NumMethods]color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}, // Blue
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 255}, // Orange
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 255}, // Green
}

// FigureOptions controls CreateComparisonFigure.
type FigureOptions struct {
	Metrics []string  // panels, top to bottom; defaults to every loaded metric
	Width   vg.Length // defaults to DefaultWidth
	Height  vg.Length // defaults to DefaultPanelHeight per panel
	Format  string    // png, jpg, svg, pdf, eps or tiff; defaults to png
	Title   string    // defaults to "<metrics> Comparison between Methods"
}

// CreateMetricPlot builds one panel comparing a metric across the three methods.
// Every method is drawn against the --avg percentages; points beyond the
// shorter of the two sequences and NaN values are left out.
func CreateMetricPlot(g *parser.GroupedSeries, metric string) (*plot.Plot, error) {
	if g == nil {
		return nil, fmt.Errorf("no series to plot")
	}
	if !hasMetric(g, metric) {
		return nil, fmt.Errorf("metric %q was not loaded (loaded: %s)", metric, strings.Join(g.Metrics, ", "))
	}

	p := plot.New()
	p.Y.Label.Text = metric
	p.Add(plotter.NewGrid())

	for _, m := range parser.Methods {
		values := g.Values(m, metric)
		n := len(values)
		if len(g.Percentages) < n {
			n = len(g.Percentages)
		}

		pts := make(plotter.XYs, 0, n)
		for i := 0; i < n; i++ {
			if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(g.Percentages[i]), Y: values[i]})
		}
		if len(pts) == 0 {
			continue
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for %s: %w", m, err)
		}
		line.Color = methodColors[m]
		line.LineStyle.Width = vg.Points(1.5)
		points.Shape = draw.CircleGlyph{}
		points.Color = methodColors[m]
		points.Radius = vg.Points(2.5)

		p.Add(line, points)
		p.Legend.Add(fmt.Sprintf("%s (%s)", m, metric), line, points)
	}

	if p.X.Min > p.X.Max { // nothing drawn
		p.X.Min, p.X.Max = 0, 100
		p.Y.Min, p.Y.Max = 0, 1
	}

	p.Legend.Top = true
	p.Legend.XOffs = -vg.Points(5)
	return p, nil
}

// CreateComparisonFigure stacks one panel per metric and encodes the figure.
func CreateComparisonFigure(g *parser.GroupedSeries, opts FigureOptions) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("no series to plot")
	}
	metrics := opts.Metrics
	if len(metrics) == 0 {
		metrics = g.Metrics
	}
	if len(metrics) == 0 {
		return nil, fmt.Errorf("no metrics to plot")
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	height := opts.Height
	if height <= 0 {
		height = DefaultPanelHeight * vg.Length(len(metrics))
	}
	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		format = "png"
	}
	title := opts.Title
	if title == "" {
		title = ComparisonTitle(metrics)
	}

	plots := make([][]*plot.Plot, len(metrics))
	for i, metric := range metrics {
		p, err := CreateMetricPlot(g, metric)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			p.Title.Text = title
		}
		if i == len(metrics)-1 {
			p.X.Label.Text = "Percentage"
		}
		plots[i] = []*plot.Plot{p}
	}

	canvas, err := draw.NewFormattedCanvas(width, height, format)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s canvas: %w", format, err)
	}
	tiles := draw.Tiles{
		Rows:      len(metrics),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, draw.New(canvas))
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	buf := new(bytes.Buffer)
	if _, err := canvas.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write figure to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// ComparisonTitle names the metrics the way the figure title lists them,
// e.g. "RMSE, MAE, and PERROR Comparison between Methods".
func ComparisonTitle(metrics []string) string {
	var list string
	switch len(metrics) {
	case 0:
	case 1:
		list = metrics[0]
	case 2:
		list = metrics[0] + " and " + metrics[1]
	default:
		list = strings.Join(metrics[:len(metrics)-1], ", ") + ", and " + metrics[len(metrics)-1]
	}
	return strings.TrimSpace(list + " Comparison between Methods")
}

func hasMetric(g *parser.GroupedSeries, metric string) bool {
	for _, m := range g.Metrics {
		if m == metric {
			return true
		}
	}
	return false
}
