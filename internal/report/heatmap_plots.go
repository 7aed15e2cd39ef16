package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/user/metric_plotter_go/internal/parser"
)

// methodGrid exposes one metric as a plotter.GridXYZ: columns are row indices
// within a method group, rows are the methods.
type methodGrid struct {
	values [parser.NumMethods][]float64
	cols   int
}

func newMethodGrid(g *parser.GroupedSeries, metric string) methodGrid {
	var grid methodGrid
	for _, m := range parser.Methods {
		grid.values[m] = g.Values(m, metric)
		if len(grid.values[m]) > grid.cols {
			grid.cols = len(grid.values[m])
		}
	}
	return grid
}

func (g methodGrid) Dims() (c, r int) { return g.cols, parser.NumMethods }

func (g methodGrid) Z(c, r int) float64 {
	if c < len(g.values[r]) {
		return g.values[r][c]
	}
	return math.NaN()
}

func (g methodGrid) X(c int) float64 { return float64(c) }
func (g methodGrid) Y(r int) float64 { return float64(r) }

// CreateHeatmapPlot renders one metric as a method x sample heatmap and
// returns it as PNG. Columns are labelled with the --avg percentage at the
// same index where one exists.
func CreateHeatmapPlot(g *parser.GroupedSeries, metric string) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("no series to plot heatmap")
	}
	if !hasMetric(g, metric) {
		return nil, fmt.Errorf("metric %q was not loaded", metric)
	}

	grid := newMethodGrid(g, metric)
	if grid.cols == 0 {
		return nil, fmt.Errorf("no %s values found for heatmap", metric)
	}

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for r := 0; r < parser.NumMethods; r++ {
		for c := 0; c < grid.cols; c++ {
			v := grid.Z(c, r)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	if math.IsInf(minVal, 1) {
		minVal, maxVal = 0, 1
	}
	if minVal == maxVal {
		maxVal = minVal + 1
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s by Method and Sample", metric)
	p.X.Label.Text = "Percentage"
	p.Y.Label.Text = "Method"

	yTicks := make([]plot.Tick, parser.NumMethods)
	for i, m := range parser.Methods {
		yTicks[i] = plot.Tick{Value: float64(i), Label: m.String()}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.Y.Min = -0.5
	p.Y.Max = float64(parser.NumMethods) - 0.5

	p.X.Tick.Marker = plot.ConstantTicks(sampleTicks(g.Percentages, grid.cols))
	p.X.Min = -0.5
	p.X.Max = float64(grid.cols) - 0.5

	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))
	hm.Min = minVal
	hm.Max = maxVal
	hm.NaN = color.Gray{Y: 200} // Light gray for missing cells
	p.Add(hm)

	writer, err := p.WriterTo(vg.Points(800), vg.Points(300), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create heatmap writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write heatmap to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// sampleTicks labels at most ~10 columns, using the percentage at each index
// when the --avg group has one and the index otherwise.
func sampleTicks(percentages []int, cols int) []plot.Tick {
	step := 1
	if cols > 10 {
		step = (cols + 9) / 10
	}
	var ticks []plot.Tick
	for c := 0; c < cols; c += step {
		label := "#" + strconv.Itoa(c+1)
		if c < len(percentages) {
			label = strconv.Itoa(percentages[c])
		}
		ticks = append(ticks, plot.Tick{Value: float64(c), Label: label})
	}
	return ticks
}
