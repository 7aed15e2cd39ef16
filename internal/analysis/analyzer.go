package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/user/metric_plotter_go/internal/parser"
)

// summarize computes the statistics of one series, ignoring NaN values.
func summarize(m parser.Method, metric string, data []float64) MetricSummary {
	valid := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}

	s := MetricSummary{
		Method:  m,
		Metric:  metric,
		Count:   len(valid),
		Missing: len(data) - len(valid),
		Mean:    math.NaN(),
		StdDev:  math.NaN(),
		Min:     math.NaN(),
		Max:     math.NaN(),
		Range:   math.NaN(),
	}
	if len(valid) == 0 {
		return s
	}

	mean, variance := stat.PopMeanVariance(valid, nil)
	s.Mean = mean
	s.StdDev = math.Sqrt(variance)
	s.Min = floats.Min(valid)
	s.Max = floats.Max(valid)
	s.Range = s.Max - s.Min
	if len(valid) == 1 { // a single value has no spread
		s.StdDev = 0
	}
	return s
}

// AnalyzeSeries computes per-method statistics for every metric of g, ranks the
// methods per metric and reports groups whose length does not match the shared
// --avg percentage axis. A table without rows yields empty statistics and a
// warning.
func AnalyzeSeries(g *parser.GroupedSeries) (*AnalysisResults, error) {
	if g == nil {
		return nil, fmt.Errorf("grouped series is nil, cannot analyze")
	}

	results := NewAnalysisResults()

	for _, metric := range g.Metrics {
		ranked := make([]RankedMethod, 0, parser.NumMethods)
		for _, m := range parser.Methods {
			s := summarize(m, metric, g.Values(m, metric))
			results.Summaries = append(results.Summaries, s)
			if s.Missing > 0 {
				results.AnalysisErrors = append(results.AnalysisErrors,
					fmt.Sprintf("%s %s: %d NaN value(s) excluded from statistics.", m, metric, s.Missing))
			}
			if !math.IsNaN(s.Mean) {
				ranked = append(ranked, RankedMethod{Method: m, Metric: metric, Value: s.Mean})
			}
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Value < ranked[j].Value // Ascending, lower error first
		})
		results.Rankings[metric] = ranked
	}

	if g.TotalRows() == 0 {
		results.AnalysisErrors = append(results.AnalysisErrors, fmt.Sprintf(
			"no rows for methods %s, %s or %s; the figure is empty.",
			parser.MethodAvg, parser.MethodIDW, parser.MethodMSH))
		return results, nil
	}
	results.AnalysisErrors = append(results.AnalysisErrors, CheckAlignment(g)...)
	return results, nil
}

// CheckAlignment lists the method groups whose row count differs from the
// number of --avg percentages. Such groups cannot be plotted point for point
// against the shared x-axis.
func CheckAlignment(g *parser.GroupedSeries) []string {
	var warnings []string
	axis := len(g.Percentages)
	for _, m := range parser.Methods {
		rows := g.Group(m).Rows
		if rows != axis {
			warnings = append(warnings, fmt.Sprintf(
				"%s has %d row(s) but %s recorded %d percentage(s); the plot uses the first %d point(s).",
				m, rows, parser.MethodAvg, axis, minInt(rows, axis)))
		}
	}
	return warnings
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
