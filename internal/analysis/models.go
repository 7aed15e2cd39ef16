package analysis

import "github.com/user/metric_plotter_go/internal/parser"

// MetricSummary holds the statistics of one metric for one method.
type MetricSummary struct {
	Method  parser.Method
	Metric  string
	Count   int // number of non-NaN values
	Mean    float64
	StdDev  float64 // population standard deviation
	Min     float64
	Max     float64
	Range   float64
	Missing int // NaN values excluded from the statistics
}

// RankedMethod is used for ranking methods by their mean error.
type RankedMethod struct {
	Method parser.Method
	Metric string
	Value  float64 // mean of the metric
}

// AnalysisResults holds all results from the analysis.
type AnalysisResults struct {
	Summaries      []MetricSummary
	Rankings       map[string][]RankedMethod // metric -> methods, best (lowest mean) first
	AnalysisErrors []string                  // non-fatal findings, e.g. misaligned groups
}

func NewAnalysisResults() *AnalysisResults {
	return &AnalysisResults{
		Summaries:      make([]MetricSummary, 0),
		Rankings:       make(map[string][]RankedMethod),
		AnalysisErrors: make([]string, 0),
	}
}

// Summary returns the summary for a method and metric.
func (r *AnalysisResults) Summary(m parser.Method, metric string) (MetricSummary, bool) {
	for _, s := range r.Summaries {
		if s.Method == m && s.Metric == metric {
			return s, true
		}
	}
	return MetricSummary{}, false
}
