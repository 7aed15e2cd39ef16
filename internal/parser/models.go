package parser

import (
	"fmt"
	"sort"
	"strings"
)

// Required non-metric columns of a results table.
const (
	ColPercentage = "percentage"
	ColMethod     = "method"
)

// Method identifies one of the three interpolation variants compared in a results table.
type Method int

const (
	MethodAvg Method = iota
	MethodIDW
	MethodMSH

	NumMethods = 3
)

// Methods lists every method in plotting order.
var Methods = [NumMethods]Method{MethodAvg, MethodIDW, MethodMSH}

var methodTags = [NumMethods]string{"--avg", "--idw", "--msh"}

// String returns the tag used for the method in the method column.
func (m Method) String() string {
	if m < 0 || int(m) >= NumMethods {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodTags[m]
}

// ParseMethod maps a trimmed method tag to its Method. Tags are case-sensitive.
func ParseMethod(tag string) (Method, bool) {
	for i, t := range methodTags {
		if t == tag {
			return Method(i), true
		}
	}
	return 0, false
}

// Metric column sets used by the different experiment runs.
var variants = map[string][]string{
	"errors": {"RMSE", "MAE", "PERROR"},
	"full":   {"RMSE", "MAE", "PERROR", "MSE"},
	"basic":  {"RMSE", "MAE"},
}

// DefaultVariant is the metric set used when nothing else is configured.
const DefaultVariant = "errors"

// VariantMetrics returns a copy of the metric columns for a named variant.
func VariantMetrics(name string) ([]string, error) {
	m, ok := variants[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown variant %q (valid: %s)", name, strings.Join(VariantNames(), ", "))
	}
	return append([]string(nil), m...), nil
}

// VariantNames returns the known variant names, sorted.
func VariantNames() []string {
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Record is one parsed row of a results table.
type Record struct {
	Percentage int
	Method     Method
	Values     map[string]float64 // keyed by metric column name
}

// MethodSeries holds the metric values of every row of one method, in file order.
type MethodSeries struct {
	Method Method
	Rows   int
	Values map[string][]float64
}

// GroupedSeries is the result of loading a results table.
// Percentages are only collected from --avg rows and serve as the shared x-axis.
type GroupedSeries struct {
	Metrics     []string
	Percentages []int
	Groups      [NumMethods]MethodSeries
}

// NewGroupedSeries creates an empty GroupedSeries for the given metric columns.
func NewGroupedSeries(metrics []string) *GroupedSeries {
	g := &GroupedSeries{
		Metrics:     append([]string(nil), metrics...),
		Percentages: make([]int, 0),
	}
	for _, m := range Methods {
		g.Groups[m] = MethodSeries{
			Method: m,
			Values: make(map[string][]float64, len(metrics)),
		}
		for _, metric := range metrics {
			g.Groups[m].Values[metric] = make([]float64, 0)
		}
	}
	return g
}

// Add appends a record to its method's group.
func (g *GroupedSeries) Add(rec Record) {
	if rec.Method == MethodAvg {
		g.Percentages = append(g.Percentages, rec.Percentage)
	}
	grp := &g.Groups[rec.Method]
	for _, metric := range g.Metrics {
		grp.Values[metric] = append(grp.Values[metric], rec.Values[metric])
	}
	grp.Rows++
}

// Group returns the series collected for a method.
func (g *GroupedSeries) Group(m Method) MethodSeries {
	return g.Groups[m]
}

// Values returns the values of one metric for one method.
func (g *GroupedSeries) Values(m Method, metric string) []float64 {
	return g.Groups[m].Values[metric]
}

// TotalRows returns the number of rows kept across all methods.
func (g *GroupedSeries) TotalRows() int {
	n := 0
	for _, grp := range g.Groups {
		n += grp.Rows
	}
	return n
}
