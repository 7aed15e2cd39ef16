package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/metric_plotter_go/internal/analysis"
	"github.com/user/metric_plotter_go/internal/parser"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <results.csv>",
		Short: "Print per-method statistics and rankings of a results table",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := opts.loadSeries(args[0])
			if err != nil {
				return err
			}
			results, err := analysis.AnalyzeSeries(g)
			if err != nil {
				return err
			}
			return writeSummary(cmd, g, results)
		},
	}
}

func writeSummary(cmd *cobra.Command, g *parser.GroupedSeries, results *analysis.AnalysisResults) error {
	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "METHOD\tROWS")
	for _, m := range parser.Methods {
		fmt.Fprintf(tw, "%s\t%d\n", m, g.Group(m).Rows)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "METRIC\tMETHOD\tN\tMEAN\tSTDDEV\tMIN\tMAX\tMISSING")
	for _, s := range results.Summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%d\n",
			s.Metric, s.Method, s.Count, fmtStat(s.Mean), fmtStat(s.StdDev), fmtStat(s.Min), fmtStat(s.Max), s.Missing)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	for _, metric := range g.Metrics {
		ranked := results.Rankings[metric]
		line := metric + ":"
		for i, r := range ranked {
			line += " " + strconv.Itoa(i+1) + ". " + r.Method.String() + " (" + fmtStat(r.Value) + ")"
		}
		if len(ranked) == 0 {
			line += " no values"
		}
		fmt.Fprintln(out, line)
	}

	for _, w := range results.AnalysisErrors {
		fmt.Fprintln(out, "Warning: "+w)
	}
	return nil
}
