package cli

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/metric_plotter_go/internal/parser"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <results.csv>",
		Short: "Rewrite a results table with only the required columns, interleaved by method",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := opts.loadSeries(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				return parser.Write(cmd.OutOrStdout(), g)
			}
			var buf bytes.Buffer
			if err := parser.Write(&buf, g); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			opts.log.Info("Exported %d row(s) to %s", g.TotalRows(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
