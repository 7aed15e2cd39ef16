package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/user/metric_plotter_go/internal/config"
	"github.com/user/metric_plotter_go/internal/parser"
	"github.com/user/metric_plotter_go/internal/report"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the stored configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConfigShowCmd(opts), newConfigSetCmd(opts))
	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := yaml.Marshal(opts.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}

func newConfigSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration key (variant, metrics, width, height, format, output_dir, undef)",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *opts.cfg
			if err := setConfigValue(&c, args[0], args[1]); err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return err
			}
			if err := config.Save(&c, opts.cfgFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}
}

func setConfigValue(c *config.Global, key, value string) error {
	switch strings.ToLower(key) {
	case "variant":
		if _, err := parser.VariantMetrics(value); err != nil {
			return invalidFlagf("%v", err)
		}
		c.Variant = strings.ToLower(strings.TrimSpace(value))
	case "metrics":
		if strings.TrimSpace(value) == "" {
			c.Metrics = nil
			return nil
		}
		metrics, err := cleanMetrics(strings.Split(value, ","))
		if err != nil {
			return err
		}
		c.Metrics = metrics
	case "width", "height", "undef":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return invalidFlagf("%s must be a number, got %q", key, value)
		}
		switch strings.ToLower(key) {
		case "width":
			c.WidthIn = v
		case "height":
			c.HeightIn = v
		default:
			c.Undef = v
		}
	case "format":
		f := strings.ToLower(strings.TrimPrefix(value, "."))
		if _, err := report.FormatFromPath("figure." + f); err != nil {
			return invalidFlagf("%v", err)
		}
		c.Format = f
	case "output_dir":
		c.OutputDir = value
	default:
		return invalidFlagf("unknown config key %q", key)
	}
	return nil
}
