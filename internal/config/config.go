package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates a configuration value is out of range or unknown.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes every environment override, e.g. METRICPLOT_VARIANT.
const EnvPrefix = "METRICPLOT"

// Global configuration structure.
type Global struct {
	Variant   string   `mapstructure:"variant" yaml:"variant"`
	Metrics   []string `mapstructure:"metrics" yaml:"metrics,omitempty"` // overrides Variant when set
	WidthIn   float64  `mapstructure:"width" yaml:"width"`               // figure width in inches
	HeightIn  float64  `mapstructure:"height" yaml:"height"`             // figure height in inches; 0 = 3 per panel
	Format    string   `mapstructure:"format" yaml:"format"`
	OutputDir string   `mapstructure:"output_dir" yaml:"output_dir"`
	Undef     float64  `mapstructure:"undef" yaml:"undef"` // undefined sentinel of grid files
}

// DefaultDir returns ~/.metricplot.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".metricplot"), nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is loaded into the environment first when present.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("variant", "errors")
	v.SetDefault("metrics", []string{})
	v.SetDefault("width", 10.0)
	v.SetDefault("height", 0.0)
	v.SetDefault("format", "png")
	v.SetDefault("output_dir", ".")
	v.SetDefault("undef", -999.0)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Metrics = splitMetrics(c.Metrics)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the value ranges of c.
func (c *Global) Validate() error {
	if c.WidthIn <= 0 {
		return fmt.Errorf("%w: width must be positive, got %g", ErrInvalidConfig, c.WidthIn)
	}
	if c.HeightIn < 0 {
		return fmt.Errorf("%w: height must not be negative, got %g", ErrInvalidConfig, c.HeightIn)
	}
	if strings.TrimSpace(c.Variant) == "" && len(c.Metrics) == 0 {
		return fmt.Errorf("%w: either variant or metrics must be set", ErrInvalidConfig)
	}
	return nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.metricplot/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// splitMetrics accepts both a YAML list and a comma separated env value.
func splitMetrics(in []string) []string {
	var out []string
	for _, item := range in {
		for _, m := range strings.Split(item, ",") {
			if m = strings.TrimSpace(m); m != "" {
				out = append(out, m)
			}
		}
	}
	return out
}
