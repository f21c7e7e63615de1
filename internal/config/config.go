package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/dataprof-cli/internal/profile"
	"github.com/KaramelBytes/dataprof-cli/internal/table"
)

// Global configuration structure.
type Global struct {
	MissingThreshold    float64 `mapstructure:"missing_threshold" yaml:"missing_threshold"`
	TopN                int     `mapstructure:"top_n" yaml:"top_n"`
	TypeSampleSize      int     `mapstructure:"type_sample_size" yaml:"type_sample_size"`
	StringSampleSize    int     `mapstructure:"string_sample_size" yaml:"string_sample_size"`
	StringSampleSeed    int64   `mapstructure:"string_sample_seed" yaml:"string_sample_seed"`
	ExampleCap          int     `mapstructure:"example_cap" yaml:"example_cap"`
	DuplicateSetCap     int     `mapstructure:"duplicate_set_cap" yaml:"duplicate_set_cap"`
	DuplicateExampleCap int     `mapstructure:"duplicate_example_cap" yaml:"duplicate_example_cap"`

	// Ingestion
	MaxRows    int      `mapstructure:"max_rows" yaml:"max_rows"`
	NullTokens []string `mapstructure:"null_tokens" yaml:"null_tokens"`

	DefaultFormat string `mapstructure:"default_format" yaml:"default_format"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
}

// Formats accepted by default_format and --format.
var Formats = []string{"markdown", "json", "csv", "table"}

// ValidFormat reports whether f names a known output format.
func ValidFormat(f string) bool {
	for _, x := range Formats {
		if strings.EqualFold(f, x) {
			return true
		}
	}
	return false
}

// ProfileOptions maps the configuration onto profiling options.
func (c *Global) ProfileOptions() profile.Options {
	opt := profile.DefaultOptions()
	opt.Thresholds.HighMissingPct = c.MissingThreshold
	opt.TopN = c.TopN
	opt.TypeSampleSize = c.TypeSampleSize
	opt.StringSampleSize = c.StringSampleSize
	opt.StringSampleSeed = c.StringSampleSeed
	opt.ExampleCap = c.ExampleCap
	opt.DuplicateSetCap = c.DuplicateSetCap
	opt.DuplicateExampleCap = c.DuplicateExampleCap
	return opt
}

// LoadOptions maps the configuration onto ingestion options.
func (c *Global) LoadOptions() table.LoadOptions {
	opt := table.DefaultLoadOptions()
	opt.MaxRows = c.MaxRows
	opt.NullTokens = append([]string(nil), c.NullTokens...)
	return opt
}

func configPath(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dataprof", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dataprof/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := configPath(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
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

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory seeds the environment without overriding it.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DATAPROF")
	v.AutomaticEnv()

	d := profile.DefaultOptions()
	v.SetDefault("missing_threshold", d.Thresholds.HighMissingPct)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("type_sample_size", d.TypeSampleSize)
	v.SetDefault("string_sample_size", d.StringSampleSize)
	v.SetDefault("string_sample_seed", d.StringSampleSeed)
	v.SetDefault("example_cap", d.ExampleCap)
	v.SetDefault("duplicate_set_cap", d.DuplicateSetCap)
	v.SetDefault("duplicate_example_cap", d.DuplicateExampleCap)
	v.SetDefault("max_rows", table.DefaultLoadOptions().MaxRows)
	v.SetDefault("null_tokens", []string{})
	v.SetDefault("default_format", "markdown")
	v.SetDefault("log_level", "warn")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".dataprof"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if !ValidFormat(c.DefaultFormat) {
		return nil, fmt.Errorf("invalid default_format %q (use %s)", c.DefaultFormat, strings.Join(Formats, ", "))
	}
	c.DefaultFormat = strings.ToLower(c.DefaultFormat)
	return &c, nil
}
