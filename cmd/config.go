package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/dataprof-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dataprof configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "missing_threshold: %.2f\n", c.MissingThreshold)
		fmt.Fprintf(out, "top_n: %d\n", c.TopN)
		fmt.Fprintf(out, "type_sample_size: %d\n", c.TypeSampleSize)
		fmt.Fprintf(out, "string_sample_size: %d\n", c.StringSampleSize)
		fmt.Fprintf(out, "string_sample_seed: %d\n", c.StringSampleSeed)
		fmt.Fprintf(out, "example_cap: %d\n", c.ExampleCap)
		fmt.Fprintf(out, "duplicate_set_cap: %d\n", c.DuplicateSetCap)
		fmt.Fprintf(out, "duplicate_example_cap: %d\n", c.DuplicateExampleCap)
		fmt.Fprintf(out, "max_rows: %d\n", c.MaxRows)
		if len(c.NullTokens) > 0 {
			fmt.Fprintf(out, "null_tokens: %s\n", strings.Join(c.NullTokens, ","))
		}
		fmt.Fprintf(out, "default_format: %s\n", c.DefaultFormat)
		fmt.Fprintf(out, "log_level: %s\n", c.LogLevel)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		switch key {
		case "missing_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 100 {
				return fmt.Errorf("invalid float for missing_threshold: %v (use 0-100)", val)
			}
			c.MissingThreshold = f
		case "top_n", "type_sample_size", "string_sample_size", "example_cap",
			"duplicate_set_cap", "duplicate_example_cap":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid positive int for %s: %v", key, val)
			}
			setCap(c, key, i)
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			c.MaxRows = i
		case "string_sample_seed":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for string_sample_seed: %w", err)
			}
			c.StringSampleSeed = i
		case "null_tokens":
			c.NullTokens = splitList(val)
		case "default_format":
			f := strings.ToLower(val)
			if !cfgpkg.ValidFormat(f) {
				return fmt.Errorf("invalid default_format: %s (use %s)", val, strings.Join(cfgpkg.Formats, ", "))
			}
			c.DefaultFormat = f
		case "log_level":
			if _, err := zap.ParseAtomicLevel(val); err != nil {
				return fmt.Errorf("invalid log_level: %s", val)
			}
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setCap(c *cfgpkg.Global, key string, v int) {
	switch key {
	case "top_n":
		c.TopN = v
	case "type_sample_size":
		c.TypeSampleSize = v
	case "string_sample_size":
		c.StringSampleSize = v
	case "example_cap":
		c.ExampleCap = v
	case "duplicate_set_cap":
		c.DuplicateSetCap = v
	case "duplicate_example_cap":
		c.DuplicateExampleCap = v
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
