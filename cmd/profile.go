package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/dataprof-cli/internal/config"
	"github.com/KaramelBytes/dataprof-cli/internal/export"
	"github.com/KaramelBytes/dataprof-cli/internal/profile"
	"github.com/KaramelBytes/dataprof-cli/internal/table"
	"github.com/KaramelBytes/dataprof-cli/internal/utils"
)

var (
	pfFormat           string
	pfOutputPath       string
	pfMissingThreshold float64
	pfTopN             int
	pfMaxRows          int
	pfDelimiter        string
	pfSheetName        string
	pfSheetIndex       int
	pfNullTokens       string
	pfNow              string
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Profile a CSV/TSV/XLSX/JSONL file and report data-quality issues",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		run, err := newProfileRun(cmd, c, pfFormat)
		if err != nil {
			return err
		}
		out, err := run.file(path, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if pfOutputPath != "" {
			if err := utils.SafeWriteFile(pfOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s profile to %s\n", run.format, pfOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

// profileRun carries the settings shared by every file of one invocation.
type profileRun struct {
	load   table.LoadOptions
	prof   *profile.Profiler
	format string
	now    time.Time
}

// newProfileRun merges config with the flags changed on cmd. Flags shared by
// profile and profile-batch are looked up by name.
func newProfileRun(cmd *cobra.Command, c *cfgpkg.Global, format string) (*profileRun, error) {
	f := cmd.Flags()
	lopt := c.LoadOptions()
	if f.Changed("max-rows") {
		lopt.MaxRows = intFlag(cmd, "max-rows")
	}
	if d := stringFlag(cmd, "delimiter"); d != "" {
		r, err := parseDelimiter(d)
		if err != nil {
			return nil, err
		}
		lopt.Delimiter = r
	}
	lopt.SheetName = stringFlag(cmd, "sheet-name")
	if f.Changed("sheet-index") {
		lopt.SheetIndex = intFlag(cmd, "sheet-index")
	}
	if f.Changed("null-tokens") {
		lopt.NullTokens = splitList(stringFlag(cmd, "null-tokens"))
	}

	popt := c.ProfileOptions()
	if f.Changed("missing-threshold") {
		v, _ := f.GetFloat64("missing-threshold")
		if v < 0 || v > 100 {
			return nil, fmt.Errorf("invalid --missing-threshold: %v (use 0-100)", v)
		}
		popt.Thresholds.HighMissingPct = v
	}
	if f.Changed("top-n") {
		n := intFlag(cmd, "top-n")
		if n <= 0 {
			return nil, fmt.Errorf("invalid --top-n: %d", n)
		}
		popt.TopN = n
	}

	if !f.Changed("format") {
		format = c.DefaultFormat
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if !cfgpkg.ValidFormat(format) {
		return nil, fmt.Errorf("unsupported --format: %s (use %s)", format, strings.Join(cfgpkg.Formats, ", "))
	}

	now, err := referenceTime(stringFlag(cmd, "now"))
	if err != nil {
		return nil, err
	}
	return &profileRun{
		load:   lopt,
		prof:   profile.New(popt, logger),
		format: format,
		now:    now,
	}, nil
}

// file loads, profiles and renders one input. Notices go to warn.
func (r *profileRun) file(path string, warn io.Writer) ([]byte, error) {
	t, err := table.Load(path, r.load)
	if err != nil {
		return nil, err
	}
	if t.Truncated() {
		fmt.Fprintf(warn, "⚠ %s: profiled first %d of %d rows (raise --max-rows to include more)\n",
			t.Name, t.NumRows(), t.SourceRows)
		logger.Warn("input truncated", zap.String("file", path), zap.Int("rows", t.NumRows()), zap.Int("source_rows", t.SourceRows))
	}
	rep := r.prof.Profile(t, r.now)
	return render(rep, r.format, path, r.now)
}

func render(r *profile.Report, format, source string, now time.Time) ([]byte, error) {
	switch format {
	case "json":
		b, err := export.JSON(r, source, now)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case "csv":
		var buf bytes.Buffer
		if err := export.WriteSummaryCSV(&buf, export.SummaryRows(r)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "table":
		return []byte(export.Table(r)), nil
	}
	return []byte(export.Markdown(r)), nil
}

// formatExt is the file extension used for a rendered format.
func formatExt(format string) string {
	switch format {
	case "json":
		return "json"
	case "csv":
		return "csv"
	case "table":
		return "txt"
	}
	return "md"
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", s)
}

// referenceTime parses --now; empty means the current wall clock.
func referenceTime(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now (want RFC3339): %w", err)
	}
	return t, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stringFlag(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func intFlag(cmd *cobra.Command, name string) int {
	v, _ := cmd.Flags().GetInt(name)
	return v
}

// addProfileFlags registers the ingestion and profiling flags shared by
// profile and profile-batch.
func addProfileFlags(c *cobra.Command, format *string) {
	c.Flags().StringVarP(format, "format", "f", "markdown", "output format: markdown | json | csv | table (default from config)")
	c.Flags().Float64Var(&pfMissingThreshold, "missing-threshold", 30, "missing-value percentage that raises HIGH_MISSING")
	c.Flags().IntVar(&pfTopN, "top-n", 5, "number of top values per column")
	c.Flags().IntVar(&pfMaxRows, "max-rows", 100000, "maximum rows to load (0 = unlimited)")
	c.Flags().StringVar(&pfDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | 'pipe'")
	c.Flags().StringVar(&pfSheetName, "sheet-name", "", "XLSX: sheet name to profile")
	c.Flags().IntVar(&pfSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	c.Flags().StringVar(&pfNullTokens, "null-tokens", "", "comma-separated CSV cell texts to read as null")
	c.Flags().StringVar(&pfNow, "now", "", "reference instant for future-date checks (RFC3339; default: now)")
}

func init() {
	rootCmd.AddCommand(profileCmd)
	addProfileFlags(profileCmd, &pfFormat)
	profileCmd.Flags().StringVarP(&pfOutputPath, "output", "o", "", "optional path to write the profile")
}
