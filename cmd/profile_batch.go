package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataprof-cli/internal/utils"
)

var (
	pbFormat string
	pbOutDir string
	pbQuiet  bool
)

var profileBatchCmd = &cobra.Command{
	Use:   "profile-batch <glob or files...>",
	Short: "Profile multiple CSV/TSV/XLSX/JSONL files and write one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no files matched")
		}
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		run, err := newProfileRun(cmd, c, pbFormat)
		if err != nil {
			return err
		}
		if pbOutDir != "" {
			if err := utils.EnsureDir(pbOutDir); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		for i, path := range files {
			if !pbQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, len(files), path)
			}
			rendered, err := run.file(path, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if pbOutDir == "" {
				if !pbQuiet {
					fmt.Fprintln(out, string(rendered))
				}
				continue
			}
			dest, collided := reportPath(pbOutDir, path, run.load.SheetName, run.format)
			if collided && !pbQuiet {
				fmt.Fprintf(out, "⚠ Report for another input already uses that name; writing %s\n", filepath.Base(dest))
			}
			if err := utils.SafeWriteFile(dest, rendered); err != nil {
				return fmt.Errorf("write %s: %w", dest, err)
			}
			if !pbQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", dest)
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and returns a
// sorted, de-duplicated list.
func expandInputs(args []string) ([]string, error) {
	var files []string
	for _, a := range args {
		matches, err := filepath.Glob(a)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", a, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(a); err == nil {
				matches = []string{a}
			}
		}
		files = append(files, matches...)
	}
	seen := map[string]bool{}
	uniq := files[:0]
	for _, f := range files {
		if !seen[f] {
			seen[f] = true
			uniq = append(uniq, f)
		}
	}
	sort.Strings(uniq)
	return uniq, nil
}

// reportPath picks <base>[__sheet-<name>].profile.<ext> inside dir, adding
// __2, __3, ... to the base until the name is free.
func reportPath(dir, input, sheet, format string) (string, bool) {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if sheet != "" {
		base += "__sheet-" + slug(sheet)
	}
	ext := formatExt(format)
	dest := filepath.Join(dir, fmt.Sprintf("%s.profile.%s", base, ext))
	collided := false
	for n := 2; fileExists(dest); n++ {
		collided = true
		dest = filepath.Join(dir, fmt.Sprintf("%s__%d.profile.%s", base, n, ext))
	}
	return dest, collided
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func init() {
	rootCmd.AddCommand(profileBatchCmd)
	addProfileFlags(profileBatchCmd, &pbFormat)
	profileBatchCmd.Flags().StringVar(&pbOutDir, "out-dir", "", "directory for per-file reports (default: print to stdout)")
	profileBatchCmd.Flags().BoolVar(&pbQuiet, "quiet", false, "suppress progress output")
}
