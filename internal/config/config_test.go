package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30.0, c.MissingThreshold)
	assert.Equal(t, 5, c.TopN)
	assert.Equal(t, 1000, c.StringSampleSize)
	assert.Equal(t, int64(42), c.StringSampleSeed)
	assert.Equal(t, 100000, c.MaxRows)
	assert.Equal(t, "markdown", c.DefaultFormat)
	assert.Equal(t, "warn", c.LogLevel)

	opt := c.ProfileOptions()
	assert.Equal(t, 30.0, opt.Thresholds.HighMissingPct)
	assert.Equal(t, 95.0, opt.Thresholds.DominantValuePct)
	assert.Equal(t, 3, opt.DuplicateExampleCap)
	assert.Equal(t, 100000, c.LoadOptions().MaxRows)
}

func TestSaveAndLoad(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c := &Global{
		MissingThreshold: 12.5,
		TopN:             8,
		MaxRows:          50,
		NullTokens:       []string{"NA", "-"},
		DefaultFormat:    "json",
		LogLevel:         "debug",
	}
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.MissingThreshold)
	assert.Equal(t, 8, got.TopN)
	assert.Equal(t, []string{"NA", "-"}, got.NullTokens)
	assert.Equal(t, "json", got.DefaultFormat)
	assert.Equal(t, []string{"NA", "-"}, got.LoadOptions().NullTokens)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())
	t.Setenv("DATAPROF_TOP_N", "9")
	t.Setenv("DATAPROF_MISSING_THRESHOLD", "50")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, c.TopN)
	assert.Equal(t, 50.0, c.MissingThreshold)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("DATAPROF_EXAMPLE_CAP", "")
	os.Unsetenv("DATAPROF_EXAMPLE_CAP")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATAPROF_EXAMPLE_CAP=2\n"), 0o644))

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, c.ExampleCap)
}

func TestLoad_InvalidFormat(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_format: pdf\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "invalid default_format")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
