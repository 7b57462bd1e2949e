package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(orig))
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Contains(t, cfg.BasePaths, "./.skillhub/skills")
	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.Debug)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := `base_paths:
  - /srv/skills
debug: true
output_format: json
tool_formats:
  skill_search: text
exclude_patterns:
  - "tmp/**"
log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skillhub.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"/srv/skills"}, cfg.BasePaths)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "text", cfg.ToolFormats["skill_search"])
	assert.Equal(t, []string{"tmp/**"}, cfg.ExcludePatterns)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skillhub.yaml"), []byte("base_paths: [unclosed"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SKILLHUB_OUTPUT_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)
}

func TestFormatFor(t *testing.T) {
	cfg := &Config{
		OutputFormat: "markdown",
		ToolFormats:  map[string]string{"skill_search": "json", "skill_resource": ""},
	}

	assert.Equal(t, "json", cfg.FormatFor("skill_search"))
	assert.Equal(t, "markdown", cfg.FormatFor("skill_resource"), "empty override falls back")
	assert.Equal(t, "markdown", cfg.FormatFor("unknown"))
}
