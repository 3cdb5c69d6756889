package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, 4, cfg.Upload.MaxAttempts)
}

func TestSizeLimitFor(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, int64(50*1024*1024), cfg.Upload.SizeLimitFor("project.zip"))
	assert.Equal(t, int64(2*1024*1024), cfg.Upload.SizeLimitFor("story.txt"))
	assert.Equal(t, cfg.Upload.DefaultSizeLimit, cfg.Upload.SizeLimitFor("picture.png"))
	assert.Equal(t, cfg.Upload.DefaultSizeLimit, cfg.Upload.SizeLimitFor("no-extension"))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Upload.MaxAttempts, cfg.Upload.MaxAttempts)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
gemini:
  model: gemini-override
upload:
  max_attempts: 7
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-override", cfg.Gemini.Model)
	assert.Equal(t, 7, cfg.Upload.MaxAttempts)
	// Untouched sections keep their defaults.
	assert.NotZero(t, cfg.Upload.ReadyTimeout)
}

func TestEnvOverridesWin(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("PRREVIEW_MODEL", "env-model")
	t.Setenv("PRREVIEW_MANIFEST_DB", "/tmp/env-manifest.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Gemini.APIKey)
	assert.Equal(t, "env-model", cfg.Gemini.Model)
	assert.Equal(t, "/tmp/env-manifest.db", cfg.Manifest.DatabasePath)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Upload.MaxAttempts = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Upload.PollInterval = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Manifest.DatabasePath = ""
	assert.Error(t, cfg.Validate())
}
