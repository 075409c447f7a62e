package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "127.0.0.1:8765", cfg.Server.Listen)
	assert.Equal(t, int64(16<<20), cfg.Server.MaxFrameSize)
	assert.Equal(t, 30*time.Second, cfg.Command.DefaultTimeout)
	assert.Equal(t, ".bak", cfg.Backup.Suffix)
	assert.Equal(t, "anthropic", cfg.Collaborator.Provider)
	assert.Equal(t, 4096, cfg.Collaborator.MaxTokens)
	assert.NotEmpty(t, cfg.Server.WorkspaceRoot)
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
server {
    listen "0.0.0.0:9000"
    workspace-root "/srv/work"
    max-frame-size 1048576
    rate-per-second 10.0
    rate-burst 20
}
command {
    default-timeout 5
}
backup {
    suffix ".orig"
}
collaborator {
    provider "openai"
    model "gpt-4o-mini"
    max-tokens 2048
    temperature 0.2
    timeout 60
}
log {
    dir "/var/log/deepgate"
    json true
}
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Listen)
	assert.Equal(t, "/srv/work", cfg.Server.WorkspaceRoot)
	assert.Equal(t, int64(1048576), cfg.Server.MaxFrameSize)
	assert.Equal(t, 10.0, cfg.Server.RatePerSecond)
	assert.Equal(t, 20, cfg.Server.RateBurst)
	assert.Equal(t, 5*time.Second, cfg.Command.DefaultTimeout)
	assert.Equal(t, ".orig", cfg.Backup.Suffix)
	assert.Equal(t, "openai", cfg.Collaborator.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Collaborator.Model)
	assert.Equal(t, 2048, cfg.Collaborator.MaxTokens)
	assert.Equal(t, 0.2, cfg.Collaborator.Temperature)
	assert.Equal(t, 60*time.Second, cfg.Collaborator.Timeout)
	assert.Equal(t, "/var/log/deepgate", cfg.Log.Dir)
	assert.True(t, cfg.Log.JSON)
}

func TestParsePartialKeepsDefaults(t *testing.T) {
	data := []byte(`
server {
    listen "127.0.0.1:9100"
}
`)

	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9100", cfg.Server.Listen)
	assert.Equal(t, int64(16<<20), cfg.Server.MaxFrameSize)
	assert.Equal(t, 30*time.Second, cfg.Command.DefaultTimeout)
	assert.Equal(t, "anthropic", cfg.Collaborator.Provider)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`server { listen `))
	assert.Error(t, err)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8765", cfg.Server.Listen)
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFile)
	writeFile(t, path, `server { listen "127.0.0.1:9200" }`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9200", cfg.Server.Listen)
}

func TestLoadFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, ConfigFile), `server { listen "127.0.0.1:9300" }`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9300", cfg.Server.Listen)
}
