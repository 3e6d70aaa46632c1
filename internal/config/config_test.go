package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, "app/components", cfg.Dest)
	assert.Equal(t, "Ui", cfg.Namespace)
	assert.True(t, cfg.Tests)
	assert.False(t, cfg.Stimulus)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, 1, cfg.Jobs)
	assert.Contains(t, cfg.Ignore, "**/node_modules/**")
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `dest: app/views/components
namespace: Admin::Ui
stimulus: true
tests: false
enhanced_erb: true
jobs: 4
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "app/views/components", cfg.Dest)
	assert.Equal(t, "Admin::Ui", cfg.Namespace)
	assert.True(t, cfg.Stimulus)
	assert.False(t, cfg.Tests)
	assert.True(t, cfg.EnhancedERB)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, 9090, cfg.Server.Port)
	// untouched keys keep their defaults
	assert.Equal(t, "development", cfg.Server.Env)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("namespace: Admin\n"), 0644))

	t.Setenv("V0RAILS_NAMESPACE", "Shop")
	t.Setenv("V0RAILS_DRY_RUN", "true")
	t.Setenv("V0RAILS_SERVER_PORT", "3000")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "Shop", cfg.Namespace)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoad_OverridesWin(t *testing.T) {
	t.Setenv("V0RAILS_NAMESPACE", "Shop")

	cfg, err := NewLoader(t.TempDir()).
		Set("namespace", "Flags").
		Set("tests", false).
		Load()
	require.NoError(t, err)

	assert.Equal(t, "Flags", cfg.Namespace)
	assert.False(t, cfg.Tests)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("dest: [unclosed\n"), 0644))

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	_, err := NewLoader(t.TempDir()).Set("namespace", "ui-kit").Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidNamespace))
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Namespace = "Admin"
	cfg.Slots = true
	cfg.Verbose = true

	require.NoError(t, Save(dir, cfg))

	loaded, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "Admin", loaded.Namespace)
	assert.True(t, loaded.Slots)
	assert.False(t, loaded.Verbose)
	assert.Equal(t, cfg.Ignore, loaded.Ignore)
}

func TestMarshal(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "dest: app/components\n")
	assert.Contains(t, out, "namespace: Ui\n")
	assert.Contains(t, out, "enhanced_erb: false\n")
	assert.NotContains(t, out, "verbose: true")
}
