package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solaris-viz/solaris/internal/camera"
	"github.com/solaris-viz/solaris/internal/clock"
	"github.com/solaris-viz/solaris/internal/config"
)

func TestSessionOptions(t *testing.T) {
	opts := sessionOptions(
		config.RenderConfig{StarCount: 50, StarSeed: 9, FallbackWidth: 800, FallbackHeight: 600},
		config.SimulationConfig{InitialZoom: 1.5, InitialSpeed: 10, NoticeLimit: 4},
	)

	assert.Equal(t, 1.5, opts.InitialZoom)
	assert.Equal(t, 10.0, opts.InitialSpeed)
	assert.Equal(t, 4, opts.NoticeLimit)
	assert.Equal(t, 50, opts.StarCount)
	assert.Equal(t, uint64(9), opts.StarSeed)
	assert.Equal(t, camera.Size{Width: 800, Height: 600}, opts.Fallback)
}

func TestSessionOptions_ZeroValuesKeepDefaults(t *testing.T) {
	opts := sessionOptions(config.RenderConfig{StarCount: -1}, config.SimulationConfig{})

	assert.Equal(t, 0.8, opts.InitialZoom)
	assert.Equal(t, 1.0, opts.InitialSpeed)
	assert.Equal(t, 16, opts.NoticeLimit)
	assert.Equal(t, 300, opts.StarCount)
	assert.Equal(t, camera.Size{Width: 1280, Height: 800}, opts.Fallback)
}

func TestLoadCatalog(t *testing.T) {
	cat, err := loadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, "sun", cat.Star().ID)
	assert.Equal(t, "built-in", catalogSource(""))

	path := filepath.Join(t.TempDir(), "tiny.yaml")
	doc := "bodies:\n  - id: sol\n    type: star\n    radius: 30\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cat, err = loadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "sol", cat.Star().ID)
	assert.Equal(t, path, catalogSource(path))

	_, err = loadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRun_RejectsUnsupportedInitialSpeed(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	cfg := `{"simulation":{"initialSpeed":3},"monitor":{"enabled":false}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0644))

	err := run(context.Background(), []string{"--config-dir", dir, "--logs-dir=", "--addr", "127.0.0.1:0"})
	require.Error(t, err)
	assert.ErrorIs(t, err, clock.ErrInvalidSpeed)
}
