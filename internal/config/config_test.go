package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"server": { "address": "127.0.0.1:9000" },
		"render": { "frameRate": 60, "starSeed": 42 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "127.0.0.1:9000", GetServerConfig().Address)
	rc := GetRenderConfig()
	assert.Equal(t, 60, rc.FrameRate)
	assert.Equal(t, uint64(42), rc.StarSeed)
	assert.Equal(t, 300, rc.StarCount, "unset keys keep defaults")
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(t.TempDir())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, ":8080", GetServerConfig().Address)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"logLevel":`), 0644))

	err := Load(dir)
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "text", viper.GetString("logFormat"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))

	sc := GetServerConfig()
	assert.Equal(t, ":8080", sc.Address)
	assert.Equal(t, 10*time.Second, sc.ReadHeaderTimeout)
	assert.Equal(t, 10*time.Second, sc.ShutdownTimeout)
	assert.Empty(t, sc.AllowedOrigins)
	assert.Equal(t, 8, sc.SendBuffer)

	rc := GetRenderConfig()
	assert.Equal(t, 30, rc.FrameRate)
	assert.Equal(t, 300, rc.StarCount)
	assert.Equal(t, uint64(0), rc.StarSeed)
	assert.Equal(t, 1280.0, rc.FallbackWidth)
	assert.Equal(t, 800.0, rc.FallbackHeight)

	sim := GetSimulationConfig()
	assert.Equal(t, 0.8, sim.InitialZoom)
	assert.Equal(t, 1.0, sim.InitialSpeed)
	assert.Equal(t, "", sim.CatalogFile)
	assert.Equal(t, 16, sim.NoticeLimit)

	dc := GetDescribeConfig()
	assert.Equal(t, "", dc.APIKey)
	assert.Equal(t, "gemini-2.5-flash", dc.Model)
	assert.Equal(t, 30*time.Second, dc.Timeout)
	assert.Equal(t, 30.0, dc.RatePerMinute)
	assert.Equal(t, 5, dc.Burst)

	mc := GetMonitorConfig()
	assert.True(t, mc.Enabled)
	assert.Equal(t, 30*time.Second, mc.Interval)

	ic := GetInfluxConfig()
	assert.False(t, ic.Enabled)
	assert.Equal(t, "http://localhost:8086", ic.URL)
	assert.Equal(t, "solaris_stats", ic.Bucket)
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg := GetOTelConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "solaris", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "", cfg.Endpoint)
	assert.False(t, cfg.Insecure)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("otel.enabled", true)
	viper.Set("otel.serviceName", "solaris-staging")
	viper.Set("otel.batchTimeout", "30s")
	viper.Set("otel.endpoint", "collector:4318")
	viper.Set("otel.insecure", true)

	cfg := GetOTelConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "solaris-staging", cfg.ServiceName)
	assert.Equal(t, 30*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "collector:4318", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("SOLARIS_SERVER_ADDRESS", ":9999")
	t.Setenv("SOLARIS_RENDER_FRAMERATE", "12")
	t.Setenv("API_KEY", "from-env")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"server":{"address":":7000"}}`), 0644))
	require.NoError(t, Load(dir))

	assert.Equal(t, ":9999", GetServerConfig().Address, "env beats file")
	assert.Equal(t, 12, GetRenderConfig().FrameRate)
	assert.Equal(t, "from-env", GetDescribeConfig().APIKey)
}

func TestLoad_PrefixedKeyBeatsBareAPIKey(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("API_KEY", "bare")
	t.Setenv("SOLARIS_DESCRIBE_APIKEY", "prefixed")

	err := Load(t.TempDir())
	require.True(t, IsNotFound(err))

	assert.Equal(t, "prefixed", GetDescribeConfig().APIKey)
}

func TestBindFlags(t *testing.T) {
	t.Cleanup(viper.Reset)

	fs := Flags("solaris")
	require.NoError(t, fs.Parse([]string{"--addr", ":7777", "--frame-rate", "5"}))
	require.NoError(t, BindFlags(fs))
	_ = Load(t.TempDir())

	assert.Equal(t, ":7777", GetServerConfig().Address)
	assert.Equal(t, 5, GetRenderConfig().FrameRate)
	assert.Equal(t, "info", viper.GetString("logLevel"), "unchanged flags fall through to defaults")
}

func TestGetters(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("some.string", "value")
	viper.Set("some.int", 7)
	viper.Set("some.bool", true)

	assert.Equal(t, "value", GetString("some.string"))
	assert.Equal(t, 7, GetInt("some.int"))
	assert.True(t, GetBool("some.bool"))
}
