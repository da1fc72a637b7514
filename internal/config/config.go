package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "solaris.cfg.json"

// EnvPrefix prefixes every environment override, e.g. SOLARIS_SERVER_ADDRESS.
const EnvPrefix = "SOLARIS"

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Address           string        `json:"address" mapstructure:"address"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" mapstructure:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout" mapstructure:"shutdownTimeout"`
	AllowedOrigins    []string      `json:"allowedOrigins" mapstructure:"allowedOrigins"`
	SendBuffer        int           `json:"sendBuffer" mapstructure:"sendBuffer"`
}

// RenderConfig holds per-session rendering settings
type RenderConfig struct {
	FrameRate      int     `json:"frameRate" mapstructure:"frameRate"`
	StarCount      int     `json:"starCount" mapstructure:"starCount"`
	StarSeed       uint64  `json:"starSeed" mapstructure:"starSeed"`
	FallbackWidth  float64 `json:"fallbackWidth" mapstructure:"fallbackWidth"`
	FallbackHeight float64 `json:"fallbackHeight" mapstructure:"fallbackHeight"`
}

// SimulationConfig holds the initial clock and camera state plus the catalog source
type SimulationConfig struct {
	InitialZoom  float64 `json:"initialZoom" mapstructure:"initialZoom"`
	InitialSpeed float64 `json:"initialSpeed" mapstructure:"initialSpeed"`
	CatalogFile  string  `json:"catalogFile" mapstructure:"catalogFile"`
	NoticeLimit  int     `json:"noticeLimit" mapstructure:"noticeLimit"`
}

// DescribeConfig holds settings for the generated body descriptions
type DescribeConfig struct {
	APIKey        string        `json:"apiKey" mapstructure:"apiKey"`
	BaseURL       string        `json:"baseUrl" mapstructure:"baseUrl"`
	Model         string        `json:"model" mapstructure:"model"`
	Timeout       time.Duration `json:"timeout" mapstructure:"timeout"`
	RatePerMinute float64       `json:"ratePerMinute" mapstructure:"ratePerMinute"`
	Burst         int           `json:"burst" mapstructure:"burst"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// InfluxConfig holds the optional InfluxDB telemetry sink settings
type InfluxConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	URL        string `json:"url" mapstructure:"url"`
	Token      string `json:"token" mapstructure:"token"`
	Org        string `json:"org" mapstructure:"org"`
	Bucket     string `json:"bucket" mapstructure:"bucket"`
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// MonitorConfig holds the periodic stats loop settings
type MonitorConfig struct {
	Enabled  bool          `json:"enabled" mapstructure:"enabled"`
	Interval time.Duration `json:"interval" mapstructure:"interval"`
}

// SetDefaults registers every default value. Load calls it; tests may call it directly.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFormat", "text")
	viper.SetDefault("logsDir", "./logs")
	viper.SetDefault("logToStdout", true)

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.readHeaderTimeout", "10s")
	viper.SetDefault("server.shutdownTimeout", "10s")
	viper.SetDefault("server.allowedOrigins", []string{})
	viper.SetDefault("server.sendBuffer", 8)

	viper.SetDefault("render.frameRate", 30)
	viper.SetDefault("render.starCount", 300)
	viper.SetDefault("render.starSeed", 0)
	viper.SetDefault("render.fallbackWidth", 1280)
	viper.SetDefault("render.fallbackHeight", 800)

	viper.SetDefault("simulation.initialZoom", 0.8)
	viper.SetDefault("simulation.initialSpeed", 1)
	viper.SetDefault("simulation.catalogFile", "")
	viper.SetDefault("simulation.noticeLimit", 16)

	viper.SetDefault("describe.apiKey", "")
	viper.SetDefault("describe.baseUrl", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("describe.model", "gemini-2.5-flash")
	viper.SetDefault("describe.timeout", "30s")
	viper.SetDefault("describe.ratePerMinute", 30)
	viper.SetDefault("describe.burst", 5)

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "solaris")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", false)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "solaris")
	viper.SetDefault("influx.bucket", "solaris_stats")
	viper.SetDefault("influx.backupPath", "")

	viper.SetDefault("monitor.enabled", true)
	viper.SetDefault("monitor.interval", "30s")
}

// Load sets defaults, binds environment overrides and reads FileName from configDir.
// A missing file is not fatal: the returned error satisfies IsNotFound and the
// defaults stay in effect.
func Load(configDir string) error {
	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// the bare API_KEY variable is accepted for the description key
	if err := viper.BindEnv("describe.apiKey", EnvPrefix+"_DESCRIBE_APIKEY", "API_KEY"); err != nil {
		return fmt.Errorf("error binding env: %w", err)
	}

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// IsNotFound reports whether err from Load means the config file was absent.
func IsNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf)
}

// Flags returns the command-line flags understood by the server.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config-dir", ".", "directory containing "+FileName)
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("logs-dir", "./logs", "directory for log files, empty disables file logging")
	fs.String("catalog", "", "YAML or JSON catalog file replacing the built-in solar system")
	fs.Int("frame-rate", 30, "frames per second pushed to each session")
	return fs
}

var flagKeys = map[string]string{
	"addr":       "server.address",
	"log-level":  "logLevel",
	"logs-dir":   "logsDir",
	"catalog":    "simulation.catalogFile",
	"frame-rate": "render.frameRate",
}

// BindFlags makes flags set on the command line take precedence over file and env values.
func BindFlags(fs *pflag.FlagSet) error {
	for flag, key := range flagKeys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// GetServerConfig returns the HTTP listener configuration
func GetServerConfig() ServerConfig {
	return ServerConfig{
		Address:           viper.GetString("server.address"),
		ReadHeaderTimeout: viper.GetDuration("server.readHeaderTimeout"),
		ShutdownTimeout:   viper.GetDuration("server.shutdownTimeout"),
		AllowedOrigins:    viper.GetStringSlice("server.allowedOrigins"),
		SendBuffer:        viper.GetInt("server.sendBuffer"),
	}
}

// GetRenderConfig returns the rendering configuration
func GetRenderConfig() RenderConfig {
	return RenderConfig{
		FrameRate:      viper.GetInt("render.frameRate"),
		StarCount:      viper.GetInt("render.starCount"),
		StarSeed:       viper.GetUint64("render.starSeed"),
		FallbackWidth:  viper.GetFloat64("render.fallbackWidth"),
		FallbackHeight: viper.GetFloat64("render.fallbackHeight"),
	}
}

// GetSimulationConfig returns the initial simulation state
func GetSimulationConfig() SimulationConfig {
	return SimulationConfig{
		InitialZoom:  viper.GetFloat64("simulation.initialZoom"),
		InitialSpeed: viper.GetFloat64("simulation.initialSpeed"),
		CatalogFile:  viper.GetString("simulation.catalogFile"),
		NoticeLimit:  viper.GetInt("simulation.noticeLimit"),
	}
}

// GetDescribeConfig returns the description service configuration
func GetDescribeConfig() DescribeConfig {
	return DescribeConfig{
		APIKey:        viper.GetString("describe.apiKey"),
		BaseURL:       viper.GetString("describe.baseUrl"),
		Model:         viper.GetString("describe.model"),
		Timeout:       viper.GetDuration("describe.timeout"),
		RatePerMinute: viper.GetFloat64("describe.ratePerMinute"),
		Burst:         viper.GetInt("describe.burst"),
	}
}

// GetOTelConfig returns the OpenTelemetry configuration
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the InfluxDB sink configuration
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		URL:        viper.GetString("influx.url"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetMonitorConfig returns the stats loop configuration
func GetMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Enabled:  viper.GetBool("monitor.enabled"),
		Interval: viper.GetDuration("monitor.interval"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
