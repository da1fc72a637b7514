package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/solaris-viz/solaris/internal/camera"
	"github.com/solaris-viz/solaris/internal/catalog"
	"github.com/solaris-viz/solaris/internal/config"
	"github.com/solaris-viz/solaris/internal/describe"
	"github.com/solaris-viz/solaris/internal/dispatcher"
	"github.com/solaris-viz/solaris/internal/handlers"
	"github.com/solaris-viz/solaris/internal/influx"
	"github.com/solaris-viz/solaris/internal/logging"
	"github.com/solaris-viz/solaris/internal/monitor"
	intOtel "github.com/solaris-viz/solaris/internal/otel"
	"github.com/solaris-viz/solaris/internal/session"
	"github.com/solaris-viz/solaris/internal/web"
)

// BuildVersion and BuildDate can be set at build time via ldflags
var (
	BuildVersion = "0.0.1"
	BuildDate    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "solaris:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	start := time.Now()

	fs := config.Flags("solaris")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := config.BindFlags(fs); err != nil {
		return err
	}
	configDir, _ := fs.GetString("config-dir")
	cfgErr := config.Load(configDir)
	if cfgErr != nil && !config.IsNotFound(cfgErr) {
		return cfgErr
	}

	// stdout only until the log file and OTel are ready
	logs := logging.NewSlogManager()
	logs.Setup(logging.Options{
		Level:  config.GetString("logLevel"),
		Format: config.GetString("logFormat"),
	})
	logger := logs.Logger()
	logger.Info("Starting up...", "version", BuildVersion, "buildDate", BuildDate)
	if cfgErr != nil {
		logger.Warn("Config file not found, using defaults", "dir", configDir, "file", config.FileName)
	}

	var logFile *os.File
	if dir := config.GetString("logsDir"); dir != "" {
		f, err := logging.OpenLogFile(dir, logging.ServiceName, start)
		if err != nil {
			logger.Error("Failed to create/open log file!", "error", err)
		} else {
			logFile = f
			defer f.Close()
			logger.Info("Begin logging in logs directory", "path", f.Name())
		}
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	otelProvider := setupOTel(logger, logFile, promReg)
	if otelProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelProvider.Shutdown(shutdownCtx); err != nil {
				logger.Error("OTel shutdown failed", "error", err)
			}
		}()
	}

	var sessions atomic.Pointer[session.Registry]
	opts := logging.Options{
		Level:  config.GetString("logLevel"),
		Format: config.GetString("logFormat"),
		Tee:    config.GetBool("logToStdout"),
		Context: func() []slog.Attr {
			if reg := sessions.Load(); reg != nil {
				return []slog.Attr{slog.Int("sessions", reg.Len())}
			}
			return nil
		},
	}
	if logFile != nil {
		opts.File = logFile
	}
	if otelProvider != nil {
		opts.Provider = otelProvider.LoggerProvider()
	}
	logs.Setup(opts)
	logger = logs.Logger()
	slog.SetDefault(logger)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = logs.Flush(flushCtx)
	}()

	sim := config.GetSimulationConfig()
	cat, err := loadCatalog(sim.CatalogFile)
	if err != nil {
		return err
	}
	logger.Info("Catalog loaded", "bodies", cat.Len(), "source", catalogSource(sim.CatalogFile))

	dc := config.GetDescribeConfig()
	desc := describe.New(describe.Config{
		APIKey:        dc.APIKey,
		BaseURL:       dc.BaseURL,
		Model:         dc.Model,
		Timeout:       dc.Timeout,
		RatePerMinute: dc.RatePerMinute,
		Burst:         dc.Burst,
	}, logs.Component("describe"))
	if desc.Configured() {
		logger.Info("Description service ready", "model", dc.Model, "ratePerMinute", dc.RatePerMinute)
	}

	sessOpts := sessionOptions(config.GetRenderConfig(), sim)
	if err := sessOpts.Validate(); err != nil {
		return fmt.Errorf("simulation config: %w", err)
	}
	reg := session.NewRegistry(cat, desc, sessOpts, logs.Component("session"))
	sessions.Store(reg)
	defer reg.Close()

	d, err := dispatcher.New(logs.Component("dispatcher"))
	if err != nil {
		return fmt.Errorf("create dispatcher: %w", err)
	}
	defer d.Close()
	handlers.Register(d, reg, logs.Component("handlers"))
	logger.Debug("Commands registered", "commands", d.Commands())

	var sink monitor.Sink
	if im := setupInflux(ctx, logs); im != nil {
		sink = im
		defer im.Close()
	}
	mon := monitor.NewService(monitor.Dependencies{
		Source:   reg,
		Sink:     sink,
		Logger:   logs.Logger(),
		Interval: config.GetMonitorConfig().Interval,
	})
	if config.GetMonitorConfig().Enabled {
		mon.Start(ctx)
		defer mon.Stop()
	}

	sc := config.GetServerConfig()
	srv := web.NewServer(web.Dependencies{
		Sessions:       reg,
		Dispatcher:     d,
		Logger:         logs.Logger(),
		Registerer:     promReg,
		Gatherer:       promReg,
		FrameRate:      config.GetRenderConfig().FrameRate,
		SendBuffer:     sc.SendBuffer,
		AllowedOrigins: sc.AllowedOrigins,
	})

	logger.Info("Listening", "addr", sc.Address)
	err = web.Serve(ctx, sc.Address, srv, sc.ReadHeaderTimeout, sc.ShutdownTimeout)
	logger.Info("Shutting down", "sessions", reg.Len())
	return err
}

func setupOTel(logger *slog.Logger, logFile *os.File, reg prometheus.Registerer) *intOtel.Provider {
	oc := config.GetOTelConfig()
	cfg := intOtel.Config{
		Enabled:      oc.Enabled,
		ServiceName:  oc.ServiceName,
		BatchTimeout: oc.BatchTimeout,
		Endpoint:     oc.Endpoint,
		Insecure:     oc.Insecure,
		Registerer:   reg,
	}
	// a nil *os.File must not become a non-nil io.Writer
	if logFile != nil {
		cfg.LogWriter = io.Writer(logFile)
	}

	p, err := intOtel.New(cfg)
	if err != nil {
		logger.Error("Failed to initialize OTel provider", "error", err)
		return nil
	}
	if oc.Enabled {
		logger.Info("OTel provider initialized", "endpoint", oc.Endpoint)
	}
	return p
}

// setupInflux returns nil unless the sink is enabled and usable.
func setupInflux(ctx context.Context, logs *logging.SlogManager) *influx.Manager {
	ic := config.GetInfluxConfig()
	if !ic.Enabled {
		return nil
	}
	m := influx.NewManager(influx.Config{
		Enabled:    ic.Enabled,
		URL:        ic.URL,
		Token:      ic.Token,
		Org:        ic.Org,
		Bucket:     ic.Bucket,
		BackupPath: ic.BackupPath,
	}, logs.Logger())
	if err := m.Connect(ctx); err != nil {
		logs.Logger().Error("InfluxDB sink unavailable", "error", err)
		_ = m.Close()
		return nil
	}
	return m
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

func catalogSource(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}

func sessionOptions(rc config.RenderConfig, sim config.SimulationConfig) session.Options {
	opts := session.DefaultOptions()
	if sim.InitialZoom > 0 {
		opts.InitialZoom = sim.InitialZoom
	}
	if sim.InitialSpeed > 0 {
		opts.InitialSpeed = sim.InitialSpeed
	}
	if sim.NoticeLimit > 0 {
		opts.NoticeLimit = sim.NoticeLimit
	}
	if rc.FallbackWidth > 0 && rc.FallbackHeight > 0 {
		opts.Fallback = camera.Size{Width: rc.FallbackWidth, Height: rc.FallbackHeight}
	}
	if rc.StarCount >= 0 {
		opts.StarCount = rc.StarCount
	}
	opts.StarSeed = rc.StarSeed
	return opts
}
