// Package influx is the optional InfluxDB sink for renderer and session telemetry.
// When the server cannot be reached, points are appended to a gzip line-protocol
// backup file instead.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
)

// ErrDisabled is returned by Connect when the sink is turned off.
var ErrDisabled = errors.New("influx sink is disabled")

// retention applied to buckets the manager creates
const retentionSeconds = 60 * 60 * 24 * 30

// Config describes the target server.
type Config struct {
	Enabled    bool
	URL        string
	Token      string
	Org        string
	Bucket     string
	BackupPath string
}

// Manager owns the client and, when the server is down, the backup writer.
type Manager struct {
	cfg    Config
	logger *slog.Logger

	mu         sync.Mutex
	client     influxdb2.Client
	writer     influxdb2_api.WriteAPIBlocking
	backupFile *os.File
	backup     *gzip.Writer
	valid      bool
}

// NewManager creates an unconnected manager.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{cfg: cfg, logger: logger.With("component", "influx")}
}

// Connect pings the server and prepares the bucket. If the server is unreachable
// and a backup path is configured, writes go to the backup file.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.cfg.Enabled {
		return ErrDisabled
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.client = influxdb2.NewClientWithOptions(
		m.cfg.URL,
		m.cfg.Token,
		influxdb2.DefaultOptions().SetHTTPRequestTimeout(10),
	)

	running, err := m.client.Ping(ctx)
	if err != nil || !running {
		m.valid = false
		if m.cfg.BackupPath == "" {
			return fmt.Errorf("influx ping %s: %v", m.cfg.URL, err)
		}
		if m.backup == nil {
			m.logger.Info("InfluxDB unreachable, writing to backup file", "backupPath", m.cfg.BackupPath)
			file, err := os.OpenFile(m.cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("error creating backup file: %w", err)
			}
			m.backupFile = file
			m.backup = gzip.NewWriter(file)
		}
		return nil
	}

	if err := m.ensureBucket(ctx); err != nil {
		return err
	}
	m.writer = m.client.WriteAPIBlocking(m.cfg.Org, m.cfg.Bucket)
	m.valid = true
	m.logger.Info("InfluxDB client initialized", "url", m.cfg.URL, "bucket", m.cfg.Bucket)
	return nil
}

func (m *Manager) ensureBucket(ctx context.Context) error {
	if _, err := m.client.BucketsAPI().FindBucketByName(ctx, m.cfg.Bucket); err == nil {
		return nil
	}

	m.logger.Info("Bucket not found, creating", "bucket", m.cfg.Bucket)
	org, err := m.client.OrganizationsAPI().FindOrganizationByName(ctx, m.cfg.Org)
	if err != nil {
		org, err = m.client.OrganizationsAPI().CreateOrganizationWithName(ctx, m.cfg.Org)
		if err != nil {
			return fmt.Errorf("create organization %s: %w", m.cfg.Org, err)
		}
	}

	rule := domain.RetentionRuleTypeExpire
	_, err = m.client.BucketsAPI().CreateBucketWithName(ctx, org, m.cfg.Bucket, domain.RetentionRule{
		Type:         &rule,
		EverySeconds: retentionSeconds,
	})
	if err != nil {
		return fmt.Errorf("create bucket %s: %w", m.cfg.Bucket, err)
	}
	return nil
}

// Valid reports whether points go to the server rather than the backup file.
func (m *Manager) Valid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.valid
}

// WritePoint sends one point to the server or the backup file.
func (m *Manager) WritePoint(ctx context.Context, point *influxdb2_write.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid {
		if err := m.writer.WritePoint(ctx, point); err != nil {
			return fmt.Errorf("influx write: %w", err)
		}
		return nil
	}
	if m.backup == nil {
		return errors.New("influx client not initialized and backup writer not available")
	}

	line := strings.TrimRight(influxdb2_write.PointToLineProtocol(point, time.Nanosecond), "\n")
	if _, err := m.backup.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("error writing to influx backup file: %w", err)
	}
	return nil
}

// Close flushes the backup writer and releases the client.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	if m.backup != nil {
		errs = append(errs, m.backup.Close())
		errs = append(errs, m.backupFile.Close())
		m.backup, m.backupFile = nil, nil
	}
	if m.client != nil {
		m.client.Close()
		m.client = nil
	}
	m.valid = false
	return errors.Join(errs...)
}

// NewPoint builds a point; tags and fields may be nil.
func NewPoint(measurement string, tags map[string]string, fields map[string]any, ts time.Time) *influxdb2_write.Point {
	if tags == nil {
		tags = map[string]string{}
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return influxdb2.NewPoint(measurement, tags, fields, ts)
}
