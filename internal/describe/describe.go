// Package describe fetches short natural-language descriptions of bodies from an
// external text-generation service. Callers always get displayable text back.
package describe

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/solaris-viz/solaris/pkg/core"
)

// Messages shown in place of a description.
const (
	FallbackNotConfigured = "No API key is configured, so live descriptions are unavailable."
	FallbackFailed        = "Failed to fetch a description. Check your network connection or API key."
	FallbackEmpty         = "No information is available right now."
)

// Describer produces a description for a body.
type Describer interface {
	Describe(ctx context.Context, body core.CelestialBody) (string, error)
}

// Config holds the description service settings.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	RatePerMinute float64
	Burst         int
}

// Service wraps a Describer with rate limiting and fallbacks.
type Service struct {
	describer Describer
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// New builds a Service backed by the Gemini client. A missing key is not an error:
// the service answers with FallbackNotConfigured.
func New(cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	var d Describer
	client, err := NewGeminiClient(cfg)
	switch {
	case err == nil:
		d = client
	case errors.Is(err, ErrNotConfigured):
		logger.Warn("description service disabled, no API key")
	default:
		logger.Error("description service unavailable", "error", err)
	}

	return NewService(d, NewLimiter(cfg.RatePerMinute, cfg.Burst), logger)
}

// NewLimiter allows perMinute calls with the given burst. Non-positive perMinute disables limiting.
func NewLimiter(perMinute float64, burst int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perMinute/60), burst)
}

// NewService wires an arbitrary Describer. d may be nil.
func NewService(d Describer, limiter *rate.Limiter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &Service{describer: d, limiter: limiter, logger: logger}
}

// Configured reports whether a backend is present.
func (s *Service) Configured() bool {
	return s.describer != nil
}

// FetchDescription never fails; every error becomes a fallback message.
func (s *Service) FetchDescription(ctx context.Context, body core.CelestialBody) string {
	if s.describer == nil {
		return FallbackNotConfigured
	}

	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Warn("description rate limited", "body", body.ID, "error", err)
		return FallbackFailed
	}

	text, err := s.describer.Describe(ctx, body)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			return FallbackNotConfigured
		}
		s.logger.Error("failed to fetch description", "body", body.ID, "error", err)
		return FallbackFailed
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackEmpty
	}
	return text
}
