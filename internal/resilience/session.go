// Package resilience routes service calls through a session that degrades to
// mock data, once and for good, the first time the service proves
// unreachable.
package resilience

import (
	"context"
	"log/slog"
	"sync/atomic"

	"quarry/internal/logging"
	"quarry/internal/remote"
)

// Mode is the data source a session is serving from.
type Mode string

const (
	ModeLive Mode = "live"
	ModeMock Mode = "mock"
)

// Session holds the one-way mock flag shared by every call made on behalf of
// one client session. Safe for concurrent use.
type Session struct {
	mock       atomic.Bool
	logger     *slog.Logger
	classify   func(error) bool
	onFallback func(op string, err error)
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logging.NewComponentLogger(logger, "resilience") }
}

// WithMockMode starts the session already in mock mode.
func WithMockMode(enabled bool) Option {
	return func(s *Session) { s.mock.Store(enabled) }
}

// WithClassifier replaces the connectivity classifier.
func WithClassifier(classify func(error) bool) Option {
	return func(s *Session) {
		if classify != nil {
			s.classify = classify
		}
	}
}

// WithOnFallback registers a hook invoked once, when the session switches to
// mock mode.
func WithOnFallback(fn func(op string, err error)) Option {
	return func(s *Session) { s.onFallback = fn }
}

// NewSession returns a live session unless configured otherwise.
func NewSession(opts ...Option) *Session {
	s := &Session{
		logger:   logging.NewComponentLogger(nil, "resilience"),
		classify: remote.IsConnectivity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MockMode reports whether the session serves mock data.
func (s *Session) MockMode() bool {
	return s.mock.Load()
}

// Mode reports the current data source.
func (s *Session) Mode() Mode {
	if s.MockMode() {
		return ModeMock
	}
	return ModeLive
}

// degrade sets the mock flag. Only the call that flips it logs and notifies.
func (s *Session) degrade(op string, err error) {
	if !s.mock.CompareAndSwap(false, true) {
		return
	}
	logging.WarnWithContext(s.logger, "service unreachable; switching to mock data", "mock_fallback",
		logging.String(logging.FieldOperation, op),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check api.base_url or QUARRY_API_URL and that the service is running"),
		logging.String(logging.FieldImpact, "serving mock data for the rest of the session"),
	)
	if s.onFallback != nil {
		s.onFallback(op, err)
	}
}

// Execute runs live unless the session is in mock mode. A connectivity-class
// failure switches the session to mock mode and answers from fallback. Any
// other error, and any failure after ctx itself has ended, is returned
// unchanged.
func Execute[T any](ctx context.Context, s *Session, op string, live func(context.Context) (T, error), fallback func() T) (T, error) {
	if s.MockMode() {
		s.logger.Debug("serving mock data", logging.String(logging.FieldOperation, op))
		return fallback(), nil
	}
	result, err := live(ctx)
	if err == nil {
		s.logger.Debug("live call succeeded", logging.String(logging.FieldOperation, op))
		return result, nil
	}
	if ctx.Err() == nil && s.classify(err) {
		s.degrade(op, err)
		return fallback(), nil
	}
	s.logger.Debug("live call failed",
		logging.String(logging.FieldOperation, op),
		logging.Error(err),
	)
	var zero T
	return zero, err
}
