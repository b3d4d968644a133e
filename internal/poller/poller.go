// Package poller tracks an uploaded asset through server-side processing by
// querying its status until a terminal state, an error, or cancellation.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"quarry/internal/api"
	"quarry/internal/logging"
	"quarry/internal/services"
)

// DefaultInterval is the delay between status queries.
const DefaultInterval = 1500 * time.Millisecond

// State is the lifecycle state of a polling task.
type State string

const (
	StateIdle     State = "idle"
	StatePolling  State = "polling"
	StateTerminal State = "terminal"
	StateErrored  State = "errored"
	StateStopped  State = "stopped"
)

// Done reports whether the state is final.
func (s State) Done() bool {
	return s == StateTerminal || s == StateErrored || s == StateStopped
}

// StatusSource answers upload status queries.
type StatusSource interface {
	UploadStatus(ctx context.Context, assetID string) (api.UploadStatus, error)
}

// Poller starts polling tasks against a status source.
type Poller struct {
	source   StatusSource
	interval time.Duration
	logger   *slog.Logger
}

// New creates a Poller. A non-positive interval uses DefaultInterval.
func New(source StatusSource, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		source:   source,
		interval: interval,
		logger:   logging.NewComponentLogger(logger, "poller"),
	}
}

// Start issues an immediate status query for assetID and then one query per
// interval, each scheduled after the previous one settles. onUpdate, when
// set, receives every applied status on the task goroutine. It must not call
// methods on the returned Task.
func (p *Poller) Start(ctx context.Context, assetID string, onUpdate func(api.UploadStatus)) *Task {
	ctx, cancel := context.WithCancel(services.WithAssetID(ctx, assetID))
	task := &Task{
		assetID:  assetID,
		cancel:   cancel,
		done:     make(chan struct{}),
		onUpdate: onUpdate,
		state:    StatePolling,
		active:   true,
	}
	go task.run(ctx, p)
	return task
}

// Snapshot is a point-in-time view of a task.
type Snapshot struct {
	AssetID   string
	State     State
	Status    api.UploadStatus
	HasStatus bool
	Err       error
	Queries   int
}

// Task is one polling run for one asset.
type Task struct {
	assetID  string
	cancel   context.CancelFunc
	done     chan struct{}
	onUpdate func(api.UploadStatus)

	mu        sync.Mutex
	active    bool
	state     State
	last      api.UploadStatus
	hasStatus bool
	err       error
	queries   int
}

// AssetID returns the tracked asset.
func (t *Task) AssetID() string {
	return t.assetID
}

// Stop cancels the pending timer and any in-flight query. Results arriving
// afterwards are discarded. Stop is idempotent.
func (t *Task) Stop() {
	t.mu.Lock()
	if t.active {
		t.active = false
		t.state = StateStopped
	}
	t.mu.Unlock()
	t.cancel()
}

// Done is closed when the task goroutine exits.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task ends and returns its final snapshot.
func (t *Task) Wait() Snapshot {
	<-t.done
	return t.Snapshot()
}

// Snapshot reports the task's current state.
func (t *Task) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		AssetID:   t.assetID,
		State:     t.state,
		Status:    t.last,
		HasStatus: t.hasStatus,
		Err:       t.err,
		Queries:   t.queries,
	}
}

func (t *Task) run(ctx context.Context, p *Poller) {
	defer close(t.done)
	defer t.cancel()
	logger := p.logger.With(logging.String(logging.FieldAssetID, t.assetID))

	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			t.halt()
			return
		case <-timer.C:
		}
		if !t.begin() {
			return
		}
		status, err := p.source.UploadStatus(ctx, t.assetID)
		if !t.apply(ctx, status, err, logger) {
			return
		}
		timer.Reset(p.interval)
	}
}

// begin counts a query if the task is still live.
func (t *Task) begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return false
	}
	t.queries++
	return true
}

// halt marks a task stopped by its parent context.
func (t *Task) halt() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active {
		t.active = false
		t.state = StateStopped
	}
}

// apply records one query result and reports whether polling continues.
// Results for a task that is no longer active are dropped.
func (t *Task) apply(ctx context.Context, status api.UploadStatus, err error, logger *slog.Logger) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		logger.Debug("discarding status for stopped task")
		return false
	}
	if err != nil {
		t.active = false
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			t.state = StateStopped
			return false
		}
		t.state = StateErrored
		t.err = err
		logger.Warn("status polling halted",
			logging.Error(err),
			logging.String(logging.FieldEventType, "poll_failed"),
			logging.String(logging.FieldErrorHint, "re-run watch once the service recovers"),
			logging.String(logging.FieldImpact, "status updates stopped"),
		)
		return false
	}
	t.last = status
	t.hasStatus = true
	if status.IsTerminal() {
		t.active = false
		t.state = StateTerminal
		logger.Info("upload reached terminal status",
			logging.String("status", string(status.Status)),
			logging.Int("queries", t.queries),
		)
	} else {
		logger.Debug("upload status", logging.String("status", string(status.Status)))
	}
	if t.onUpdate != nil {
		t.onUpdate(status)
	}
	return t.active
}
