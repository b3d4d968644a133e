package poller

import (
	"context"
	"sync"

	"quarry/internal/api"
)

// Tracker keeps at most one polling task alive, following the asset the
// caller is currently interested in.
type Tracker struct {
	ctx      context.Context
	poller   *Poller
	onUpdate func(api.UploadStatus)

	mu      sync.Mutex
	current *Task
	closed  bool
}

// NewTracker returns an idle tracker. Tasks inherit ctx.
func NewTracker(ctx context.Context, p *Poller, onUpdate func(api.UploadStatus)) *Tracker {
	return &Tracker{ctx: ctx, poller: p, onUpdate: onUpdate}
}

// Track retargets the tracker. A new asset stops the previous task and
// starts polling; the same asset is a no-op; an empty id returns the tracker
// to idle.
func (t *Tracker) Track(assetID string) *Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	if t.current != nil && t.current.AssetID() == assetID {
		return t.current
	}
	if t.current != nil {
		t.current.Stop()
		t.current = nil
	}
	if assetID == "" {
		return nil
	}
	t.current = t.poller.Start(t.ctx, assetID, t.onUpdate)
	return t.current
}

// Current returns the active task, or nil when idle.
func (t *Tracker) Current() *Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// State reports the current task's state, or idle.
func (t *Tracker) State() State {
	task := t.Current()
	if task == nil {
		return StateIdle
	}
	return task.Snapshot().State
}

// Close stops the current task. Further Track calls are ignored.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	if t.current != nil {
		t.current.Stop()
		t.current = nil
	}
}
