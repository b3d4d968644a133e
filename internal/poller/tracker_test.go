package poller

import (
	"context"
	"sync"
	"testing"
	"time"

	"quarry/internal/api"
)

type countingSource struct {
	mu    sync.Mutex
	calls map[string]int
}

func (s *countingSource) UploadStatus(_ context.Context, assetID string) (api.UploadStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[assetID]++
	return api.UploadStatus{AssetID: assetID, Status: api.ProcessingProcessing}, nil
}

func (s *countingSource) count(assetID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[assetID]
}

func TestTrackerRetargets(t *testing.T) {
	source := &countingSource{calls: map[string]int{}}
	tracker := NewTracker(context.Background(), New(source, time.Millisecond, nil), nil)
	defer tracker.Close()

	if tracker.State() != StateIdle {
		t.Fatalf("state = %s", tracker.State())
	}
	first := tracker.Track("a1")
	if again := tracker.Track("a1"); again != first {
		t.Fatal("tracking the same asset should keep the task")
	}

	second := tracker.Track("a2")
	if second == first {
		t.Fatal("expected a new task")
	}
	if snap := first.Wait(); snap.State != StateStopped {
		t.Fatalf("previous task state = %s", snap.State)
	}
	stoppedAt := source.count("a1")
	time.Sleep(10 * time.Millisecond)
	if source.count("a1") != stoppedAt {
		t.Fatal("previous asset still polled after retarget")
	}
	if tracker.State() != StatePolling {
		t.Fatalf("state = %s", tracker.State())
	}
}

func TestTrackerEmptyIDAndClose(t *testing.T) {
	source := &countingSource{calls: map[string]int{}}
	tracker := NewTracker(context.Background(), New(source, time.Millisecond, nil), nil)

	task := tracker.Track("a1")
	if tracker.Track("") != nil || tracker.State() != StateIdle {
		t.Fatal("empty id should return to idle")
	}
	task.Wait()

	next := tracker.Track("a2")
	tracker.Close()
	if snap := next.Wait(); snap.State != StateStopped {
		t.Fatalf("state after close = %s", snap.State)
	}
	if tracker.Track("a3") != nil {
		t.Fatal("closed tracker should ignore Track")
	}
}
