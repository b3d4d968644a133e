package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quarry/internal/api"
	"quarry/internal/logging"
)

type scriptedSource struct {
	mu       sync.Mutex
	statuses []api.ProcessingStatus
	err      error
	calls    int
}

func (s *scriptedSource) UploadStatus(_ context.Context, assetID string) (api.UploadStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil && len(s.statuses) == 0 {
		return api.UploadStatus{}, s.err
	}
	next := s.statuses[0]
	if len(s.statuses) > 1 {
		s.statuses = s.statuses[1:]
	} else if s.err != nil {
		s.statuses = nil
	}
	return api.UploadStatus{AssetID: assetID, Status: next}, nil
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestPollerStopsAfterTerminalStatus(t *testing.T) {
	source := &scriptedSource{statuses: []api.ProcessingStatus{
		api.ProcessingPending, api.ProcessingProcessing, api.ProcessingCompleted,
	}}
	var seen []api.ProcessingStatus
	task := New(source, time.Millisecond, logging.NewNop()).Start(context.Background(), "a1", func(s api.UploadStatus) {
		seen = append(seen, s.Status)
	})

	snap := task.Wait()
	if snap.State != StateTerminal {
		t.Fatalf("state = %s", snap.State)
	}
	if snap.Queries != 3 || source.callCount() != 3 {
		t.Fatalf("queries = %d, source calls = %d, want 3", snap.Queries, source.callCount())
	}
	want := []api.ProcessingStatus{api.ProcessingPending, api.ProcessingProcessing, api.ProcessingCompleted}
	if len(seen) != len(want) {
		t.Fatalf("updates = %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("update %d = %s, want %s", i, seen[i], want[i])
		}
	}

	time.Sleep(10 * time.Millisecond)
	if source.callCount() != 3 {
		t.Fatalf("polling continued after terminal status: %d calls", source.callCount())
	}
}

func TestPollerTerminalStatuses(t *testing.T) {
	for _, terminal := range []api.ProcessingStatus{api.ProcessingFailed, api.ProcessingCanceled} {
		source := &scriptedSource{statuses: []api.ProcessingStatus{api.ProcessingQueued, terminal}}
		snap := New(source, time.Millisecond, nil).Start(context.Background(), "a1", nil).Wait()
		if snap.State != StateTerminal || snap.Status.Status != terminal || snap.Queries != 2 {
			t.Fatalf("%s: unexpected snapshot %+v", terminal, snap)
		}
	}
}

func TestPollerHaltsOnError(t *testing.T) {
	boom := errors.New("status 500")
	source := &scriptedSource{statuses: []api.ProcessingStatus{api.ProcessingPending}, err: boom}
	snap := New(source, time.Millisecond, nil).Start(context.Background(), "a1", nil).Wait()

	if snap.State != StateErrored || !errors.Is(snap.Err, boom) {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Queries != 2 || !snap.HasStatus || snap.Status.Status != api.ProcessingPending {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	time.Sleep(10 * time.Millisecond)
	if source.callCount() != 2 {
		t.Fatalf("polling retried after error: %d calls", source.callCount())
	}
}

type blockingSource struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingSource) UploadStatus(_ context.Context, assetID string) (api.UploadStatus, error) {
	close(s.started)
	<-s.release
	return api.UploadStatus{AssetID: assetID, Status: api.ProcessingCompleted}, nil
}

func TestStopDiscardsLateResult(t *testing.T) {
	source := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	updates := 0
	task := New(source, time.Millisecond, nil).Start(context.Background(), "a1", func(api.UploadStatus) { updates++ })

	<-source.started
	task.Stop()
	close(source.release)
	snap := task.Wait()

	if snap.State != StateStopped {
		t.Fatalf("state = %s", snap.State)
	}
	if updates != 0 || snap.HasStatus {
		t.Fatalf("late result applied: updates=%d snapshot=%+v", updates, snap)
	}
}

func TestStopCancelsInFlightQuery(t *testing.T) {
	source := sourceFunc(func(ctx context.Context, _ string) (api.UploadStatus, error) {
		<-ctx.Done()
		return api.UploadStatus{}, ctx.Err()
	})
	task := New(source, time.Millisecond, nil).Start(context.Background(), "a1", nil)
	time.Sleep(5 * time.Millisecond)
	task.Stop()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not exit after Stop")
	}
	if snap := task.Snapshot(); snap.State != StateStopped || snap.Err != nil {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestParentCancellationStopsTask(t *testing.T) {
	source := &scriptedSource{statuses: []api.ProcessingStatus{api.ProcessingProcessing}}
	ctx, cancel := context.WithCancel(context.Background())
	task := New(source, 5*time.Millisecond, nil).Start(ctx, "a1", nil)
	time.Sleep(12 * time.Millisecond)
	cancel()

	snap := task.Wait()
	if snap.State != StateStopped {
		t.Fatalf("state = %s", snap.State)
	}
	if snap.Queries < 1 {
		t.Fatalf("queries = %d", snap.Queries)
	}
}

type sourceFunc func(ctx context.Context, assetID string) (api.UploadStatus, error)

func (f sourceFunc) UploadStatus(ctx context.Context, assetID string) (api.UploadStatus, error) {
	return f(ctx, assetID)
}
