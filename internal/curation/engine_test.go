package curation_test

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"quarry/internal/api"
	"quarry/internal/curation"
	"quarry/internal/gateway"
	"quarry/internal/logging"
	"quarry/internal/services"
	"quarry/internal/testsupport"
)

func newEngine(t *testing.T) (*curation.Engine, *testsupport.FakeService) {
	t.Helper()
	svc := testsupport.NewFakeService(t)
	gw := gateway.FromConfig(testsupport.NewConfig(t, testsupport.WithBaseURL(svc.URL)), logging.NewNop())
	return curation.NewEngine(gw, logging.NewNop()), svc
}

func TestLoadTranslatesStatusFilter(t *testing.T) {
	tests := []struct {
		status     curation.StatusFilter
		wantStatus []string
		wantCount  int
	}{
		{status: curation.StatusAll, wantStatus: nil, wantCount: 6},
		{status: curation.StatusApproved, wantStatus: []string{"approved"}, wantCount: 3},
		{status: curation.StatusPending, wantStatus: []string{"pending"}, wantCount: 3},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			engine, svc := newEngine(t)
			quotes, err := engine.Load(context.Background(), curation.LoadOptions{Status: tt.status})
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(quotes) != tt.wantCount {
				t.Fatalf("quotes = %d, want %d", len(quotes), tt.wantCount)
			}
			reqs := svc.RequestsTo(http.MethodGet, "/api/quotes")
			if len(reqs) != 1 {
				t.Fatalf("requests = %d", len(reqs))
			}
			if diff := cmp.Diff(tt.wantStatus, reqs[0].Query["status"]); diff != "" {
				t.Fatalf("status param mismatch (-want +got):\n%s", diff)
			}
			if _, ok := reqs[0].Query["minConfidence"]; ok {
				t.Fatal("minConfidence should be omitted when zero")
			}
		})
	}
}

func TestApproveThenRejectKeepsOtherFields(t *testing.T) {
	engine, _ := newEngine(t)
	ctx := context.Background()
	quotes, err := engine.Load(ctx, curation.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	target := quotes[4]
	position := 4

	if _, err := engine.Approve(ctx, target.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if !engine.Quotes()[position].Approved {
		t.Fatal("approve not applied")
	}
	if _, err := engine.Reject(ctx, target.ID); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	got := engine.Quotes()[position]
	if got.Approved {
		t.Fatal("expected approved=false")
	}
	if got.ID != target.ID || got.Text != target.Text || !slices.Equal(got.Tags, target.Tags) {
		t.Fatalf("fields changed: before %+v after %+v", target, got)
	}
	if (got.Confidence == nil) != (target.Confidence == nil) || (got.Confidence != nil && *got.Confidence != *target.Confidence) {
		t.Fatalf("confidence changed: %v -> %v", target.Confidence, got.Confidence)
	}
}

type stubQuotes struct {
	quotes  []api.Quote
	updated api.Quote
	err     error
	deleted []string
}

func (s *stubQuotes) ListQuotes(context.Context, api.QuoteQuery) ([]api.Quote, error) {
	return slices.Clone(s.quotes), nil
}

func (s *stubQuotes) UpdateQuote(context.Context, string, api.QuotePatch) (api.Quote, error) {
	return s.updated, s.err
}

func (s *stubQuotes) DeleteQuote(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func TestMutationReplacesEntryWholesale(t *testing.T) {
	stub := &stubQuotes{
		quotes: []api.Quote{
			{ID: "q1", Text: "one", Tags: []string{"a"}},
			{ID: "q2", Text: "two", Tags: []string{"b"}},
			{ID: "q3", Text: "three"},
		},
		updated: api.Quote{ID: "q2", Text: "server text", Approved: true},
	}
	engine := curation.NewEngine(stub, nil)
	ctx := context.Background()
	if _, err := engine.Load(ctx, curation.LoadOptions{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := engine.Approve(ctx, "q2"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	got := engine.Quotes()
	if diff := cmp.Diff(stub.updated, got[1]); diff != "" {
		t.Fatalf("entry not replaced wholesale (-want +got):\n%s", diff)
	}
	if got[0].ID != "q1" || got[2].ID != "q3" {
		t.Fatalf("positions changed: %v", got)
	}
}

func TestMutationErrorLeavesCollection(t *testing.T) {
	remoteErr := errors.New("status 409")
	stub := &stubQuotes{quotes: []api.Quote{{ID: "q1"}}, err: remoteErr}
	engine := curation.NewEngine(stub, nil)
	ctx := context.Background()
	_, _ = engine.Load(ctx, curation.LoadOptions{})

	if _, err := engine.Approve(ctx, "q1"); !errors.Is(err, remoteErr) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if engine.Quotes()[0].Approved {
		t.Fatal("collection mutated on error")
	}
	if err := engine.Delete(ctx, "q1"); !errors.Is(err, remoteErr) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if len(engine.Quotes()) != 1 {
		t.Fatal("quote removed despite error")
	}
}

func TestEditTextValidatesLocally(t *testing.T) {
	stub := &stubQuotes{}
	engine := curation.NewEngine(stub, nil)
	if _, err := engine.EditText(context.Background(), "q1", "   "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteAndVisible(t *testing.T) {
	engine, svc := newEngine(t)
	ctx := context.Background()
	if _, err := engine.Load(ctx, curation.LoadOptions{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(engine.Visible("culture")); got != 2 {
		t.Fatalf("visible culture quotes = %d", got)
	}
	if err := engine.Delete(ctx, "quote-demo-006"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := len(engine.Visible("culture")); got != 1 {
		t.Fatalf("visible after delete = %d", got)
	}
	if len(svc.RequestsTo(http.MethodDelete, "/api/quotes/quote-demo-006")) != 1 {
		t.Fatal("expected delete request")
	}

	tagged, err := engine.SetTags(ctx, "quote-demo-003", []string{"speed", "habits"})
	if err != nil {
		t.Fatalf("SetTags: %v", err)
	}
	if !slices.Equal(tagged.Tags, []string{"speed", "habits"}) {
		t.Fatalf("tags = %v", tagged.Tags)
	}
	if got := quoteIDs(engine.Visible("habit")); !slices.Equal(got, []string{"quote-demo-003"}) {
		t.Fatalf("visible = %v", got)
	}
}

func quoteIDs(quotes []api.Quote) []string {
	ids := make([]string, len(quotes))
	for i, q := range quotes {
		ids[i] = q.ID
	}
	return ids
}
