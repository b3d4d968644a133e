package api_test

import (
	"encoding/json"
	"testing"

	"quarry/internal/api"
)

func TestStatusTerminality(t *testing.T) {
	terminal := map[api.ProcessingStatus]bool{
		api.ProcessingPending:    false,
		api.ProcessingQueued:     false,
		api.ProcessingProcessing: false,
		api.ProcessingCompleted:  true,
		api.ProcessingFailed:     true,
		api.ProcessingCanceled:   true,
	}
	for status, want := range terminal {
		if got := (api.UploadStatus{Status: status}).IsTerminal(); got != want {
			t.Errorf("%s terminal = %v, want %v", status, got, want)
		}
	}
	if api.JobProcessing.IsTerminal() || !api.JobCompleted.IsTerminal() {
		t.Fatal("unexpected job terminality")
	}
}

func TestFormatByline(t *testing.T) {
	for _, f := range api.ExportFormats {
		want := f != api.FormatJSON && f != api.FormatSRT && f != api.FormatVTT
		if got := f.UsesByline(); got != want {
			t.Errorf("%s UsesByline = %v, want %v", f, got, want)
		}
		if !f.Valid() {
			t.Errorf("%s should be valid", f)
		}
	}
	if api.ExportFormat("pdf").Valid() {
		t.Fatal("pdf should not be valid")
	}
}

func TestQuotePatchApplyDoesNotAlias(t *testing.T) {
	conf := 0.9
	q := api.Quote{ID: "q1", Text: "hello", Tags: []string{"a"}, Confidence: &conf}
	approved := true
	out := api.QuotePatch{Approved: &approved, Tags: []string{"b", "c"}}.Apply(q)

	if !out.Approved || out.Text != "hello" || len(out.Tags) != 2 {
		t.Fatalf("unexpected patched quote: %+v", out)
	}
	out.Tags[0] = "mutated"
	*out.Confidence = 0.1
	if q.Tags[0] != "a" || *q.Confidence != 0.9 {
		t.Fatal("patched quote aliases the original")
	}
}

func TestExportRequestSendsNullByline(t *testing.T) {
	body, err := json.Marshal(api.ExportRequest{QuoteIDs: []string{}, Format: api.FormatSRT})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"quote_ids":[],"format":"srt","title":null,"author":null}`
	if string(body) != want {
		t.Fatalf("body = %s, want %s", body, want)
	}
}

func TestValidateSegments(t *testing.T) {
	tests := []struct {
		name    string
		segs    []api.Segment
		wantErr bool
	}{
		{name: "empty", segs: nil},
		{name: "ordered touching", segs: []api.Segment{{Start: 0, End: 2}, {Start: 2, End: 3}}},
		{name: "negative start", segs: []api.Segment{{Start: -1, End: 2}}, wantErr: true},
		{name: "end before start", segs: []api.Segment{{Start: 3, End: 2}}, wantErr: true},
		{name: "overlap", segs: []api.Segment{{Start: 0, End: 2}, {Start: 1, End: 3}}, wantErr: true},
		{name: "unordered", segs: []api.Segment{{Start: 4, End: 5}, {Start: 1, End: 2}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := api.ValidateSegments(tt.segs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	segs := []api.Segment{{Start: 0, End: 2}, {Start: 5, End: 8}}
	if api.Overlaps(segs, api.Segment{Start: 2, End: 5}) {
		t.Fatal("touching range should not overlap")
	}
	if !api.Overlaps(segs, api.Segment{Start: 7, End: 9}) {
		t.Fatal("expected overlap")
	}
}
