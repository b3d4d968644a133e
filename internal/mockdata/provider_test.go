package mockdata

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"quarry/internal/api"
)

func newTestProvider() *Provider {
	p := NewProvider()
	p.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return p
}

func TestListQuotesFilters(t *testing.T) {
	p := newTestProvider()
	tests := []struct {
		name  string
		query api.QuoteQuery
		want  int
	}{
		{name: "all", query: api.QuoteQuery{}, want: 6},
		{name: "approved", query: api.QuoteQuery{Status: "approved"}, want: 3},
		{name: "pending", query: api.QuoteQuery{Status: "pending"}, want: 3},
		{name: "min confidence excludes null", query: api.QuoteQuery{MinConfidence: 0.8}, want: 3},
		{name: "approved and confident", query: api.QuoteQuery{Status: "approved", MinConfidence: 0.9}, want: 1},
		{name: "primary asset", query: api.QuoteQuery{AssetID: AssetID}, want: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(p.ListQuotes(tt.query)); got != tt.want {
				t.Fatalf("got %d quotes, want %d", got, tt.want)
			}
		})
	}
}

func TestProviderWritesStayInWorkingCopy(t *testing.T) {
	p := newTestProvider()
	approved := true
	updated := p.UpdateQuote("quote-demo-003", api.QuotePatch{Approved: &approved})
	if !updated.Approved {
		t.Fatal("expected approved quote")
	}
	if !p.GetQuote("quote-demo-003").Approved {
		t.Fatal("update was not stored")
	}
	if Snapshot().Quotes[2].Approved {
		t.Fatal("update leaked into the frozen snapshot")
	}
	if NewProvider().GetQuote("quote-demo-003").Approved {
		t.Fatal("update leaked into another provider")
	}
}

func TestUpdateUnknownQuoteDoesNotStore(t *testing.T) {
	p := newTestProvider()
	text := "rewritten"
	got := p.UpdateQuote("missing", api.QuotePatch{Text: &text})
	if got.Text != "rewritten" {
		t.Fatalf("text = %q", got.Text)
	}
	if p.GetQuote("quote-demo-001").Text == "rewritten" {
		t.Fatal("unknown id mutated the primary quote")
	}
}

func TestDeleteAllQuotesKeepsProviderUsable(t *testing.T) {
	p := newTestProvider()
	for _, q := range p.ListQuotes(api.QuoteQuery{}) {
		p.DeleteQuote(q.ID)
	}
	if n := len(p.ListQuotes(api.QuoteQuery{})); n != 0 {
		t.Fatalf("expected no quotes, got %d", n)
	}
	if got := p.GetQuote("quote-demo-001"); got.ID != "quote-demo-001" {
		t.Fatalf("unexpected quote %+v", got)
	}
}

func TestUploadIsImmediatelyComplete(t *testing.T) {
	p := newTestProvider()
	result := p.Upload("interview.mp4")
	if result.Asset.AssetType != api.AssetVideo || result.Asset.ContentType != "video/mp4" {
		t.Fatalf("unexpected asset %+v", result.Asset)
	}
	status := p.UploadStatus(result.Asset.ID)
	if !status.IsTerminal() || status.TranscriptID != TranscriptID {
		t.Fatalf("unexpected status %+v", status)
	}
	if len(p.ListUploads()) != 2 {
		t.Fatal("upload was not recorded")
	}
}

func TestUnknownIDsFallBackToPrimaryRecords(t *testing.T) {
	p := newTestProvider()
	if got := p.GetTranscript("nope"); got.ID != TranscriptID {
		t.Fatalf("transcript = %q", got.ID)
	}
	if got := p.GetExport("nope"); got.ID != ExportID {
		t.Fatalf("export = %q", got.ID)
	}
	if got := p.UploadStatus("asset-x"); got.AssetID != "asset-x" || got.Status != api.ProcessingCompleted {
		t.Fatalf("status = %+v", got)
	}
}

func TestTranscriptEditsRecordHistory(t *testing.T) {
	p := newTestProvider()
	p.UpdateTranscript(TranscriptID, "new text")
	updated := p.AppendSegment(TranscriptID, api.Segment{Start: 60, End: 62, Text: "closing"})

	if updated.Text != "new text" {
		t.Fatalf("text = %q", updated.Text)
	}
	if err := api.ValidateSegments(updated.Segments); err != nil {
		t.Fatalf("segments invalid after append: %v", err)
	}
	versions := p.TranscriptVersions(TranscriptID)
	if len(versions) != 2 || versions[1].Version != 2 {
		t.Fatalf("unexpected versions %+v", versions)
	}
	audit := p.TranscriptAudit(TranscriptID)
	if len(audit) != 3 || audit[2].Action != "segment_added" {
		t.Fatalf("unexpected audit %+v", audit)
	}
}

func TestCreateExportIsCompletedAndDownloadable(t *testing.T) {
	p := newTestProvider()
	title := "Clips"
	job := p.CreateExport(api.ExportRequest{
		QuoteIDs: []string{"quote-demo-001", "quote-demo-003"},
		Format:   api.FormatSRT,
		Title:    &title,
	})
	if job.Status != api.JobCompleted || job.Title != "Clips" {
		t.Fatalf("unexpected job %+v", job)
	}
	out := p.DownloadExport(job.ID)
	want := "1\n00:00:06,400 --> 00:00:14,200\n"
	if !strings.HasPrefix(string(out.Body), want) {
		t.Fatalf("unexpected srt output:\n%s", out.Body)
	}
	if !strings.Contains(string(out.Body), "\n2\n00:00:21,900 --> 00:00:29,500\nSpeed is a habit, not a sprint.\n") {
		t.Fatalf("missing second cue:\n%s", out.Body)
	}
}

func TestRenderFormats(t *testing.T) {
	quotes := Snapshot().Quotes[:2]
	job := api.ExportJob{Title: "Talk", Author: "Dana"}

	job.Format = api.FormatVTT
	vtt := string(Render(job, quotes).Body)
	if !strings.HasPrefix(vtt, "WEBVTT\n\n1\n00:00:06.400 --> 00:00:14.200\n") {
		t.Fatalf("unexpected vtt:\n%s", vtt)
	}

	job.Format = api.FormatJSON
	out := Render(job, quotes)
	if out.ContentType != "application/json" {
		t.Fatalf("content type = %q", out.ContentType)
	}
	var doc map[string]any
	if err := json.Unmarshal(out.Body, &doc); err != nil {
		t.Fatalf("json output: %v", err)
	}
	if doc["title"] != "Talk" || len(doc["quotes"].([]any)) != 2 {
		t.Fatalf("unexpected json doc %v", doc)
	}

	job.Format = api.FormatPlainText
	plain := string(Render(job, quotes).Body)
	if !strings.HasPrefix(plain, "Talk\nby Dana\n\n") {
		t.Fatalf("unexpected plain text:\n%s", plain)
	}

	job.Format = api.FormatInstagram
	insta := string(Render(job, quotes).Body)
	if !strings.Contains(insta, "#product #customers #shipping") {
		t.Fatalf("unexpected hashtags:\n%s", insta)
	}
}

func TestFormatTimestamps(t *testing.T) {
	if got := formatSRTTimestamp(3723.0456); got != "01:02:03,046" {
		t.Fatalf("srt = %q", got)
	}
	if got := formatVTTTimestamp(-2); got != "00:00:00.000" {
		t.Fatalf("vtt = %q", got)
	}
}
