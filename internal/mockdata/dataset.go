package mockdata

import (
	"strings"
	"time"

	"quarry/internal/api"
)

// Identifiers of the primary records.
const (
	AssetID      = "asset-demo-001"
	TranscriptID = "transcript-demo-001"
	ExportID     = "export-demo-001"
	UserID       = "user-demo-001"
)

// Dataset is a complete set of records served in mock mode.
type Dataset struct {
	User        api.User
	Assets      []api.Asset
	Statuses    map[string]api.UploadStatus
	Transcripts []api.Transcript
	Versions    []api.TranscriptVersion
	Audit       []api.AuditEntry
	Quotes      []api.Quote
	Exports     []api.ExportJob
}

var seedTime = time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)

func at(offset time.Duration) api.Timestamp {
	return api.NewTimestamp(seedTime.Add(offset))
}

func confidence(v float64) *float64 {
	return &v
}

var seedSegments = []api.Segment{
	{Start: 0, End: 6.4, Text: "Thanks everyone for coming out this morning.", Speaker: "Host"},
	{Start: 6.4, End: 14.2, Text: "The best products start as a conversation with one frustrated customer.", Speaker: "Dana Reyes"},
	{Start: 14.2, End: 21.9, Text: "We shipped the first version in six weeks because we refused to build anything twice.", Speaker: "Dana Reyes"},
	{Start: 21.9, End: 29.5, Text: "Speed is a habit, not a sprint.", Speaker: "Dana Reyes"},
	{Start: 29.5, End: 38.8, Text: "Hiring slowly was the single decision that saved the company in year two.", Speaker: "Dana Reyes"},
	{Start: 38.8, End: 46.1, Text: "If your roadmap never surprises you, you are not listening to users.", Speaker: "Dana Reyes"},
	{Start: 46.1, End: 53.0, Text: "Culture is what people do when the founders leave the room.", Speaker: "Dana Reyes"},
}

// Snapshot returns a new copy of the frozen dataset. Callers may mutate the
// result freely.
func Snapshot() Dataset {
	segments := make([]api.Segment, len(seedSegments))
	copy(segments, seedSegments)
	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}
	fullText := strings.Join(texts, " ")

	return Dataset{
		User: api.User{ID: UserID, Email: "demo@quarry.local", Name: "Demo Curator"},
		Assets: []api.Asset{{
			ID:          AssetID,
			Filename:    "founders-keynote.mp3",
			ContentType: "audio/mpeg",
			AssetType:   api.AssetAudio,
			SizeBytes:   18_432_000,
			CreatedAt:   at(0),
		}},
		Statuses: map[string]api.UploadStatus{
			AssetID: {
				AssetID:      AssetID,
				Status:       api.ProcessingCompleted,
				TranscriptID: TranscriptID,
				UpdatedAt:    at(4 * time.Minute),
				Message:      "transcription complete",
			},
		},
		Transcripts: []api.Transcript{{
			ID:        TranscriptID,
			AssetID:   AssetID,
			Language:  "en",
			Text:      fullText,
			Segments:  segments,
			Status:    "completed",
			CreatedAt: at(4 * time.Minute),
			UpdatedAt: at(4 * time.Minute),
		}},
		Versions: []api.TranscriptVersion{{
			ID:           "version-demo-001",
			TranscriptID: TranscriptID,
			Version:      1,
			Text:         fullText,
			CreatedAt:    at(4 * time.Minute),
		}},
		Audit: []api.AuditEntry{{
			ID:           "audit-demo-001",
			TranscriptID: TranscriptID,
			Action:       "created",
			Actor:        "transcriber",
			Detail:       "initial transcription",
			CreatedAt:    at(4 * time.Minute),
		}},
		Quotes: []api.Quote{
			{ID: "quote-demo-001", TranscriptID: TranscriptID, Text: segments[1].Text, Start: segments[1].Start, End: segments[1].End,
				Confidence: confidence(0.94), Approved: true, Tags: []string{"product", "customers"}, CreatedAt: at(6 * time.Minute), UpdatedAt: at(6 * time.Minute)},
			{ID: "quote-demo-002", TranscriptID: TranscriptID, Text: segments[2].Text, Start: segments[2].Start, End: segments[2].End,
				Confidence: confidence(0.81), Approved: true, Tags: []string{"shipping", "product"}, CreatedAt: at(6 * time.Minute), UpdatedAt: at(6 * time.Minute)},
			{ID: "quote-demo-003", TranscriptID: TranscriptID, Text: segments[3].Text, Start: segments[3].Start, End: segments[3].End,
				Confidence: confidence(0.88), Approved: false, Tags: []string{"speed", "culture"}, CreatedAt: at(6 * time.Minute), UpdatedAt: at(6 * time.Minute)},
			{ID: "quote-demo-004", TranscriptID: TranscriptID, Text: segments[4].Text, Start: segments[4].Start, End: segments[4].End,
				Confidence: confidence(0.67), Approved: true, Tags: []string{"hiring", "growth"}, CreatedAt: at(6 * time.Minute), UpdatedAt: at(6 * time.Minute)},
			{ID: "quote-demo-005", TranscriptID: TranscriptID, Text: segments[5].Text, Start: segments[5].Start, End: segments[5].End,
				Confidence: confidence(0.52), Approved: false, Tags: []string{"roadmap", "customers"}, CreatedAt: at(6 * time.Minute), UpdatedAt: at(6 * time.Minute)},
			{ID: "quote-demo-006", TranscriptID: TranscriptID, Text: segments[6].Text, Start: segments[6].Start, End: segments[6].End,
				Confidence: nil, Approved: false, Tags: []string{"culture"}, CreatedAt: at(7 * time.Minute), UpdatedAt: at(7 * time.Minute)},
		},
		Exports: []api.ExportJob{{
			ID:        ExportID,
			QuoteIDs:  []string{"quote-demo-001", "quote-demo-002", "quote-demo-004"},
			Format:    api.FormatPlainText,
			Title:     "Keynote highlights",
			Author:    "Dana Reyes",
			Status:    api.JobCompleted,
			CreatedAt: at(10 * time.Minute),
			UpdatedAt: at(11 * time.Minute),
		}},
	}
}
