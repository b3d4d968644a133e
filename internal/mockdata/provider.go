package mockdata

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"quarry/internal/api"
)

// Provider answers requests from a session-local copy of the dataset.
// It is safe for concurrent use.
type Provider struct {
	mu   sync.Mutex
	data Dataset
	now  func() time.Time
	seq  int
}

// NewProvider seeds a provider from a fresh snapshot.
func NewProvider() *Provider {
	return &Provider{data: Snapshot(), now: time.Now}
}

func (p *Provider) stamp() api.Timestamp {
	return api.NewTimestamp(p.now())
}

func (p *Provider) nextID(prefix string) string {
	p.seq++
	return fmt.Sprintf("%s-mock-%03d", prefix, p.seq)
}

// Health reports liveness of the mock service.
func (p *Provider) Health() map[string]any {
	return map[string]any{"status": "ok", "mode": "mock"}
}

// ServiceStatus summarizes the working copy.
func (p *Provider) ServiceStatus() api.ServiceStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	approved := 0
	for _, q := range p.data.Quotes {
		if q.Approved {
			approved++
		}
	}
	return api.ServiceStatus{
		"status":          "ok",
		"mode":            "mock",
		"assets":          len(p.data.Assets),
		"transcripts":     len(p.data.Transcripts),
		"quotes":          len(p.data.Quotes),
		"approved_quotes": approved,
		"exports":         len(p.data.Exports),
	}
}

// Login accepts any credentials.
func (p *Provider) Login(req api.LoginRequest) api.LoginResponse {
	p.mu.Lock()
	defer p.mu.Unlock()
	user := p.data.User
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = email
	}
	return api.LoginResponse{AccessToken: "mock-token", TokenType: "bearer", User: user}
}

// Me returns the demo user.
func (p *Provider) Me() api.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.User
}

// ListUploads returns all assets.
func (p *Provider) ListUploads() []api.Asset {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.data.Assets)
}

// Upload records a new asset whose processing is already complete and
// points at the primary transcript.
func (p *Provider) Upload(filename string) api.UploadResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.stamp()
	asset := api.Asset{
		ID:          p.nextID("asset"),
		Filename:    filename,
		ContentType: contentTypeFor(filename),
		AssetType:   assetTypeFor(filename),
		CreatedAt:   now,
	}
	status := api.UploadStatus{
		AssetID:      asset.ID,
		Status:       api.ProcessingCompleted,
		TranscriptID: TranscriptID,
		UpdatedAt:    now,
		Message:      "served from mock data",
	}
	p.data.Assets = append(p.data.Assets, asset)
	p.data.Statuses[asset.ID] = status
	return api.UploadResult{Asset: asset, Status: status}
}

// GetUpload returns the asset with id, or the primary asset.
func (p *Provider) GetUpload(id string) api.Asset {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.Assets[p.assetIndex(id)]
}

// UploadStatus returns the status recorded for id, or the primary status
// re-addressed to id.
func (p *Provider) UploadStatus(id string) api.UploadStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	if status, ok := p.data.Statuses[id]; ok {
		return status
	}
	status := p.data.Statuses[AssetID]
	if id != "" {
		status.AssetID = id
	}
	return status
}

// ListTranscripts returns all transcripts.
func (p *Provider) ListTranscripts() []api.Transcript {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]api.Transcript, len(p.data.Transcripts))
	for i, t := range p.data.Transcripts {
		out[i] = cloneTranscript(t)
	}
	return out
}

// CreateTranscript stores a new transcript for an asset.
func (p *Provider) CreateTranscript(in api.NewTranscript) api.Transcript {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.stamp()
	assetID := p.data.Assets[p.assetIndex(in.AssetID)].ID
	transcript := api.Transcript{
		ID:        p.nextID("transcript"),
		AssetID:   assetID,
		Language:  in.Language,
		Text:      in.Text,
		Status:    "completed",
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.data.Transcripts = append(p.data.Transcripts, transcript)
	p.record(transcript.ID, "created", "transcript created")
	return cloneTranscript(transcript)
}

// GetTranscript returns the transcript with id, or the primary transcript.
func (p *Provider) GetTranscript(id string) api.Transcript {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneTranscript(p.data.Transcripts[p.transcriptIndex(id)])
}

// UpdateTranscript replaces the transcript text and records a new version.
func (p *Provider) UpdateTranscript(id, text string) api.Transcript {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := p.transcriptIndex(id)
	t := &p.data.Transcripts[idx]
	t.Text = text
	t.UpdatedAt = p.stamp()

	version := 1
	for _, v := range p.data.Versions {
		if v.TranscriptID == t.ID && v.Version >= version {
			version = v.Version + 1
		}
	}
	p.data.Versions = append(p.data.Versions, api.TranscriptVersion{
		ID:           p.nextID("version"),
		TranscriptID: t.ID,
		Version:      version,
		Text:         text,
		CreatedAt:    t.UpdatedAt,
	})
	p.record(t.ID, "updated", fmt.Sprintf("text replaced (%d characters)", utf8.RuneCountInString(text)))
	return cloneTranscript(*t)
}

// TranscriptVersions returns the saved revisions of a transcript.
func (p *Provider) TranscriptVersions(id string) []api.TranscriptVersion {
	p.mu.Lock()
	defer p.mu.Unlock()
	target := p.data.Transcripts[p.transcriptIndex(id)].ID
	out := make([]api.TranscriptVersion, 0, len(p.data.Versions))
	for _, v := range p.data.Versions {
		if v.TranscriptID == target {
			out = append(out, v)
		}
	}
	return out
}

// TranscriptAudit returns the change log of a transcript.
func (p *Provider) TranscriptAudit(id string) []api.AuditEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	target := p.data.Transcripts[p.transcriptIndex(id)].ID
	out := make([]api.AuditEntry, 0, len(p.data.Audit))
	for _, a := range p.data.Audit {
		if a.TranscriptID == target {
			out = append(out, a)
		}
	}
	return out
}

// AppendSegment inserts seg in start order.
func (p *Provider) AppendSegment(id string, seg api.Segment) api.Transcript {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := &p.data.Transcripts[p.transcriptIndex(id)]
	pos, _ := slices.BinarySearchFunc(t.Segments, seg.Start, func(s api.Segment, start float64) int {
		switch {
		case s.Start < start:
			return -1
		case s.Start > start:
			return 1
		}
		return 0
	})
	t.Segments = slices.Insert(t.Segments, pos, seg)
	t.UpdatedAt = p.stamp()
	p.record(t.ID, "segment_added", fmt.Sprintf("%.2f-%.2f", seg.Start, seg.End))
	return cloneTranscript(*t)
}

// CreateQuote stores a hand-picked quote.
func (p *Provider) CreateQuote(in api.NewQuote) api.Quote {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.stamp()
	q := api.Quote{
		ID:           p.nextID("quote"),
		TranscriptID: p.data.Transcripts[p.transcriptIndex(in.TranscriptID)].ID,
		Text:         in.Text,
		Start:        in.Start,
		End:          in.End,
		Tags:         slices.Clone(in.Tags),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	p.data.Quotes = append(p.data.Quotes, q)
	return q.Clone()
}

// ListQuotes applies the same filters the service applies.
func (p *Provider) ListQuotes(query api.QuoteQuery) []api.Quote {
	p.mu.Lock()
	defer p.mu.Unlock()
	var transcripts map[string]bool
	if query.AssetID != "" {
		assetID := p.data.Assets[p.assetIndex(query.AssetID)].ID
		transcripts = map[string]bool{}
		for _, t := range p.data.Transcripts {
			if t.AssetID == assetID {
				transcripts[t.ID] = true
			}
		}
	}
	out := make([]api.Quote, 0, len(p.data.Quotes))
	for _, q := range p.data.Quotes {
		if transcripts != nil && !transcripts[q.TranscriptID] {
			continue
		}
		switch query.Status {
		case "approved":
			if !q.Approved {
				continue
			}
		case "pending":
			if q.Approved {
				continue
			}
		}
		if query.MinConfidence > 0 && (q.Confidence == nil || *q.Confidence < query.MinConfidence) {
			continue
		}
		out = append(out, q.Clone())
	}
	return out
}

// ExtractQuotes returns the quotes already drawn from the transcript,
// honoring the candidate limit and minimum length.
func (p *Provider) ExtractQuotes(req api.ExtractRequest) []api.Quote {
	p.mu.Lock()
	defer p.mu.Unlock()
	target := p.data.Transcripts[p.transcriptIndex(req.TranscriptID)].ID
	out := make([]api.Quote, 0, len(p.data.Quotes))
	for _, q := range p.data.Quotes {
		if q.TranscriptID != target {
			continue
		}
		if req.MinLength > 0 && utf8.RuneCountInString(q.Text) < req.MinLength {
			continue
		}
		out = append(out, q.Clone())
		if req.MaxCandidates > 0 && len(out) == req.MaxCandidates {
			break
		}
	}
	return out
}

// GetQuote returns the quote with id, or the first quote.
func (p *Provider) GetQuote(id string) api.Quote {
	p.mu.Lock()
	defer p.mu.Unlock()
	if idx := p.quoteIndex(id); idx >= 0 {
		return p.data.Quotes[idx].Clone()
	}
	return p.primaryQuote(id)
}

// UpdateQuote applies patch to the stored quote. Unknown ids receive the
// patch applied to a copy of the first quote and nothing is stored.
func (p *Provider) UpdateQuote(id string, patch api.QuotePatch) api.Quote {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := p.quoteIndex(id)
	if idx < 0 {
		return patch.Apply(p.primaryQuote(id))
	}
	updated := patch.Apply(p.data.Quotes[idx])
	updated.UpdatedAt = p.stamp()
	p.data.Quotes[idx] = updated
	return updated.Clone()
}

// DeleteQuote removes the quote with id if present.
func (p *Provider) DeleteQuote(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if idx := p.quoteIndex(id); idx >= 0 {
		p.data.Quotes = slices.Delete(p.data.Quotes, idx, idx+1)
	}
}

// ListExports returns all export jobs.
func (p *Provider) ListExports() []api.ExportJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]api.ExportJob, len(p.data.Exports))
	for i, job := range p.data.Exports {
		out[i] = cloneJob(job)
	}
	return out
}

// CreateExport records a job that is already completed.
func (p *Provider) CreateExport(req api.ExportRequest) api.ExportJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.stamp()
	job := api.ExportJob{
		ID:        p.nextID("export"),
		QuoteIDs:  slices.Clone(req.QuoteIDs),
		Format:    req.Format,
		Status:    api.JobCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if job.QuoteIDs == nil {
		job.QuoteIDs = []string{}
	}
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Author != nil {
		job.Author = *req.Author
	}
	p.data.Exports = append(p.data.Exports, job)
	return cloneJob(job)
}

// GetExport returns the job with id, or the primary job.
func (p *Provider) GetExport(id string) api.ExportJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneJob(p.data.Exports[p.exportIndex(id)])
}

// DownloadExport renders the job output locally.
func (p *Provider) DownloadExport(id string) api.ExportOutput {
	p.mu.Lock()
	defer p.mu.Unlock()
	job := p.data.Exports[p.exportIndex(id)]
	quotes := make([]api.Quote, 0, len(job.QuoteIDs))
	for _, qid := range job.QuoteIDs {
		if idx := p.quoteIndex(qid); idx >= 0 {
			quotes = append(quotes, p.data.Quotes[idx])
		}
	}
	return Render(job, quotes)
}

// primaryQuote returns a copy of the first quote, or an empty quote carrying
// id once every quote has been deleted.
func (p *Provider) primaryQuote(id string) api.Quote {
	if len(p.data.Quotes) == 0 {
		return api.Quote{ID: id, TranscriptID: TranscriptID, Tags: []string{}}
	}
	return p.data.Quotes[0].Clone()
}

func (p *Provider) record(transcriptID, action, detail string) {
	p.data.Audit = append(p.data.Audit, api.AuditEntry{
		ID:           p.nextID("audit"),
		TranscriptID: transcriptID,
		Action:       action,
		Actor:        p.data.User.Email,
		Detail:       detail,
		CreatedAt:    p.stamp(),
	})
}

func (p *Provider) assetIndex(id string) int {
	return indexOr(p.data.Assets, func(a api.Asset) bool { return a.ID == id })
}

func (p *Provider) transcriptIndex(id string) int {
	return indexOr(p.data.Transcripts, func(t api.Transcript) bool { return t.ID == id })
}

func (p *Provider) exportIndex(id string) int {
	return indexOr(p.data.Exports, func(j api.ExportJob) bool { return j.ID == id })
}

func (p *Provider) quoteIndex(id string) int {
	return slices.IndexFunc(p.data.Quotes, func(q api.Quote) bool { return q.ID == id })
}

// indexOr returns the matching index, or 0 for the primary record.
func indexOr[T any](items []T, match func(T) bool) int {
	if idx := slices.IndexFunc(items, match); idx >= 0 {
		return idx
	}
	return 0
}

func cloneTranscript(t api.Transcript) api.Transcript {
	t.Segments = slices.Clone(t.Segments)
	return t
}

func cloneJob(job api.ExportJob) api.ExportJob {
	job.QuoteIDs = slices.Clone(job.QuoteIDs)
	return job
}

func assetTypeFor(filename string) api.AssetType {
	switch strings.ToLower(extensionOf(filename)) {
	case "mp4", "mov", "mkv", "webm", "avi":
		return api.AssetVideo
	}
	return api.AssetAudio
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(extensionOf(filename)) {
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "m4a":
		return "audio/mp4"
	case "mp4":
		return "video/mp4"
	case "mov":
		return "video/quicktime"
	case "webm":
		return "video/webm"
	case "mkv":
		return "video/x-matroska"
	}
	return "application/octet-stream"
}

func extensionOf(filename string) string {
	if idx := strings.LastIndexByte(filename, '.'); idx >= 0 {
		return filename[idx+1:]
	}
	return ""
}
