package api

import "slices"

// AssetType classifies uploaded media.
type AssetType string

const (
	AssetAudio AssetType = "audio"
	AssetVideo AssetType = "video"
)

// Asset is an uploaded media file record.
type Asset struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	AssetType   AssetType `json:"asset_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   Timestamp `json:"created_at"`
}

// ProcessingStatus is the server-side processing state of an upload.
type ProcessingStatus string

const (
	ProcessingPending    ProcessingStatus = "pending"
	ProcessingQueued     ProcessingStatus = "queued"
	ProcessingProcessing ProcessingStatus = "processing"
	ProcessingCompleted  ProcessingStatus = "completed"
	ProcessingFailed     ProcessingStatus = "failed"
	ProcessingCanceled   ProcessingStatus = "canceled"
)

// IsTerminal reports whether polling should stop at this status.
func (s ProcessingStatus) IsTerminal() bool {
	switch s {
	case ProcessingCompleted, ProcessingFailed, ProcessingCanceled:
		return true
	}
	return false
}

// UploadStatus is one poll result for an asset.
type UploadStatus struct {
	AssetID      string           `json:"asset_id"`
	Status       ProcessingStatus `json:"status"`
	TranscriptID string           `json:"transcript_id,omitempty"`
	UpdatedAt    Timestamp        `json:"updated_at"`
	Message      string           `json:"message,omitempty"`
}

// IsTerminal reports whether the status ends polling.
func (s UploadStatus) IsTerminal() bool {
	return s.Status.IsTerminal()
}

// UploadResult is returned by the upload endpoint.
type UploadResult struct {
	Asset  Asset        `json:"asset"`
	Status UploadStatus `json:"status"`
}

// Segment is a time-bounded excerpt of a transcript.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Transcript is the textual representation of an asset. Text is
// authoritative; segments annotate parts of it.
type Transcript struct {
	ID        string    `json:"id"`
	AssetID   string    `json:"asset_id"`
	Language  string    `json:"language,omitempty"`
	Text      string    `json:"text"`
	Segments  []Segment `json:"segments,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// TranscriptVersion is a saved revision of a transcript's text.
type TranscriptVersion struct {
	ID           string    `json:"id"`
	TranscriptID string    `json:"transcript_id"`
	Version      int       `json:"version"`
	Text         string    `json:"text"`
	CreatedAt    Timestamp `json:"created_at"`
}

// AuditEntry records one change applied to a transcript.
type AuditEntry struct {
	ID           string    `json:"id"`
	TranscriptID string    `json:"transcript_id"`
	Action       string    `json:"action"`
	Actor        string    `json:"actor,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	CreatedAt    Timestamp `json:"created_at"`
}

// Quote is a candidate excerpt proposed for curation and export.
type Quote struct {
	ID           string    `json:"id"`
	TranscriptID string    `json:"transcript_id"`
	Text         string    `json:"text"`
	Start        float64   `json:"start"`
	End          float64   `json:"end"`
	Confidence   *float64  `json:"confidence"`
	Approved     bool      `json:"approved"`
	Tags         []string  `json:"tags"`
	CreatedAt    Timestamp `json:"created_at"`
	UpdatedAt    Timestamp `json:"updated_at"`
}

// Clone returns a copy that shares no slices or pointers with q.
func (q Quote) Clone() Quote {
	out := q
	out.Tags = slices.Clone(q.Tags)
	if q.Confidence != nil {
		c := *q.Confidence
		out.Confidence = &c
	}
	return out
}

// QuotePatch is a partial quote update. Nil fields are left untouched.
type QuotePatch struct {
	Approved *bool    `json:"approved,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Text     *string  `json:"text,omitempty"`
}

// Apply returns q with the patch fields applied.
func (p QuotePatch) Apply(q Quote) Quote {
	out := q.Clone()
	if p.Approved != nil {
		out.Approved = *p.Approved
	}
	if p.Tags != nil {
		out.Tags = slices.Clone(p.Tags)
	}
	if p.Text != nil {
		out.Text = *p.Text
	}
	return out
}

// NewQuote is the payload for creating a quote by hand.
type NewQuote struct {
	TranscriptID string   `json:"transcript_id"`
	Text         string   `json:"text"`
	Start        float64  `json:"start"`
	End          float64  `json:"end"`
	Tags         []string `json:"tags,omitempty"`
}

// QuoteQuery filters a quote listing. Empty fields are not sent.
type QuoteQuery struct {
	AssetID       string
	Status        string
	MinConfidence float64
}

// ExtractRequest asks the service to propose quotes from a transcript or
// from raw text.
type ExtractRequest struct {
	TranscriptID  string `json:"transcript_id,omitempty"`
	Text          string `json:"text,omitempty"`
	MaxCandidates int    `json:"max_candidates,omitempty"`
	MinLength     int    `json:"min_length,omitempty"`
}

// ExportFormat is the target rendering of an export job.
type ExportFormat string

const (
	FormatPlainText ExportFormat = "plain_text"
	FormatJSON      ExportFormat = "json"
	FormatTwitter   ExportFormat = "twitter"
	FormatLinkedIn  ExportFormat = "linkedin"
	FormatInstagram ExportFormat = "instagram"
	FormatSRT       ExportFormat = "srt"
	FormatVTT       ExportFormat = "vtt"
)

// ExportFormats lists every supported format in display order.
var ExportFormats = []ExportFormat{
	FormatPlainText, FormatJSON, FormatTwitter, FormatLinkedIn, FormatInstagram, FormatSRT, FormatVTT,
}

// Valid reports whether f is a known format.
func (f ExportFormat) Valid() bool {
	return slices.Contains(ExportFormats, f)
}

// UsesByline reports whether title and author affect the rendered output.
func (f ExportFormat) UsesByline() bool {
	switch f {
	case FormatPlainText, FormatTwitter, FormatLinkedIn, FormatInstagram:
		return true
	}
	return false
}

// JobStatus is the lifecycle state of an export job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobCanceled   JobStatus = "canceled"
)

// IsTerminal reports whether the job will not change again.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobCanceled:
		return true
	}
	return false
}

// ExportJob is an asynchronous request to render quotes into a format.
type ExportJob struct {
	ID           string       `json:"id"`
	QuoteIDs     []string     `json:"quote_ids"`
	Format       ExportFormat `json:"format"`
	Title        string       `json:"title,omitempty"`
	Author       string       `json:"author,omitempty"`
	Status       JobStatus    `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	CreatedAt    Timestamp    `json:"created_at"`
	UpdatedAt    Timestamp    `json:"updated_at"`
}

// ExportRequest is the submission payload. Title and Author are sent as null
// when absent.
type ExportRequest struct {
	QuoteIDs []string     `json:"quote_ids"`
	Format   ExportFormat `json:"format"`
	Title    *string      `json:"title"`
	Author   *string      `json:"author"`
}

// ExportOutput is the raw rendered output of a job.
type ExportOutput struct {
	Body        []byte
	ContentType string
}

// User is the authenticated account.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// LoginRequest carries credentials for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// ServiceStatus is the summary returned by the status endpoint. The server
// shape is loosely specified, so values are kept as decoded JSON.
type ServiceStatus map[string]any

// NewTranscript is the payload for creating a transcript directly.
type NewTranscript struct {
	AssetID  string `json:"asset_id"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}
