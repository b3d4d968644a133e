// Package transcript is the editing session for one transcript: loading,
// full-text saves, segment appends from selected text, and history.
package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"quarry/internal/api"
	"quarry/internal/logging"
	"quarry/internal/services"
)

// Service is the subset of the gateway the editor needs.
type Service interface {
	GetTranscript(ctx context.Context, id string) (api.Transcript, error)
	UpdateTranscript(ctx context.Context, id, text string) (api.Transcript, error)
	AppendSegment(ctx context.Context, id string, seg api.Segment) (api.Transcript, error)
	TranscriptVersions(ctx context.Context, id string) ([]api.TranscriptVersion, error)
	TranscriptAudit(ctx context.Context, id string) ([]api.AuditEntry, error)
}

// Editor holds one in-memory transcript at a time. Every server response
// replaces the held copy wholesale. Not safe for concurrent use.
type Editor struct {
	service Service
	logger  *slog.Logger
	current *api.Transcript
}

// NewEditor returns an editor with nothing loaded.
func NewEditor(service Service, logger *slog.Logger) *Editor {
	return &Editor{service: service, logger: logging.NewComponentLogger(logger, "transcript")}
}

// Load fetches a transcript and makes it the held copy.
func (e *Editor) Load(ctx context.Context, id string) (api.Transcript, error) {
	if strings.TrimSpace(id) == "" {
		return api.Transcript{}, invalid("load", "transcript id is required")
	}
	t, err := e.service.GetTranscript(ctx, id)
	if err != nil {
		return api.Transcript{}, err
	}
	e.replace(t)
	return t, nil
}

// Current returns the held transcript.
func (e *Editor) Current() (api.Transcript, bool) {
	if e.current == nil {
		return api.Transcript{}, false
	}
	return *e.current, true
}

// Save replaces the full transcript text.
func (e *Editor) Save(ctx context.Context, text string) (api.Transcript, error) {
	cur, err := e.loaded("save")
	if err != nil {
		return api.Transcript{}, err
	}
	t, err := e.service.UpdateTranscript(ctx, cur.ID, text)
	if err != nil {
		return api.Transcript{}, err
	}
	e.replace(t)
	e.logger.Info("transcript saved",
		logging.String("transcript_id", t.ID),
		logging.Int("characters", utf8.RuneCountInString(t.Text)),
	)
	return t, nil
}

// SelectText builds a segment draft from the rune range [start, end) of the
// held transcript text. Times are left for the caller to set.
func (e *Editor) SelectText(start, end int) (api.Segment, error) {
	cur, err := e.loaded("select")
	if err != nil {
		return api.Segment{}, err
	}
	runes := []rune(cur.Text)
	if start < 0 || end > len(runes) || start > end {
		return api.Segment{}, invalid("select", fmt.Sprintf("range %d-%d is outside the transcript (0-%d)", start, end, len(runes)))
	}
	text := strings.TrimSpace(string(runes[start:end]))
	if text == "" {
		return api.Segment{}, invalid("select", "selection is empty")
	}
	return api.Segment{Text: text}, nil
}

// AppendSegment validates draft locally and sends it. Nothing is sent when
// the draft is invalid.
func (e *Editor) AppendSegment(ctx context.Context, draft api.Segment) (api.Transcript, error) {
	cur, err := e.loaded("append")
	if err != nil {
		return api.Transcript{}, err
	}
	draft.Text = strings.TrimSpace(draft.Text)
	draft.Speaker = strings.TrimSpace(draft.Speaker)
	if draft.Text == "" {
		return api.Transcript{}, invalid("append", "segment text is empty")
	}
	if err := api.ValidateSegment(draft); err != nil {
		return api.Transcript{}, invalid("append", err.Error())
	}
	if api.Overlaps(cur.Segments, draft) {
		return api.Transcript{}, invalid("append", fmt.Sprintf("segment %g-%g overlaps an existing segment", draft.Start, draft.End))
	}
	t, err := e.service.AppendSegment(ctx, cur.ID, draft)
	if err != nil {
		return api.Transcript{}, err
	}
	e.replace(t)
	e.logger.Info("segment appended",
		logging.String("transcript_id", t.ID),
		logging.Float64("start", draft.Start),
		logging.Float64("end", draft.End),
	)
	return t, nil
}

// Versions lists saved revisions of the held transcript.
func (e *Editor) Versions(ctx context.Context) ([]api.TranscriptVersion, error) {
	cur, err := e.loaded("versions")
	if err != nil {
		return nil, err
	}
	return e.service.TranscriptVersions(ctx, cur.ID)
}

// Audit lists changes applied to the held transcript.
func (e *Editor) Audit(ctx context.Context) ([]api.AuditEntry, error) {
	cur, err := e.loaded("audit")
	if err != nil {
		return nil, err
	}
	return e.service.TranscriptAudit(ctx, cur.ID)
}

func (e *Editor) loaded(operation string) (api.Transcript, error) {
	if e.current == nil {
		return api.Transcript{}, invalid(operation, "no transcript loaded")
	}
	return *e.current, nil
}

func (e *Editor) replace(t api.Transcript) {
	e.current = &t
}

func invalid(operation, message string) error {
	return services.Wrap(services.ErrValidation, "transcript", operation, message, nil)
}
