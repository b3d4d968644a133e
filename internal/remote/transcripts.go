package remote

import (
	"context"
	"net/http"
	"net/url"

	"quarry/internal/api"
)

func transcriptPath(id string, suffix string) string {
	return "/api/transcripts/" + url.PathEscape(id) + suffix
}

// ListTranscripts returns every transcript.
func (c *Client) ListTranscripts(ctx context.Context) ([]api.Transcript, error) {
	return call[[]api.Transcript](ctx, c, request{method: http.MethodGet, path: "/api/transcripts"}, api.EnvelopeTranscripts)
}

// CreateTranscript stores a transcript supplied by the caller.
func (c *Client) CreateTranscript(ctx context.Context, in api.NewTranscript) (api.Transcript, error) {
	req, err := c.jsonRequest(http.MethodPost, "/api/transcripts", in)
	if err != nil {
		return api.Transcript{}, err
	}
	return call[api.Transcript](ctx, c, req, "")
}

// GetTranscript returns one transcript with its segments.
func (c *Client) GetTranscript(ctx context.Context, id string) (api.Transcript, error) {
	return call[api.Transcript](ctx, c, request{method: http.MethodGet, path: transcriptPath(id, "")}, "")
}

// UpdateTranscript replaces the full transcript text.
func (c *Client) UpdateTranscript(ctx context.Context, id, text string) (api.Transcript, error) {
	req, err := c.jsonRequest(http.MethodPut, transcriptPath(id, ""), map[string]string{"text": text})
	if err != nil {
		return api.Transcript{}, err
	}
	return call[api.Transcript](ctx, c, req, "")
}

// TranscriptVersions returns the saved revisions of a transcript.
func (c *Client) TranscriptVersions(ctx context.Context, id string) ([]api.TranscriptVersion, error) {
	return call[[]api.TranscriptVersion](ctx, c, request{method: http.MethodGet, path: transcriptPath(id, "/versions")}, api.EnvelopeVersions)
}

// TranscriptAudit returns the change log of a transcript.
func (c *Client) TranscriptAudit(ctx context.Context, id string) ([]api.AuditEntry, error) {
	return call[[]api.AuditEntry](ctx, c, request{method: http.MethodGet, path: transcriptPath(id, "/audit")}, api.EnvelopeAudit)
}

// AppendSegment adds a segment and returns the updated transcript.
func (c *Client) AppendSegment(ctx context.Context, id string, seg api.Segment) (api.Transcript, error) {
	req, err := c.jsonRequest(http.MethodPost, transcriptPath(id, "/segments"), seg)
	if err != nil {
		return api.Transcript{}, err
	}
	return call[api.Transcript](ctx, c, req, "")
}
