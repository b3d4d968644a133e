// Package gateway is the single entry point the client uses to reach the
// curation service. Every call goes through the session's resilient
// executor, with the session-local mock provider as fallback.
package gateway

import (
	"context"
	"path/filepath"

	"quarry/internal/api"
	"quarry/internal/mockdata"
	"quarry/internal/remote"
	"quarry/internal/resilience"
)

// Gateway pairs a live client with its mock fallback. Each endpoint method
// calls the matching remote.Client method and answers from the
// mockdata.Provider once the session has degraded.
type Gateway struct {
	client  *remote.Client
	mock    *mockdata.Provider
	session *resilience.Session
}

// New builds a Gateway. A nil provider gets a fresh mock dataset; a nil
// session starts live.
func New(client *remote.Client, mock *mockdata.Provider, session *resilience.Session) *Gateway {
	if mock == nil {
		mock = mockdata.NewProvider()
	}
	if session == nil {
		session = resilience.NewSession()
	}
	return &Gateway{client: client, mock: mock, session: session}
}

// MockMode reports whether the session is serving mock data.
func (g *Gateway) MockMode() bool {
	return g.session.MockMode()
}

// Mode reports the session data source.
func (g *Gateway) Mode() resilience.Mode {
	return g.session.Mode()
}

// Client exposes the live client for token management.
func (g *Gateway) Client() *remote.Client {
	return g.client
}

// Health probes service liveness.
func (g *Gateway) Health(ctx context.Context) (map[string]any, error) {
	return resilience.Execute(ctx, g.session, "health", g.client.Health, g.mock.Health)
}

// ServiceStatus returns the service status document.
func (g *Gateway) ServiceStatus(ctx context.Context) (api.ServiceStatus, error) {
	return resilience.Execute(ctx, g.session, "status", g.client.ServiceStatus, g.mock.ServiceStatus)
}

// Login exchanges credentials for a bearer token. In mock mode any
// credentials are accepted.
func (g *Gateway) Login(ctx context.Context, creds api.LoginRequest) (api.LoginResponse, error) {
	return resilience.Execute(ctx, g.session, "auth.login",
		func(ctx context.Context) (api.LoginResponse, error) { return g.client.Login(ctx, creds) },
		func() api.LoginResponse { return g.mock.Login(creds) })
}

// Me returns the signed-in user.
func (g *Gateway) Me(ctx context.Context) (api.User, error) {
	return resilience.Execute(ctx, g.session, "auth.me", g.client.Me, g.mock.Me)
}

// ListUploads returns every uploaded asset.
func (g *Gateway) ListUploads(ctx context.Context) ([]api.Asset, error) {
	return resilience.Execute(ctx, g.session, "uploads.list", g.client.ListUploads, g.mock.ListUploads)
}

// Upload sends a media file. The mock fallback records only its base name.
func (g *Gateway) Upload(ctx context.Context, file remote.UploadFile) (api.UploadResult, error) {
	return resilience.Execute(ctx, g.session, "uploads.create",
		func(ctx context.Context) (api.UploadResult, error) { return g.client.Upload(ctx, file) },
		func() api.UploadResult { return g.mock.Upload(filepath.Base(file.Name)) })
}

// GetUpload returns one asset.
func (g *Gateway) GetUpload(ctx context.Context, id string) (api.Asset, error) {
	return resilience.Execute(ctx, g.session, "uploads.get",
		func(ctx context.Context) (api.Asset, error) { return g.client.GetUpload(ctx, id) },
		func() api.Asset { return g.mock.GetUpload(id) })
}

// UploadStatus reports processing progress for an asset.
func (g *Gateway) UploadStatus(ctx context.Context, id string) (api.UploadStatus, error) {
	return resilience.Execute(ctx, g.session, "uploads.status",
		func(ctx context.Context) (api.UploadStatus, error) { return g.client.UploadStatus(ctx, id) },
		func() api.UploadStatus { return g.mock.UploadStatus(id) })
}

// ListTranscripts returns every transcript.
func (g *Gateway) ListTranscripts(ctx context.Context) ([]api.Transcript, error) {
	return resilience.Execute(ctx, g.session, "transcripts.list", g.client.ListTranscripts, g.mock.ListTranscripts)
}

// CreateTranscript creates a transcript for an asset.
func (g *Gateway) CreateTranscript(ctx context.Context, in api.NewTranscript) (api.Transcript, error) {
	return resilience.Execute(ctx, g.session, "transcripts.create",
		func(ctx context.Context) (api.Transcript, error) { return g.client.CreateTranscript(ctx, in) },
		func() api.Transcript { return g.mock.CreateTranscript(in) })
}

// GetTranscript returns one transcript with its segments.
func (g *Gateway) GetTranscript(ctx context.Context, id string) (api.Transcript, error) {
	return resilience.Execute(ctx, g.session, "transcripts.get",
		func(ctx context.Context) (api.Transcript, error) { return g.client.GetTranscript(ctx, id) },
		func() api.Transcript { return g.mock.GetTranscript(id) })
}

// UpdateTranscript replaces a transcript's full text.
func (g *Gateway) UpdateTranscript(ctx context.Context, id, text string) (api.Transcript, error) {
	return resilience.Execute(ctx, g.session, "transcripts.update",
		func(ctx context.Context) (api.Transcript, error) { return g.client.UpdateTranscript(ctx, id, text) },
		func() api.Transcript { return g.mock.UpdateTranscript(id, text) })
}

// TranscriptVersions lists saved revisions of a transcript.
func (g *Gateway) TranscriptVersions(ctx context.Context, id string) ([]api.TranscriptVersion, error) {
	return resilience.Execute(ctx, g.session, "transcripts.versions",
		func(ctx context.Context) ([]api.TranscriptVersion, error) { return g.client.TranscriptVersions(ctx, id) },
		func() []api.TranscriptVersion { return g.mock.TranscriptVersions(id) })
}

// TranscriptAudit lists the changes applied to a transcript.
func (g *Gateway) TranscriptAudit(ctx context.Context, id string) ([]api.AuditEntry, error) {
	return resilience.Execute(ctx, g.session, "transcripts.audit",
		func(ctx context.Context) ([]api.AuditEntry, error) { return g.client.TranscriptAudit(ctx, id) },
		func() []api.AuditEntry { return g.mock.TranscriptAudit(id) })
}

// AppendSegment adds a timed segment and returns the updated transcript.
func (g *Gateway) AppendSegment(ctx context.Context, id string, seg api.Segment) (api.Transcript, error) {
	return resilience.Execute(ctx, g.session, "transcripts.segments.append",
		func(ctx context.Context) (api.Transcript, error) { return g.client.AppendSegment(ctx, id, seg) },
		func() api.Transcript { return g.mock.AppendSegment(id, seg) })
}

// CreateQuote adds a quote by hand.
func (g *Gateway) CreateQuote(ctx context.Context, in api.NewQuote) (api.Quote, error) {
	return resilience.Execute(ctx, g.session, "quotes.create",
		func(ctx context.Context) (api.Quote, error) { return g.client.CreateQuote(ctx, in) },
		func() api.Quote { return g.mock.CreateQuote(in) })
}

// ListQuotes returns the quotes matching the server-side query.
func (g *Gateway) ListQuotes(ctx context.Context, query api.QuoteQuery) ([]api.Quote, error) {
	return resilience.Execute(ctx, g.session, "quotes.list",
		func(ctx context.Context) ([]api.Quote, error) { return g.client.ListQuotes(ctx, query) },
		func() []api.Quote { return g.mock.ListQuotes(query) })
}

// ExtractQuotes asks the service for quote candidates from a transcript.
func (g *Gateway) ExtractQuotes(ctx context.Context, req api.ExtractRequest) ([]api.Quote, error) {
	return resilience.Execute(ctx, g.session, "quotes.extract",
		func(ctx context.Context) ([]api.Quote, error) { return g.client.ExtractQuotes(ctx, req) },
		func() []api.Quote { return g.mock.ExtractQuotes(req) })
}

// GetQuote returns one quote.
func (g *Gateway) GetQuote(ctx context.Context, id string) (api.Quote, error) {
	return resilience.Execute(ctx, g.session, "quotes.get",
		func(ctx context.Context) (api.Quote, error) { return g.client.GetQuote(ctx, id) },
		func() api.Quote { return g.mock.GetQuote(id) })
}

// UpdateQuote applies a partial update and returns the stored quote.
func (g *Gateway) UpdateQuote(ctx context.Context, id string, patch api.QuotePatch) (api.Quote, error) {
	return resilience.Execute(ctx, g.session, "quotes.update",
		func(ctx context.Context) (api.Quote, error) { return g.client.UpdateQuote(ctx, id, patch) },
		func() api.Quote { return g.mock.UpdateQuote(id, patch) })
}

// DeleteQuote removes a quote.
func (g *Gateway) DeleteQuote(ctx context.Context, id string) error {
	_, err := resilience.Execute(ctx, g.session, "quotes.delete",
		func(ctx context.Context) (struct{}, error) { return struct{}{}, g.client.DeleteQuote(ctx, id) },
		func() struct{} {
			g.mock.DeleteQuote(id)
			return struct{}{}
		})
	return err
}

// ListExports returns every export job.
func (g *Gateway) ListExports(ctx context.Context) ([]api.ExportJob, error) {
	return resilience.Execute(ctx, g.session, "exports.list", g.client.ListExports, g.mock.ListExports)
}

// CreateExport submits an export job.
func (g *Gateway) CreateExport(ctx context.Context, req api.ExportRequest) (api.ExportJob, error) {
	return resilience.Execute(ctx, g.session, "exports.create",
		func(ctx context.Context) (api.ExportJob, error) { return g.client.CreateExport(ctx, req) },
		func() api.ExportJob { return g.mock.CreateExport(req) })
}

// GetExport re-fetches an export job.
func (g *Gateway) GetExport(ctx context.Context, id string) (api.ExportJob, error) {
	return resilience.Execute(ctx, g.session, "exports.get",
		func(ctx context.Context) (api.ExportJob, error) { return g.client.GetExport(ctx, id) },
		func() api.ExportJob { return g.mock.GetExport(id) })
}

// DownloadExport returns the rendered output of a job together with its
// declared content type.
func (g *Gateway) DownloadExport(ctx context.Context, id string) (api.ExportOutput, error) {
	return resilience.Execute(ctx, g.session, "exports.download",
		func(ctx context.Context) (api.ExportOutput, error) { return g.client.DownloadExport(ctx, id) },
		func() api.ExportOutput { return g.mock.DownloadExport(id) })
}
