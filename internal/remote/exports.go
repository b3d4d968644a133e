package remote

import (
	"context"
	"net/http"
	"net/url"

	"quarry/internal/api"
)

func exportPath(id string) string {
	return "/api/exports/" + url.PathEscape(id)
}

// ListExports returns every export job.
func (c *Client) ListExports(ctx context.Context) ([]api.ExportJob, error) {
	return call[[]api.ExportJob](ctx, c, request{method: http.MethodGet, path: "/api/exports"}, api.EnvelopeExports)
}

// CreateExport submits an export job. The service answers 201 with the job,
// bare or wrapped in an export envelope.
func (c *Client) CreateExport(ctx context.Context, in api.ExportRequest) (api.ExportJob, error) {
	req, err := c.jsonRequest(http.MethodPost, "/api/exports", in)
	if err != nil {
		return api.ExportJob{}, err
	}
	return call[api.ExportJob](ctx, c, req, api.EnvelopeExport)
}

// GetExport re-fetches an export job.
func (c *Client) GetExport(ctx context.Context, id string) (api.ExportJob, error) {
	return call[api.ExportJob](ctx, c, request{method: http.MethodGet, path: exportPath(id)}, api.EnvelopeExport)
}

// DownloadExport returns the rendered output of a job as raw bytes.
func (c *Client) DownloadExport(ctx context.Context, id string) (api.ExportOutput, error) {
	query := url.Values{}
	query.Set("download", "1")
	resp, err := c.do(ctx, request{method: http.MethodGet, path: exportPath(id), query: query})
	if err != nil {
		return api.ExportOutput{}, err
	}
	return api.ExportOutput{Body: resp.body, ContentType: resp.contentType}, nil
}
