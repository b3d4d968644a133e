package remote

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"quarry/internal/api"
	"quarry/internal/services"
)

// UploadFile is a media file to send to the upload endpoint.
type UploadFile struct {
	Name    string
	Content io.Reader
	OwnerID string
}

// ListUploads returns every uploaded asset.
func (c *Client) ListUploads(ctx context.Context) ([]api.Asset, error) {
	return call[[]api.Asset](ctx, c, request{method: http.MethodGet, path: "/api/uploads"}, api.EnvelopeUploads)
}

// Upload sends a media file as multipart form data.
func (c *Client) Upload(ctx context.Context, file UploadFile) (api.UploadResult, error) {
	name := filepath.Base(strings.TrimSpace(file.Name))
	if name == "" || name == "." || file.Content == nil {
		return api.UploadResult{}, services.Wrap(services.ErrValidation, "remote", "upload", "a named file is required", nil)
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return api.UploadResult{}, services.Wrap(services.ErrValidation, "remote", "upload", "create form file", err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return api.UploadResult{}, services.Wrap(services.ErrValidation, "remote", "upload", "read media", err)
	}
	if owner := strings.TrimSpace(file.OwnerID); owner != "" {
		if err := writer.WriteField("owner_id", owner); err != nil {
			return api.UploadResult{}, services.Wrap(services.ErrValidation, "remote", "upload", "write owner", err)
		}
	}
	if err := writer.Close(); err != nil {
		return api.UploadResult{}, services.Wrap(services.ErrValidation, "remote", "upload", "finish form", err)
	}
	return call[api.UploadResult](ctx, c, request{
		method:      http.MethodPost,
		path:        "/api/uploads",
		body:        &buf,
		contentType: writer.FormDataContentType(),
	}, api.EnvelopeUpload)
}

// GetUpload returns one asset.
func (c *Client) GetUpload(ctx context.Context, id string) (api.Asset, error) {
	return call[api.Asset](ctx, c, request{method: http.MethodGet, path: "/api/uploads/" + url.PathEscape(id)}, "")
}

// UploadStatus returns the current processing status of an asset.
func (c *Client) UploadStatus(ctx context.Context, id string) (api.UploadStatus, error) {
	return call[api.UploadStatus](ctx, c, request{method: http.MethodGet, path: "/api/uploads/" + url.PathEscape(id) + "/status"}, "")
}
