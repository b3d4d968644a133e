package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"quarry/internal/api"
	"quarry/internal/fileutil"
	"quarry/internal/logging"
	"quarry/internal/services"
)

// Service is the subset of the gateway the workflow needs.
type Service interface {
	CreateExport(ctx context.Context, req api.ExportRequest) (api.ExportJob, error)
	GetExport(ctx context.Context, id string) (api.ExportJob, error)
	DownloadExport(ctx context.Context, id string) (api.ExportOutput, error)
}

// PreviewKind tells how preview content should be displayed.
type PreviewKind string

const (
	KindText PreviewKind = "text"
	KindJSON PreviewKind = "json"
)

// Preview is the rendered output of a completed job.
type Preview struct {
	Kind    PreviewKind
	Content string
}

// Download describes a materialized export file.
type Download struct {
	Path      string
	MediaType string
	Size      int
}

// Workflow submits export jobs and fetches their output.
type Workflow struct {
	service Service
	logger  *slog.Logger
}

// NewWorkflow creates a Workflow.
func NewWorkflow(service Service, logger *slog.Logger) *Workflow {
	return &Workflow{service: service, logger: logging.NewComponentLogger(logger, "export")}
}

// Submit sends the form as a new export job.
func (w *Workflow) Submit(ctx context.Context, form Form) (api.ExportJob, error) {
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return api.ExportJob{}, err
	}
	req := BuildRequest(form)
	job, err := w.service.CreateExport(ctx, req)
	if err != nil {
		return api.ExportJob{}, err
	}
	w.logger.Info("export submitted",
		logging.String("export_id", job.ID),
		logging.String("format", string(job.Format)),
		logging.Int("quotes", len(req.QuoteIDs)),
	)
	return job, nil
}

// Refresh re-fetches the current state of a job.
func (w *Workflow) Refresh(ctx context.Context, jobID string) (api.ExportJob, error) {
	if strings.TrimSpace(jobID) == "" {
		return api.ExportJob{}, services.Wrap(services.ErrValidation, "export", "refresh", "job id is required", nil)
	}
	return w.service.GetExport(ctx, jobID)
}

// Await refreshes the job every interval until it reaches a terminal status.
func (w *Workflow) Await(ctx context.Context, job api.ExportJob, interval time.Duration) (api.ExportJob, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for !job.Status.IsTerminal() {
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
		next, err := w.Refresh(ctx, job.ID)
		if err != nil {
			return job, err
		}
		job = next
	}
	return job, nil
}

// Preview fetches and renders the output of a completed job. No request is
// made for jobs that have not completed.
func (w *Workflow) Preview(ctx context.Context, job api.ExportJob) (Preview, error) {
	out, err := w.fetch(ctx, job, "preview")
	if err != nil {
		return Preview{}, err
	}
	return RenderPreview(out), nil
}

// Download writes the output of a completed job into dir as
// export-<id>.<ext>. The write is atomic and holds a file lock.
func (w *Workflow) Download(ctx context.Context, job api.ExportJob, dir string) (Download, error) {
	out, err := w.fetch(ctx, job, "download")
	if err != nil {
		return Download{}, err
	}
	preview := RenderPreview(out)
	mediaType := preview.MediaType()
	target := filepath.Join(dir, FileName(job.ID, job.Format))
	content := []byte(preview.Content)
	if err := fileutil.WriteFileLocked(ctx, target, content, 0o644); err != nil {
		return Download{}, fmt.Errorf("write export %s: %w", target, err)
	}
	w.logger.Info("export downloaded",
		logging.String("export_id", job.ID),
		logging.String("path", target),
		logging.String("media_type", mediaType),
		logging.String("content_type", out.ContentType),
	)
	return Download{Path: target, MediaType: mediaType, Size: len(content)}, nil
}

func (w *Workflow) fetch(ctx context.Context, job api.ExportJob, operation string) (api.ExportOutput, error) {
	if job.Status != api.JobCompleted {
		return api.ExportOutput{}, services.Wrap(services.ErrNotReady, "export", operation,
			fmt.Sprintf("job %s is %s", job.ID, job.Status), nil)
	}
	out, err := w.service.DownloadExport(ctx, job.ID)
	if err != nil {
		return api.ExportOutput{}, services.Wrap(services.ErrPreview, "export", operation, "fetch output of "+job.ID, err)
	}
	return out, nil
}

// RenderPreview classifies a job's output. Only output the service labels
// as JSON is decoded: a JSON string previews as text, a JSON object or array
// as pretty-printed json and any other JSON value as its text form. Anything
// else, including a JSON-labelled body that fails to parse, is kept verbatim
// as text.
func RenderPreview(out api.ExportOutput) Preview {
	verbatim := Preview{Kind: KindText, Content: string(out.Body)}
	if !out.DeclaresJSON() {
		return verbatim
	}
	trimmed := bytes.TrimSpace(out.Body)
	var payload any
	if len(trimmed) == 0 || json.Unmarshal(trimmed, &payload) != nil {
		return verbatim
	}
	switch v := payload.(type) {
	case string:
		return Preview{Kind: KindText, Content: v}
	case map[string]any, []any:
		var buf bytes.Buffer
		if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
			return verbatim
		}
		return Preview{Kind: KindJSON, Content: buf.String()}
	default:
		return Preview{Kind: KindText, Content: string(trimmed)}
	}
}
