package export

import (
	"path/filepath"
	"strings"

	"quarry/internal/api"
)

// Media types of downloaded files.
const (
	MediaTypeJSON = "application/json"
	MediaTypeText = "text/plain"
)

// Extension maps a format to its file extension.
func Extension(format api.ExportFormat) string {
	switch format {
	case api.FormatJSON:
		return "json"
	case api.FormatSRT:
		return "srt"
	case api.FormatVTT:
		return "vtt"
	default:
		return "txt"
	}
}

// FileName is the download name for a job's output.
func FileName(jobID string, format api.ExportFormat) string {
	id := strings.TrimSpace(jobID)
	id = strings.NewReplacer("/", "_", "\\", "_", string(filepath.Separator), "_").Replace(id)
	if id == "" || id == "." || id == ".." {
		id = "unknown"
	}
	return "export-" + id + "." + Extension(format)
}

// MediaType is application/json for structured JSON previews and
// text/plain otherwise. It describes the content written by Download.
func (p Preview) MediaType() string {
	if p.Kind == KindJSON {
		return MediaTypeJSON
	}
	return MediaTypeText
}
