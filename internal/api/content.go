package api

import (
	"mime"
	"strings"
)

// IsJSONContentType reports whether a Content-Type header declares JSON,
// including structured suffixes such as application/problem+json.
func IsJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// DeclaresJSON reports whether the service labelled the output as JSON.
func (o ExportOutput) DeclaresJSON() bool {
	return IsJSONContentType(o.ContentType)
}
