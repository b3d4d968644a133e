package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope field names used by the service.
const (
	EnvelopeExport = "export"
	EnvelopeQuotes = "quotes"
	EnvelopeUpload = "upload"

	EnvelopeUploads     = "uploads"
	EnvelopeTranscripts = "transcripts"
	EnvelopeExports     = "exports"
	EnvelopeVersions    = "versions"
	EnvelopeAudit       = "audit"
)

// Unwrap decodes raw as T. It accepts either the bare resource or an object
// envelope holding the resource under field, and always returns the bare
// resource. The envelope wins when the field is present and non-null.
func Unwrap[T any](raw []byte, field string) (T, error) {
	var out T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return out, errors.New("unwrap: empty body")
	}
	if raw[0] == '{' && field != "" {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err == nil {
			if inner, ok := envelope[field]; ok && !bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
				raw = inner
			}
		}
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("unwrap %s: %w", field, err)
	}
	return out, nil
}
