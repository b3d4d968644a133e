package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConnectivity marks failures where the service could not be reached
	// or located. The orchestrator answers these from mock data.
	ErrConnectivity = errors.New("service unreachable")
	// ErrRemote marks logical rejections returned by the service.
	ErrRemote = errors.New("service rejected request")
	// ErrValidation marks client-side validation failures; no request was sent.
	ErrValidation = errors.New("validation error")
	// ErrPreview marks failures fetching the output of a completed export.
	ErrPreview = errors.New("preview unavailable")
	// ErrNotReady marks export output requested before the job completed.
	ErrNotReady = errors.New("export not ready")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrRemote
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short classification label for err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotReady):
		return "not_ready"
	case errors.Is(err, ErrPreview):
		return "preview"
	case errors.Is(err, ErrConnectivity):
		return "connectivity"
	case errors.Is(err, ErrRemote):
		return "remote"
	default:
		return "internal"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
