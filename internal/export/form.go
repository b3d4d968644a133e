package export

import (
	"slices"
	"strings"

	"quarry/internal/api"
	"quarry/internal/services"
)

// Form is the user's export choice before submission.
type Form struct {
	Format   api.ExportFormat
	Title    string
	Author   string
	QuoteIDs []string
}

// Normalize trims title and author, leaving "" when blank.
func (f Form) Normalize() Form {
	f.Title = strings.TrimSpace(f.Title)
	f.Author = strings.TrimSpace(f.Author)
	f.QuoteIDs = slices.Clone(f.QuoteIDs)
	return f
}

// Validate checks the format. An empty quote list is left for the service
// to judge.
func (f Form) Validate() error {
	if !f.Format.Valid() {
		return services.Wrap(services.ErrValidation, "export", "validate", "unsupported format "+string(f.Format), nil)
	}
	return nil
}

// BuildRequest converts a form into the submission payload. Blank title and
// author are sent as null, and both are only sent for formats that render a
// byline.
func BuildRequest(form Form) api.ExportRequest {
	form = form.Normalize()
	req := api.ExportRequest{
		QuoteIDs: form.QuoteIDs,
		Format:   form.Format,
	}
	if req.QuoteIDs == nil {
		req.QuoteIDs = []string{}
	}
	if form.Format.UsesByline() {
		req.Title = optional(form.Title)
		req.Author = optional(form.Author)
	}
	return req
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
