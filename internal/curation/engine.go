package curation

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"quarry/internal/api"
	"quarry/internal/logging"
	"quarry/internal/services"
)

// QuoteService is the subset of the gateway the engine needs.
type QuoteService interface {
	ListQuotes(ctx context.Context, query api.QuoteQuery) ([]api.Quote, error)
	UpdateQuote(ctx context.Context, id string, patch api.QuotePatch) (api.Quote, error)
	DeleteQuote(ctx context.Context, id string) error
}

// Engine holds the quote collection for one curation view.
type Engine struct {
	service QuoteService
	logger  *slog.Logger
	options LoadOptions
	quotes  []api.Quote
}

// NewEngine returns an empty engine.
func NewEngine(service QuoteService, logger *slog.Logger) *Engine {
	return &Engine{service: service, logger: logging.NewComponentLogger(logger, "curation")}
}

// Load fetches the server-filtered collection and replaces the held one.
func (e *Engine) Load(ctx context.Context, opts LoadOptions) ([]api.Quote, error) {
	quotes, err := e.service.ListQuotes(ctx, opts.Query())
	if err != nil {
		return nil, err
	}
	e.options = opts
	e.quotes = quotes
	e.logger.Debug("quotes loaded",
		logging.Int("count", len(quotes)),
		logging.String("status", string(opts.Status)),
		logging.Float64("min_confidence", opts.MinConfidence),
	)
	return slices.Clone(quotes), nil
}

// Options returns the filters used by the last successful Load.
func (e *Engine) Options() LoadOptions {
	return e.options
}

// Quotes returns the held collection.
func (e *Engine) Quotes() []api.Quote {
	return slices.Clone(e.quotes)
}

// Visible applies the tag filter to the held collection.
func (e *Engine) Visible(tagQuery string) []api.Quote {
	return ApplyTagFilter(e.Quotes(), tagQuery)
}

// Approve marks a quote approved.
func (e *Engine) Approve(ctx context.Context, id string) (api.Quote, error) {
	approved := true
	return e.mutate(ctx, id, api.QuotePatch{Approved: &approved})
}

// Reject clears a quote's approval.
func (e *Engine) Reject(ctx context.Context, id string) (api.Quote, error) {
	approved := false
	return e.mutate(ctx, id, api.QuotePatch{Approved: &approved})
}

// SetTags replaces a quote's tags.
func (e *Engine) SetTags(ctx context.Context, id string, tags []string) (api.Quote, error) {
	if tags == nil {
		tags = []string{}
	}
	return e.mutate(ctx, id, api.QuotePatch{Tags: tags})
}

// EditText replaces a quote's text. Blank text is rejected locally.
func (e *Engine) EditText(ctx context.Context, id, text string) (api.Quote, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return api.Quote{}, services.Wrap(services.ErrValidation, "curation", "edit", "quote text must not be empty", nil)
	}
	return e.mutate(ctx, id, api.QuotePatch{Text: &text})
}

// Delete removes a quote through the service and from the held collection.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if err := e.service.DeleteQuote(ctx, id); err != nil {
		return err
	}
	if idx := e.index(id); idx >= 0 {
		e.quotes = slices.Delete(e.quotes, idx, idx+1)
	}
	return nil
}

func (e *Engine) mutate(ctx context.Context, id string, patch api.QuotePatch) (api.Quote, error) {
	if strings.TrimSpace(id) == "" {
		return api.Quote{}, services.Wrap(services.ErrValidation, "curation", "update", "quote id is required", nil)
	}
	updated, err := e.service.UpdateQuote(ctx, id, patch)
	if err != nil {
		return api.Quote{}, err
	}
	if idx := e.index(id); idx >= 0 {
		e.quotes[idx] = updated
	}
	e.logger.Debug("quote updated", logging.String("quote_id", id), logging.Bool("approved", updated.Approved))
	return updated, nil
}

func (e *Engine) index(id string) int {
	return slices.IndexFunc(e.quotes, func(q api.Quote) bool { return q.ID == id })
}
