package curation

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"quarry/internal/api"
)

// StatusFilter selects quotes by approval state on the server.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusApproved StatusFilter = "approved"
	StatusPending  StatusFilter = "pending"
)

// ParseStatusFilter accepts all, approved or pending. Empty means all.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusPending:
		return StatusPending, nil
	}
	return "", fmt.Errorf("unknown status filter %q (want all, approved or pending)", raw)
}

// queryValue is the status parameter sent to the server; all sends none.
func (f StatusFilter) queryValue() string {
	if f == StatusAll || f == "" {
		return ""
	}
	return string(f)
}

// LoadOptions are the server-side filters for a quote listing.
type LoadOptions struct {
	AssetID       string
	Status        StatusFilter
	MinConfidence float64
}

// Query translates the options into a server query. minConfidence is only
// carried when positive.
func (o LoadOptions) Query() api.QuoteQuery {
	q := api.QuoteQuery{
		AssetID: strings.TrimSpace(o.AssetID),
		Status:  o.Status.queryValue(),
	}
	if o.MinConfidence > 0 {
		q.MinConfidence = o.MinConfidence
	}
	return q
}

// ParseTagQuery splits a comma-separated tag query into folded, non-empty
// tokens.
func ParseTagQuery(tagQuery string) []string {
	folder := cases.Fold()
	var tokens []string
	for _, raw := range strings.Split(tagQuery, ",") {
		token := folder.String(strings.TrimSpace(raw))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// ApplyTagFilter keeps the quotes whose tags cover every token of tagQuery.
// A token matches a quote when it is a case-insensitive substring of at
// least one of the quote's tags. With no tokens the input is returned as is.
func ApplyTagFilter(quotes []api.Quote, tagQuery string) []api.Quote {
	tokens := ParseTagQuery(tagQuery)
	if len(tokens) == 0 {
		return quotes
	}
	folder := cases.Fold()
	out := make([]api.Quote, 0, len(quotes))
	for _, q := range quotes {
		tags := make([]string, len(q.Tags))
		for i, tag := range q.Tags {
			tags[i] = folder.String(tag)
		}
		if matchesAll(tags, tokens) {
			out = append(out, q)
		}
	}
	return out
}

func matchesAll(tags, tokens []string) bool {
	for _, token := range tokens {
		found := false
		for _, tag := range tags {
			if strings.Contains(tag, token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ParseTags splits a comma-separated tag list, trimming blanks and dropping
// duplicates while keeping display order and case.
func ParseTags(raw string) []string {
	seen := map[string]bool{}
	out := []string{}
	folder := cases.Fold()
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		key := folder.String(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}
