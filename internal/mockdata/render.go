package mockdata

import (
	"encoding/json"
	"fmt"
	"strings"

	"quarry/internal/api"
)

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain; charset=utf-8"

	twitterLimit = 280
)

// Render produces the output a completed job would download.
func Render(job api.ExportJob, quotes []api.Quote) api.ExportOutput {
	switch job.Format {
	case api.FormatJSON:
		return api.ExportOutput{Body: renderJSON(job, quotes), ContentType: contentTypeJSON}
	case api.FormatSRT:
		return api.ExportOutput{Body: []byte(renderCues(quotes, formatSRTTimestamp, false)), ContentType: contentTypeText}
	case api.FormatVTT:
		return api.ExportOutput{Body: []byte(renderCues(quotes, formatVTTTimestamp, true)), ContentType: contentTypeText}
	case api.FormatTwitter:
		return api.ExportOutput{Body: []byte(renderTwitter(job, quotes)), ContentType: contentTypeText}
	case api.FormatLinkedIn:
		return api.ExportOutput{Body: []byte(renderLinkedIn(job, quotes)), ContentType: contentTypeText}
	case api.FormatInstagram:
		return api.ExportOutput{Body: []byte(renderInstagram(job, quotes)), ContentType: contentTypeText}
	default:
		return api.ExportOutput{Body: []byte(renderPlain(job, quotes)), ContentType: contentTypeText}
	}
}

type jsonDocument struct {
	Title  *string     `json:"title"`
	Author *string     `json:"author"`
	Format string      `json:"format"`
	Quotes []jsonQuote `json:"quotes"`
}

type jsonQuote struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Start float64  `json:"start"`
	End   float64  `json:"end"`
	Tags  []string `json:"tags"`
}

func renderJSON(job api.ExportJob, quotes []api.Quote) []byte {
	doc := jsonDocument{Format: string(job.Format), Quotes: make([]jsonQuote, 0, len(quotes))}
	if job.Title != "" {
		doc.Title = &job.Title
	}
	if job.Author != "" {
		doc.Author = &job.Author
	}
	for _, q := range quotes {
		tags := q.Tags
		if tags == nil {
			tags = []string{}
		}
		doc.Quotes = append(doc.Quotes, jsonQuote{ID: q.ID, Text: q.Text, Start: q.Start, End: q.End, Tags: tags})
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return []byte("{}")
	}
	return out
}

func byline(job api.ExportJob) string {
	if job.Author == "" {
		return ""
	}
	return " - " + job.Author
}

func renderPlain(job api.ExportJob, quotes []api.Quote) string {
	var b strings.Builder
	if job.Title != "" {
		b.WriteString(job.Title + "\n")
		if job.Author != "" {
			b.WriteString("by " + job.Author + "\n")
		}
		b.WriteString("\n")
	} else if job.Author != "" {
		b.WriteString("by " + job.Author + "\n\n")
	}
	for i, q := range quotes {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%q\n", q.Text)
	}
	return b.String()
}

func renderTwitter(job api.ExportJob, quotes []api.Quote) string {
	posts := make([]string, 0, len(quotes))
	for _, q := range quotes {
		post := fmt.Sprintf("%q%s", q.Text, byline(job))
		if runes := []rune(post); len(runes) > twitterLimit {
			post = string(runes[:twitterLimit-3]) + "..."
		}
		posts = append(posts, post)
	}
	return strings.Join(posts, "\n\n") + "\n"
}

func renderLinkedIn(job api.ExportJob, quotes []api.Quote) string {
	var b strings.Builder
	if job.Title != "" {
		b.WriteString(job.Title + "\n\n")
	}
	for _, q := range quotes {
		fmt.Fprintf(&b, "• %s\n", q.Text)
	}
	if job.Author != "" {
		b.WriteString("\n" + strings.TrimPrefix(byline(job), " ") + "\n")
	}
	return b.String()
}

func renderInstagram(job api.ExportJob, quotes []api.Quote) string {
	var b strings.Builder
	seen := map[string]bool{}
	var hashtags []string
	for i, q := range quotes {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%q%s\n", q.Text, byline(job))
		for _, tag := range q.Tags {
			tag = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(tag)), " ", "")
			if tag != "" && !seen[tag] {
				seen[tag] = true
				hashtags = append(hashtags, "#"+tag)
			}
		}
	}
	if len(hashtags) > 0 {
		b.WriteString("\n" + strings.Join(hashtags, " ") + "\n")
	}
	return b.String()
}

func renderCues(quotes []api.Quote, stamp func(float64) string, webvtt bool) string {
	var b strings.Builder
	if webvtt {
		b.WriteString("WEBVTT\n\n")
	}
	for i, q := range quotes {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", i+1, stamp(q.Start), stamp(q.End), q.Text)
	}
	return b.String()
}

func splitMillis(seconds float64) (hours, minutes, secs, millis int) {
	if seconds < 0 {
		seconds = 0
	}
	msTotal := int(seconds*1000 + 0.5)
	hours = msTotal / 3_600_000
	msTotal %= 3_600_000
	minutes = msTotal / 60_000
	msTotal %= 60_000
	secs = msTotal / 1_000
	millis = msTotal % 1_000
	return hours, minutes, secs, millis
}

func formatSRTTimestamp(seconds float64) string {
	h, m, s, ms := splitMillis(seconds)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func formatVTTTimestamp(seconds float64) string {
	h, m, s, ms := splitMillis(seconds)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
