package display

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"
	"time"

	"news-carousel/internal/model"

	"github.com/PuerkitoBio/goquery"
	"github.com/mattn/go-runewidth"
)

// Options controls how cards are laid out.
type Options struct {
	Header     string
	TimeFormat string // "relative" or a Go time layout
	Width      int
	ShowLink   bool
}

// Card is the template data for one carousel frame.
type Card struct {
	Header      string
	Index       int
	Total       int
	Title       string
	Byline      string
	When        string
	Description string
	Summary     string
	URL         string
}

const cardTpl = `{{.Header}}{{if .Total}}  [{{.Index}}/{{.Total}}]{{end}}
{{.Title}}
{{- if .Byline}}
{{.Byline}}{{if .When}} · {{.When}}{{end}}
{{- end}}
{{- if .Summary}}

> {{.Summary}}
{{- end}}
{{- if .Description}}

{{.Description}}
{{- end}}
{{- if .URL}}

{{.URL}}
{{- end}}
`

var compiled = template.Must(template.New("card").Parse(cardTpl))

// Render executes the card template.
func Render(c Card) (string, error) {
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewCard lays out article index i of total. summary may be empty.
func NewCard(a model.Article, i, total int, summary string, opts Options, now time.Time) Card {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	byline := a.Source
	if name := a.AuthorName(); name != "" && !strings.EqualFold(name, a.Source) {
		if byline != "" {
			byline += " · "
		}
		byline += name
	}
	c := Card{
		Header:      runewidth.Truncate(ExpandVars(opts.Header, now), width, "…"),
		Index:       i + 1,
		Total:       total,
		Title:       runewidth.Wrap(PlainText(a.Title), width),
		Byline:      runewidth.Truncate(byline, width, "…"),
		When:        FormatDate(a.Date, opts.TimeFormat, now),
		Description: runewidth.Wrap(PlainText(a.Description), width),
		Summary:     runewidth.Wrap(PlainText(summary), width-2),
	}
	if opts.ShowLink {
		c.URL = a.URL
	}
	return c
}

// Placeholder is shown when the fetcher returned no articles.
func Placeholder(opts Options, now time.Time) Card {
	return Card{
		Header: ExpandVars(opts.Header, now),
		Title:  "No articles to show.",
	}
}

var truncatedMarker = regexp.MustCompile(`\s*\[\+\d+ chars\]$`)

// PlainText strips markup and collapses whitespace. NewsAPI descriptions
// often carry HTML fragments and a trailing "[+N chars]" marker.
func PlainText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	text := s
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			text = doc.Text()
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	return truncatedMarker.ReplaceAllString(text, "")
}

// FormatDate renders an ISO-8601 timestamp either relative to now or with
// a Go layout. Unparseable input is returned as-is.
func FormatDate(iso, format string, now time.Time) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	if format == "" || strings.EqualFold(format, "relative") {
		return relative(now.Sub(t))
	}
	return t.In(now.Location()).Format(format)
}

func relative(d time.Duration) string {
	future := d < 0
	if future {
		d = -d
	}
	var s string
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		s = plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		s = plural(int(d/time.Hour), "hour")
	default:
		s = plural(int(d/(24*time.Hour)), "day")
	}
	if future {
		return "in " + s
	}
	return s + " ago"
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
