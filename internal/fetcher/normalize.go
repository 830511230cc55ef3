package fetcher

import (
	"regexp"
	"strings"

	"news-carousel/internal/model"
	"news-carousel/internal/newsapi"
)

// StripAuthorSuffix removes a trailing "<sep><author>" from title, where sep
// is any run of '-', '+' or whitespace. Matching is case-insensitive and only
// at the end of the title.
func StripAuthorSuffix(title, author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return title
	}
	re, err := regexp.Compile(`(?i)[\s+-]+` + regexp.QuoteMeta(author) + `$`)
	if err != nil {
		return title
	}
	return re.ReplaceAllString(title, "")
}

// authorKey is the form used for exclusion matching.
func authorKey(author string) string {
	return strings.ToLower(strings.TrimSpace(author))
}

// ExclusionSet builds a lookup set from configured author names.
func ExclusionSet(authors []string) map[string]struct{} {
	set := make(map[string]struct{}, len(authors))
	for _, a := range authors {
		k := authorKey(a)
		if k == "" {
			continue
		}
		set[k] = struct{}{}
	}
	return set
}

// IsExcluded reports whether the author is in the exclusion set. A missing
// author is never excluded.
func IsExcluded(author *string, set map[string]struct{}) bool {
	if author == nil || len(set) == 0 {
		return false
	}
	_, ok := set[authorKey(*author)]
	return ok
}

// Normalize converts an upstream article into a display record.
func Normalize(raw newsapi.Article) model.Article {
	out := model.Article{
		Title:       deref(raw.Title),
		Description: deref(raw.Description),
		URL:         deref(raw.URL),
		Image:       deref(raw.URLToImage),
		Date:        deref(raw.PublishedAt),
		Content:     deref(raw.Content),
	}
	if raw.Source != nil {
		out.Source = raw.Source.Name
	}
	if raw.Author != nil {
		if name := strings.TrimSpace(*raw.Author); name != "" {
			out.Author = &name
			out.Title = StripAuthorSuffix(out.Title, name)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
