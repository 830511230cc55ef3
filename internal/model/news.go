package model

// Article is the normalized record handed to the display side.
// Author is nil when the upstream item carried no author.
type Article struct {
	Source      string  `json:"source" yaml:"source"`
	Author      *string `json:"author" yaml:"author"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	URL         string  `json:"url" yaml:"url"`
	Image       string  `json:"image" yaml:"image"`
	Date        string  `json:"date" yaml:"date"`
	Content     string  `json:"content" yaml:"content"`
}

// AuthorName returns the author or an empty string.
func (a Article) AuthorName() string {
	if a.Author == nil {
		return ""
	}
	return *a.Author
}

// CloneArticles copies a list, including the author pointers, so callers
// cannot mutate shared state through the result.
func CloneArticles(in []Article) []Article {
	if in == nil {
		return nil
	}
	out := make([]Article, len(in))
	for i, a := range in {
		if a.Author != nil {
			name := *a.Author
			a.Author = &name
		}
		out[i] = a
	}
	return out
}
