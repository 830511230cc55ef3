package fetcher

import (
	"testing"

	"news-carousel/internal/newsapi"
)

func TestStripAuthorSuffix(t *testing.T) {
	cases := []struct {
		title, author, want string
	}{
		{"Big Story - Jane Doe", "Jane Doe", "Big Story"},
		{"Big Story + Jane Doe", "Jane Doe", "Big Story"},
		{"Big Story Jane Doe", "Jane Doe", "Big Story"},
		{"Big Story -  - jane doe", "Jane Doe", "Big Story"},
		{"Big Story - JANE DOE", " Jane Doe ", "Big Story"},
		{"Jane Doe wins the prize", "Jane Doe", "Jane Doe wins the prize"},
		{"Big Story - Jane Doe today", "Jane Doe", "Big Story - Jane Doe today"},
		{"Big Story", "", "Big Story"},
		{"Prices up (C++) - A. B. (Reuters)", "A. B. (Reuters)", "Prices up (C++)"},
		{"Story - Jane Doe", "Jane.Doe", "Story - Jane Doe"},
	}
	for _, tc := range cases {
		if got := StripAuthorSuffix(tc.title, tc.author); got != tc.want {
			t.Errorf("StripAuthorSuffix(%q, %q) = %q, want %q", tc.title, tc.author, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	raw := newsapi.Article{
		Source:      &newsapi.Source{Name: "BBC News"},
		Author:      str("  Jane Doe "),
		Title:       str("Big Story - Jane Doe"),
		Description: str("desc"),
		URL:         str("https://bbc.co.uk/x"),
		URLToImage:  str("https://bbc.co.uk/x.jpg"),
		PublishedAt: str("2024-05-01T10:00:00Z"),
		Content:     str("body [+200 chars]"),
	}
	got := Normalize(raw)
	if got.Source != "BBC News" || got.Title != "Big Story" || got.AuthorName() != "Jane Doe" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.Image != "https://bbc.co.uk/x.jpg" || got.Date != "2024-05-01T10:00:00Z" || got.Content != "body [+200 chars]" {
		t.Fatalf("fields not copied: %+v", got)
	}
}

func TestNormalizeMissingFields(t *testing.T) {
	got := Normalize(newsapi.Article{Title: str("Only a title - Someone")})
	if got.Author != nil {
		t.Errorf("expected nil author, got %q", *got.Author)
	}
	if got.Title != "Only a title - Someone" {
		t.Errorf("title must be untouched without author, got %q", got.Title)
	}
	if got.Source != "" || got.URL != "" || got.Image != "" {
		t.Errorf("expected empty optional fields: %+v", got)
	}
	blank := Normalize(newsapi.Article{Author: str("   ")})
	if blank.Author != nil {
		t.Errorf("blank author should normalize to nil")
	}
}

func TestIsExcluded(t *testing.T) {
	set := ExclusionSet([]string{" Jane Doe", "", "BOT"})
	if len(set) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(set))
	}
	if !IsExcluded(str("jane doe "), set) || !IsExcluded(str("Bot"), set) {
		t.Errorf("expected normalized match")
	}
	if IsExcluded(nil, set) || IsExcluded(str("Janet"), set) {
		t.Errorf("unexpected exclusion")
	}
}
