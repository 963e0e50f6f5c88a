package llm

import (
	"unicode/utf8"
)

const SummaryLength = 1200

// Brief is the compact article description sent to the model.
type Brief struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Author      *string  `json:"author"`
	PublishedAt *string  `json:"published_at"`
	Tags        []string `json:"tags"`
	Summary     string   `json:"summary"`
}

func NewBrief(url, title, author, publishedAt string, tags []string, contentText string) Brief {
	if tags == nil {
		tags = []string{}
	}

	return Brief{
		URL:         url,
		Title:       title,
		Author:      optional(author),
		PublishedAt: optional(publishedAt),
		Tags:        tags,
		Summary:     truncateRunes(contentText, SummaryLength),
	}
}

// truncateRunes cuts s to at most n characters, not bytes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
