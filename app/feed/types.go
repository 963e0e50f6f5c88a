package feed

import (
	"time"
)

// Feed processing types

type FeedItem struct {
	Title       string
	URL         string // Absolute, used as the article key
	Author      string // Optional
	PublishedAt string // Optional ISO-8601 string as published by the source
}

type Article struct {
	URL         string
	Title       string
	Author      string
	PublishedAt string
	ContentHTML string
	ContentText string
	Tags        []string
	FetchedAt   time.Time
}

// InheritFrom fills fields the article page did not provide from its feed item.
func (a *Article) InheritFrom(item FeedItem) {
	if a.Title == "" {
		a.Title = item.Title
	}
	if a.Author == "" {
		a.Author = item.Author
	}
	if a.PublishedAt == "" {
		a.PublishedAt = item.PublishedAt
	}
}

type Content struct {
	HTML string
	Text string
}

// Profile types

type Format string

const (
	FormatHTML Format = "html"
	FormatRSS  Format = "rss"
)

type Profile struct {
	Name    string           `yaml:"name"`
	FeedURL string           `yaml:"feed_url"`
	BaseURL string           `yaml:"base_url"`
	Format  Format           `yaml:"format"`
	Feed    FeedSelectors    `yaml:"feed"`
	Article ArticleSelectors `yaml:"article"`
	Filters []ProfileFilter  `yaml:"filters"`
}

type FeedSelectors struct {
	Item        string   `yaml:"item"`
	Title       Selector `yaml:"title"`
	Link        Selector `yaml:"link"`
	Author      Selector `yaml:"author"`
	PublishedAt Selector `yaml:"published_at"`
}

// ArticleSelectors lists fallback selectors per field. Order matters: the
// first selector that yields a non-empty value wins.
type ArticleSelectors struct {
	Title       []Selector `yaml:"title"`
	Author      []Selector `yaml:"author"`
	PublishedAt []Selector `yaml:"published_at"`
	Content     []string   `yaml:"content"`
	Tags        []string   `yaml:"tags"`
}

type ProfileFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
