package feed

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// ArticleRules holds the ordered extraction rules for every article field.
type ArticleRules struct {
	Title       []Rule[string]
	Author      []Rule[string]
	PublishedAt []Rule[string]
	Content     []Rule[Content]
	Tags        []Rule[[]string]
}

func NewArticleRules(selectors ArticleSelectors) ArticleRules {
	var rules ArticleRules

	for _, sel := range selectors.Title {
		rules.Title = append(rules.Title, TextRule(sel))
	}
	for _, sel := range selectors.Author {
		rules.Author = append(rules.Author, TextRule(sel))
	}
	for _, sel := range selectors.PublishedAt {
		rules.PublishedAt = append(rules.PublishedAt, TextRule(sel))
	}
	for _, css := range selectors.Content {
		rules.Content = append(rules.Content, ContentRule(css))
	}
	for _, css := range selectors.Tags {
		rules.Tags = append(rules.Tags, ListRule(css))
	}

	return rules
}

type FetcherOption func(*Fetcher)

// WithReadabilityFallback appends readability as the last content rule.
func WithReadabilityFallback() FetcherOption {
	return func(f *Fetcher) {
		f.readability = true
	}
}

// WithClock replaces the clock used to stamp FetchedAt.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) {
		f.now = now
	}
}

type Fetcher struct {
	client      *Client
	rules       ArticleRules
	sanitizer   *bluemonday.Policy
	readability bool
	now         func() time.Time
}

func NewFetcher(client *Client, rules ArticleRules, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    client,
		rules:     rules,
		sanitizer: bluemonday.UGCPolicy(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// FetchArticle downloads and extracts a single article. Transport and status
// failures are returned as *FetchError.
func (f *Fetcher) FetchArticle(ctx context.Context, url string) (*Article, error) {
	data, err := f.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	return f.ParseArticle(url, data)
}

// ParseArticle extracts an article from an already downloaded page. A page
// without recognizable content yields empty content, not an error.
func (f *Fetcher) ParseArticle(url string, data []byte) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse article HTML: %w", err)
	}

	article := &Article{
		URL:       url,
		Tags:      []string{},
		FetchedAt: f.now().UTC(),
	}

	article.Title, _ = FirstMatch(doc.Selection, f.rules.Title)
	article.Author, _ = FirstMatch(doc.Selection, f.rules.Author)
	article.PublishedAt, _ = FirstMatch(doc.Selection, f.rules.PublishedAt)

	if tags, ok := FirstMatch(doc.Selection, f.rules.Tags); ok {
		article.Tags = tags
	}

	contentRules := f.rules.Content
	if f.readability {
		contentRules = append(contentRules[:len(contentRules):len(contentRules)], ReadabilityRule(url))
	}

	if content, ok := FirstMatch(doc.Selection, contentRules); ok {
		article.ContentHTML = f.sanitizer.Sanitize(content.HTML)
		article.ContentText = content.Text
	}

	return article, nil
}
