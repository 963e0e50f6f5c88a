package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Parser turns a feed document into feed items according to a profile.
type Parser struct {
	profile      *Profile
	gofeedParser *gofeed.Parser
}

func NewParser(profile *Profile) *Parser {
	return &Parser{
		profile:      profile,
		gofeedParser: gofeed.NewParser(),
	}
}

// Run returns the items in feed order. Items without a title or a link are
// dropped.
func (p *Parser) Run(data []byte) ([]FeedItem, error) {
	switch p.profile.Format {
	case FormatRSS:
		return p.parseRSS(data)
	default:
		return p.parseHTML(data)
	}
}

func (p *Parser) parseHTML(data []byte) ([]FeedItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed HTML: %w", err)
	}

	sel := p.profile.Feed
	var items []FeedItem

	doc.Find(sel.Item).Each(func(_ int, s *goquery.Selection) {
		title := selectValue(s, sel.Title)
		href := selectValue(s, sel.Link)

		item, ok := p.newItem(title, href)
		if !ok {
			return
		}

		item.Author = selectValue(s, sel.Author)
		item.PublishedAt = selectValue(s, sel.PublishedAt)
		items = append(items, item)
	})

	return items, nil
}

func (p *Parser) parseRSS(data []byte) ([]FeedItem, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		item, ok := p.newItem(entry.Title, entry.Link)
		if !ok {
			continue
		}

		item.Author = p.extractAuthor(entry)
		if entry.PublishedParsed != nil {
			item.PublishedAt = entry.PublishedParsed.UTC().Format(time.RFC3339)
		} else {
			item.PublishedAt = strings.TrimSpace(entry.Published)
		}
		items = append(items, item)
	}

	return items, nil
}

func (p *Parser) newItem(title, href string) (FeedItem, bool) {
	title = strings.TrimSpace(title)
	href = strings.TrimSpace(href)
	if title == "" || href == "" {
		return FeedItem{}, false
	}

	link, err := p.profile.ResolveURL(href)
	if err != nil {
		slog.Warn("Skipping feed item with invalid link", "title", title, "link", href, "error", err)
		return FeedItem{}, false
	}

	return FeedItem{Title: title, URL: link}, true
}

func (p *Parser) extractAuthor(entry *gofeed.Item) string {
	for _, author := range entry.Authors {
		if author != nil {
			if name := strings.TrimSpace(cmp.Or(author.Name, author.Email)); name != "" {
				return name
			}
		}
	}

	if entry.Author != nil {
		return strings.TrimSpace(cmp.Or(entry.Author.Name, entry.Author.Email))
	}

	return ""
}
