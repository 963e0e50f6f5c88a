package api

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"

	"github.com/lysyi3m/habr-zen/app/database"
)

type Channel struct {
	Title       string
	Link        string
	Description string
}

// Generator renders generated posts as an RSS 2.0 document.
type Generator struct {
	version string
	now     func() time.Time
}

func NewGenerator(version string) *Generator {
	return &Generator{version: version, now: time.Now}
}

func (g *Generator) Run(channel Channel, posts []database.ZenPost) (string, error) {
	lastBuildDate := g.now().UTC()
	if len(posts) > 0 {
		lastBuildDate = posts[0].CreatedAt
	}

	feed := &feeds.Feed{
		Title:       channel.Title,
		Link:        &feeds.Link{Href: channel.Link},
		Description: channel.Description,
		Updated:     lastBuildDate,
		Items:       make([]*feeds.Item, 0, len(posts)),
	}

	for _, post := range posts {
		description := post.Lead
		if description == "" {
			description = post.Body
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Id:          post.ArticleURL,
			Title:       post.Title,
			Link:        &feeds.Link{Href: post.ArticleURL},
			Description: description,
			Content:     post.Body,
			Created:     post.CreatedAt,
		})
	}

	rss := (&feeds.Rss{Feed: feed}).RssFeed()
	rss.LastBuildDate = lastBuildDate.Format(time.RFC1123Z)
	rss.Generator = fmt.Sprintf("Habr-Zen/%s", g.version)
	rss.Language = "ru"

	// Categories are per item and not part of the generic feed model.
	for i, post := range posts {
		rss.Items[i].Category = post.SelectionReason
	}

	out, err := feeds.ToXML(rss)
	if err != nil {
		return "", fmt.Errorf("failed to render feed: %w", err)
	}

	return out, nil
}
