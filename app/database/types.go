package database

import (
	"time"
)

type Article struct {
	ID          int64
	URL         string // Canonical URL, unique key
	Title       string
	Author      string // Empty when unknown, stored as NULL
	PublishedAt string // ISO-8601 as found in the source, stored as NULL when empty
	ContentHTML string
	ContentText string
	Tags        []string // Source order preserved
	FetchedAt   time.Time
}

type ZenPost struct {
	ID                int64
	ArticleURL        string
	Title             string
	Lead              string
	Body              string
	SelectionReason   string
	Model             string
	CreatedAt         time.Time
	TelegramMessageID string // Empty until delivery is confirmed
	TelegramSentAt    *time.Time
}

func (p ZenPost) Delivered() bool {
	return p.TelegramMessageID != ""
}
