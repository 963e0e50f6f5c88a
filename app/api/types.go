package api

import (
	"time"

	"github.com/lysyi3m/habr-zen/app/database"
)

type GeneratorInterface interface {
	Run(channel Channel, posts []database.ZenPost) (string, error)
}

var _ GeneratorInterface = (*Generator)(nil)

type Handler struct {
	articles  database.ArticleRepository
	posts     database.PostRepository
	generator GeneratorInterface
	channel   Channel
}

type ArticleResponse struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	PublishedAt string    `json:"published_at,omitempty"`
	Tags        []string  `json:"tags"`
	ContentText string    `json:"content_text"`
	FetchedAt   time.Time `json:"fetched_at"`
}

type PostResponse struct {
	ArticleURL        string     `json:"article_url"`
	Title             string     `json:"title"`
	Lead              string     `json:"lead,omitempty"`
	Body              string     `json:"body"`
	SelectionReason   string     `json:"selection_reason,omitempty"`
	Model             string     `json:"model"`
	CreatedAt         time.Time  `json:"created_at"`
	TelegramMessageID string     `json:"telegram_message_id,omitempty"`
	TelegramSentAt    *time.Time `json:"telegram_sent_at,omitempty"`
}
