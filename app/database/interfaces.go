package database

import (
	"context"
	"time"
)

type ArticleRepository interface {
	GetArticle(ctx context.Context, url string) (*Article, error)
	ListArticles(ctx context.Context, limit int) ([]Article, error)
	GetArticleCount(ctx context.Context) (int, error)

	UpsertArticles(ctx context.Context, articles []Article) (int, error)
}

type PostRepository interface {
	GetPost(ctx context.Context, articleURL string) (*ZenPost, error)
	ListPosts(ctx context.Context, limit int) ([]ZenPost, error)
	GetPostStats(ctx context.Context) (int, int, error)

	RecordPost(ctx context.Context, post ZenPost) (bool, error)
	MarkDelivered(ctx context.Context, articleURL string, messageID string, sentAt time.Time) error
}
