package tasks

import (
	"context"

	"github.com/lysyi3m/habr-zen/app/database"
	"github.com/lysyi3m/habr-zen/app/feed"
	"github.com/lysyi3m/habr-zen/app/llm"
	"github.com/lysyi3m/habr-zen/app/publisher"
)

// FeedReader lists the items of the configured feed in feed order.
// Implemented by *feed.Reader.
type FeedReader interface {
	FetchFeed(ctx context.Context) ([]feed.FeedItem, error)
}

// ArticleFetcher downloads and extracts a single article page.
// Implemented by *feed.Fetcher.
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, url string) (*feed.Article, error)
}

// ArticleRanker picks the articles worth a post. It falls back to input
// order on its own and never fails.
// Implemented by *llm.Ranker.
type ArticleRanker interface {
	Rank(ctx context.Context, briefs []llm.Brief, topK int) []llm.RankedArticle
}

// PostGenerator rewrites one article into a post.
// Implemented by *llm.PostGenerator.
type PostGenerator interface {
	Generate(ctx context.Context, brief llm.Brief) (*llm.GeneratedPost, error)
}

// PostPublisher records a post and delivers it when needed.
// Implemented by *publisher.Publisher.
type PostPublisher interface {
	Publish(ctx context.Context, post database.ZenPost) (publisher.Result, error)
}
