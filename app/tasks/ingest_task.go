package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/habr-zen/app/database"
	"github.com/lysyi3m/habr-zen/app/feed"
)

type IngestResult struct {
	Listed   int
	Parsed   int
	Failed   int
	Inserted int
	Articles []database.Article // Articles parsed in this run, feed order
}

// IngestTask reads the feed, fetches every listed article and stores the
// ones not seen before.
type IngestTask struct {
	Task
	reader   FeedReader
	fetcher  ArticleFetcher
	articles database.ArticleRepository
	limit    int

	Result IngestResult
}

// NewIngestTask creates an ingest task. A limit of 0 keeps every feed item.
func NewIngestTask(source string, reader FeedReader, fetcher ArticleFetcher, articles database.ArticleRepository, limit int) *IngestTask {
	return &IngestTask{
		Task:     NewTask(TaskTypeIngest, source),
		reader:   reader,
		fetcher:  fetcher,
		articles: articles,
		limit:    limit,
	}
}

func (t *IngestTask) Execute(ctx context.Context) error {
	t.Start()

	items, err := t.reader.FetchFeed(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	if t.limit > 0 && len(items) > t.limit {
		items = items[:t.limit]
	}
	t.Result.Listed = len(items)

	articles := make([]database.Article, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}

		article, err := t.fetcher.FetchArticle(ctx, item.URL)
		if err != nil {
			slog.Warn("Failed to fetch article", "source", t.Source, "url", item.URL, "error", err)
			t.Result.Failed++
			continue
		}

		article.InheritFrom(item)
		articles = append(articles, toRecord(article))
	}
	t.Result.Parsed = len(articles)
	t.Result.Articles = articles

	inserted, err := t.articles.UpsertArticles(ctx, articles)
	if err != nil {
		return fmt.Errorf("failed to store articles: %w", err)
	}
	t.Result.Inserted = inserted

	slog.Info("Task completed",
		"type", t.Type,
		"id", t.ID,
		"source", t.Source,
		"duration", t.GetDuration(),
		"listed", t.Result.Listed,
		"parsed", t.Result.Parsed,
		"failed", t.Result.Failed,
		"inserted", t.Result.Inserted)

	return nil
}

func toRecord(article *feed.Article) database.Article {
	return database.Article{
		URL:         article.URL,
		Title:       article.Title,
		Author:      article.Author,
		PublishedAt: article.PublishedAt,
		ContentHTML: article.ContentHTML,
		ContentText: article.ContentText,
		Tags:        article.Tags,
		FetchedAt:   article.FetchedAt,
	}
}
