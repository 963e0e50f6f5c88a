package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lysyi3m/habr-zen/app/feed"
)

// PageGetter downloads a page body. Implemented by *feed.Client.
type PageGetter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type DumpResult struct {
	FeedPath    string
	ArticlePath string
	ArticleURL  string
}

// DumpPagesTask saves the raw feed page and the first listed article page so
// profile selectors can be checked against real markup.
type DumpPagesTask struct {
	Task
	client  PageGetter
	profile *feed.Profile
	outDir  string

	Result DumpResult
}

func NewDumpPagesTask(client PageGetter, profile *feed.Profile, outDir string) *DumpPagesTask {
	return &DumpPagesTask{
		Task:    NewTask(TaskTypeDump, profile.Name),
		client:  client,
		profile: profile,
		outDir:  outDir,
	}
}

func (t *DumpPagesTask) Execute(ctx context.Context) error {
	t.Start()

	if err := os.MkdirAll(t.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := t.client.Get(ctx, t.profile.FeedURL)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	t.Result.FeedPath = filepath.Join(t.outDir, "feed.html")
	if err := os.WriteFile(t.Result.FeedPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to save feed page: %w", err)
	}

	items, err := feed.NewParser(t.profile).Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse feed: %w", err)
	}
	if len(items) == 0 {
		return fmt.Errorf("no article links found in feed %s", t.profile.FeedURL)
	}
	t.Result.ArticleURL = items[0].URL

	data, err = t.client.Get(ctx, t.Result.ArticleURL)
	if err != nil {
		return fmt.Errorf("failed to fetch article: %w", err)
	}

	t.Result.ArticlePath = filepath.Join(t.outDir, "detail.html")
	if err := os.WriteFile(t.Result.ArticlePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to save article page: %w", err)
	}

	slog.Info("Task completed",
		"type", t.Type,
		"id", t.ID,
		"source", t.Source,
		"duration", t.GetDuration(),
		"article_url", t.Result.ArticleURL)

	return nil
}
