package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/habr-zen/app/database"
	"github.com/lysyi3m/habr-zen/app/llm"
)

type ZenResult struct {
	Ranked    int
	Generated int
	Skipped   int
	Failed    int
	Recorded  int
	Delivered int
}

// ZenTask ranks the given articles, rewrites the top ones into posts and
// hands every post to the publisher.
type ZenTask struct {
	Task
	ranker    ArticleRanker
	generator PostGenerator
	publisher PostPublisher
	model     string
	topK      int
	articles  []database.Article
	now       func() time.Time

	Result ZenResult
}

func NewZenTask(source string, ranker ArticleRanker, generator PostGenerator, publisher PostPublisher, model string, topK int, articles []database.Article) *ZenTask {
	return &ZenTask{
		Task:      NewTask(TaskTypeZen, source),
		ranker:    ranker,
		generator: generator,
		publisher: publisher,
		model:     model,
		topK:      topK,
		articles:  articles,
		now:       time.Now,
	}
}

func (t *ZenTask) Execute(ctx context.Context) error {
	t.Start()

	if len(t.articles) == 0 || t.topK <= 0 {
		slog.Info("No articles to rank", "source", t.Source, "top_k", t.topK)
		return nil
	}

	briefs := make([]llm.Brief, 0, len(t.articles))
	byURL := make(map[string]database.Article, len(t.articles))
	for _, article := range t.articles {
		briefs = append(briefs, briefOf(article))
		byURL[article.URL] = article
	}

	ranked := t.ranker.Rank(ctx, briefs, t.topK)
	t.Result.Ranked = len(ranked)

	seen := make(map[string]bool, len(ranked))
	for _, item := range ranked {
		if err := ctx.Err(); err != nil {
			return err
		}

		article, ok := byURL[item.URL]
		if item.URL == "" || !ok {
			slog.Debug("Ranked url not among articles, skipping", "url", item.URL)
			t.Result.Skipped++
			continue
		}
		if seen[item.URL] {
			slog.Debug("Ranked url repeated, skipping", "url", item.URL)
			t.Result.Skipped++
			continue
		}
		seen[item.URL] = true

		generated, err := t.generator.Generate(ctx, briefOf(article))
		if err != nil {
			slog.Warn("Failed to generate post", "url", article.URL, "error", err)
			t.Result.Failed++
			continue
		}
		if generated.Body == "" {
			slog.Debug("Generated post has no body, skipping", "url", article.URL)
			t.Result.Skipped++
			continue
		}
		t.Result.Generated++

		title := generated.Title
		if title == "" {
			title = article.Title
		}

		result, err := t.publisher.Publish(ctx, database.ZenPost{
			ArticleURL:      article.URL,
			Title:           title,
			Lead:            generated.Lead,
			Body:            generated.Body,
			SelectionReason: item.Reason,
			Model:           t.model,
			CreatedAt:       t.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to publish post for %s: %w", article.URL, err)
		}
		if result.Inserted {
			t.Result.Recorded++
		}
		if result.Delivered {
			t.Result.Delivered++
		}
	}

	slog.Info("Task completed",
		"type", t.Type,
		"id", t.ID,
		"source", t.Source,
		"duration", t.GetDuration(),
		"ranked", t.Result.Ranked,
		"generated", t.Result.Generated,
		"skipped", t.Result.Skipped,
		"failed", t.Result.Failed,
		"recorded", t.Result.Recorded,
		"delivered", t.Result.Delivered)

	return nil
}

func briefOf(article database.Article) llm.Brief {
	return llm.NewBrief(article.URL, article.Title, article.Author, article.PublishedAt, article.Tags, article.ContentText)
}
