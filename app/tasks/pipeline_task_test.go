package tasks

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/habr-zen/app/database"
	"github.com/lysyi3m/habr-zen/app/llm"
	"github.com/lysyi3m/habr-zen/app/publisher"
	"github.com/lysyi3m/habr-zen/app/telegram"
)

func newTestPipeline(t *testing.T, db *database.DB, siteURL, llmURL, telegramURL string) *PipelineTask {
	t.Helper()

	reader, fetcher := newSiteReader(t, siteURL)
	articles := database.NewArticleRepository(db)
	posts := database.NewPostRepository(db)

	completer := llm.NewClient(llm.ClientConfig{
		BaseURL:     llmURL,
		APIKey:      "sk-test",
		Model:       "gpt-4o-mini",
		Temperature: 0.6,
		Timeout:     5 * time.Second,
	})
	sender, err := telegram.NewClient(telegramURL, "1:token", "chat", 5*time.Second)
	if err != nil {
		t.Fatalf("Failed to create telegram client: %v", err)
	}

	ingest := NewIngestTask("habr", reader, fetcher, articles, 10)
	zen := func(ingested IngestResult) *ZenTask {
		return NewZenTask("habr", llm.NewRanker(completer), llm.NewPostGenerator(completer),
			publisher.New(posts, sender), completer.Model(), 3, ingested.Articles)
	}

	return NewPipelineTask("habr", ingest, zen, "test.db")
}

func TestPipelineTask_RunTwice(t *testing.T) {
	site := newSiteServer(t)
	completions := newCompletionServer(t, site.URL+"/ru/articles/2/", site.URL+"/ru/articles/1/")
	tg := newTelegramStub(t)
	db := openTestDB(t)

	first := newTestPipeline(t, db, site.URL, completions.URL, tg.server.URL)
	if err := first.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if first.Ingested.Inserted != 2 || first.Published.Recorded != 2 || first.Published.Delivered != 2 {
		t.Errorf("Expected 2 articles, 2 posts and 2 deliveries, got: %+v %+v", first.Ingested, first.Published)
	}
	if !strings.HasPrefix(first.Summary(), "Pipeline complete. Parsed: 2, inserted: 2, posts: 2, delivered: 2") {
		t.Errorf("Unexpected summary: %s", first.Summary())
	}

	second := newTestPipeline(t, db, site.URL, completions.URL, tg.server.URL)
	if err := second.Execute(context.Background()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if second.Ingested.Inserted != 0 || second.Published.Recorded != 0 || second.Published.Delivered != 0 {
		t.Errorf("Expected second run to change nothing, got: %+v %+v", second.Ingested, second.Published)
	}
	if n := tg.calls.Load(); n != 2 {
		t.Errorf("Expected 2 messages in total, got: %d", n)
	}
	if n := countRows(t, db, "articles"); n != 2 {
		t.Errorf("Expected 2 articles, got: %d", n)
	}
	if n := countRows(t, db, "zen_posts"); n != 2 {
		t.Errorf("Expected 2 posts, got: %d", n)
	}

	posts := database.NewPostRepository(db)
	total, delivered, err := posts.GetPostStats(context.Background())
	if err != nil || total != 2 || delivered != 2 {
		t.Errorf("Expected 2 delivered posts, got: %d/%d (%v)", delivered, total, err)
	}
}

func TestPipelineTask_RankingFallback(t *testing.T) {
	site := newSiteServer(t)
	tg := newTelegramStub(t)
	db := openTestDB(t)

	// No completion server: every call fails.
	pipeline := newTestPipeline(t, db, site.URL, site.URL+"/no-llm", tg.server.URL)
	if err := pipeline.Execute(context.Background()); err != nil {
		t.Fatalf("Expected generation failures to be isolated, got: %v", err)
	}

	if pipeline.Published.Ranked != 2 {
		t.Errorf("Expected fallback to pick the 2 parsed articles, got: %d", pipeline.Published.Ranked)
	}
	if pipeline.Published.Failed != 2 || pipeline.Published.Recorded != 0 {
		t.Errorf("Expected 2 generation failures and no posts, got: %+v", pipeline.Published)
	}
	if pipeline.Ingested.Inserted != 2 {
		t.Errorf("Expected articles to be stored regardless, got: %d", pipeline.Ingested.Inserted)
	}
}
