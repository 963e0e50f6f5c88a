package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var fixedClock = func() time.Time {
	return time.Date(2024, 5, 2, 8, 30, 0, 0, time.FixedZone("MSK", 3*60*60))
}

func newTestFetcher(opts ...FetcherOption) *Fetcher {
	client := NewClient("test-agent", 5*time.Second, 0)
	opts = append([]FetcherOption{WithClock(fixedClock)}, opts...)
	return NewFetcher(client, NewArticleRules(testProfile().Article), opts...)
}

func TestParseArticle_AllFields(t *testing.T) {
	fetcher := newTestFetcher()

	article, err := fetcher.ParseArticle("https://habr.com/ru/articles/800001/", []byte(habrArticleHTML))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if article.Title != "Full article title" {
		t.Errorf("Expected title 'Full article title', got: %s", article.Title)
	}
	if article.Author != "alice" {
		t.Errorf("Expected author 'alice', got: %q", article.Author)
	}
	if article.PublishedAt != "2024-05-01T10:00:00.000Z" {
		t.Errorf("Expected published_at from datetime attribute, got: %s", article.PublishedAt)
	}
	if article.ContentText != "First paragraph.\nSecond\nparagraph\n." {
		t.Errorf("Expected newline-joined text without script contents, got: %q", article.ContentText)
	}
	if !strings.Contains(article.ContentHTML, "<p>First paragraph.</p>") {
		t.Errorf("Expected body HTML to be kept, got: %s", article.ContentHTML)
	}
	if strings.Contains(article.ContentHTML, "<script>") {
		t.Errorf("Expected scripts to be removed from body HTML, got: %s", article.ContentHTML)
	}
	if len(article.Tags) != 2 || article.Tags[0] != "Go" || article.Tags[1] != "SQLite" {
		t.Errorf("Expected tags [Go SQLite], got: %v", article.Tags)
	}

	want := time.Date(2024, 5, 2, 5, 30, 0, 0, time.UTC)
	if !article.FetchedAt.Equal(want) || article.FetchedAt.Location() != time.UTC {
		t.Errorf("Expected fetched_at %v in UTC, got: %v", want, article.FetchedAt)
	}
}

func TestParseArticle_ContentFallsBackInOrder(t *testing.T) {
	fetcher := newTestFetcher()

	page := `<html><body>
<h1>Plain heading</h1>
<article class="tm-article-presenter__content"><p>Presenter body</p></article>
<div class="article-body"><p>Legacy body</p></div>
<a class="tm-tags-list__link" href="#"><span>Fallback tag</span></a>
</body></html>`

	article, err := fetcher.ParseArticle("https://habr.com/ru/articles/1/", []byte(page))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if article.Title != "Plain heading" {
		t.Errorf("Expected title from the generic h1 rule, got: %s", article.Title)
	}
	if article.ContentText != "Legacy body" {
		t.Errorf("Expected the earlier content rule to win, got: %q", article.ContentText)
	}
	if len(article.Tags) != 1 || article.Tags[0] != "Fallback tag" {
		t.Errorf("Expected tags from the second tag rule, got: %v", article.Tags)
	}
}

func TestParseArticle_NoMatchingContent(t *testing.T) {
	fetcher := newTestFetcher()

	article, err := fetcher.ParseArticle("https://habr.com/ru/articles/2/", []byte(bareArticleHTML))
	if err != nil {
		t.Fatalf("Expected no error for a page without content, got: %v", err)
	}

	if article.ContentHTML != "" || article.ContentText != "" {
		t.Errorf("Expected empty content, got html=%q text=%q", article.ContentHTML, article.ContentText)
	}
	if article.Title != "" || article.Author != "" || article.PublishedAt != "" {
		t.Errorf("Expected empty metadata, got: %+v", article)
	}
	if article.Tags == nil || len(article.Tags) != 0 {
		t.Errorf("Expected an empty tag list, got: %v", article.Tags)
	}
}

func TestParseArticle_ReadabilityFallback(t *testing.T) {
	fetcher := newTestFetcher(WithReadabilityFallback())

	page := `<!DOCTYPE html>
<html><head><title>Long read</title></head><body>
<nav>Home | About</nav>
<main><div class="post">
<p>This is the main content of the article. It contains several paragraphs of meaningful text that should be extracted by the readability algorithm.</p>
<p>This is another paragraph with more content. The readability algorithm should identify this as the main content area and extract it properly.</p>
<p>Here is some more substantial content to ensure we meet the character threshold. This paragraph adds more context and information that would be valuable to readers.</p>
</div></main>
<footer><p>Copyright 2024</p></footer>
</body></html>`

	article, err := fetcher.ParseArticle("https://example.com/post", []byte(page))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(article.ContentText, "main content of the article") {
		t.Errorf("Expected readability to extract the article text, got: %q", article.ContentText)
	}
	if article.ContentHTML == "" {
		t.Error("Expected readability HTML to be stored")
	}
}

func TestFetchArticle_SendsUserAgent(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(habrArticleHTML))
	}))
	defer server.Close()

	fetcher := newTestFetcher()
	article, err := fetcher.FetchArticle(context.Background(), server.URL+"/ru/articles/1/")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if gotAgent != "test-agent" {
		t.Errorf("Expected User-Agent 'test-agent', got: %s", gotAgent)
	}
	if article.URL != server.URL+"/ru/articles/1/" {
		t.Errorf("Expected article url to be the requested url, got: %s", article.URL)
	}
}

func TestFetchArticle_HTTPErrorIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := newTestFetcher()
	_, err := fetcher.FetchArticle(context.Background(), server.URL+"/missing")

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError, got: %v", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got: %d", fetchErr.StatusCode)
	}
}

func TestFetchArticle_TimeoutIsFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient("test-agent", 20*time.Millisecond, 0)
	fetcher := NewFetcher(client, NewArticleRules(testProfile().Article))

	_, err := fetcher.FetchArticle(context.Background(), server.URL)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError, got: %v", err)
	}
	if fetchErr.StatusCode != 0 {
		t.Errorf("Expected transport failure without status, got: %d", fetchErr.StatusCode)
	}
}

func TestClient_DecodesCharset(t *testing.T) {
	// "Привет" in windows-1251
	body := []byte{0xCF, 0xF0, 0xE8, 0xE2, 0xE5, 0xF2}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1251")
		w.Write(body)
	}))
	defer server.Close()

	client := NewClient("test-agent", 5*time.Second, 0)
	data, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if string(data) != "Привет" {
		t.Errorf("Expected body decoded to UTF-8, got: %q", string(data))
	}
}

func TestArticle_InheritFrom(t *testing.T) {
	article := &Article{Title: "", Author: "", PublishedAt: "2024-05-02"}
	article.InheritFrom(FeedItem{Title: "Feed title", Author: "feed-author", PublishedAt: "2024-05-01"})

	if article.Title != "Feed title" {
		t.Errorf("Expected title from feed item, got: %s", article.Title)
	}
	if article.Author != "feed-author" {
		t.Errorf("Expected author from feed item, got: %s", article.Author)
	}
	if article.PublishedAt != "2024-05-02" {
		t.Errorf("Expected page published_at to win, got: %s", article.PublishedAt)
	}
}
