package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lysyi3m/habr-zen/app/database"
	"github.com/lysyi3m/habr-zen/app/feed"
)

const feedPage = `<!DOCTYPE html>
<html><body>
  <article class="tm-articles-list__item">
    <a class="tm-user-info__username" href="/ru/users/alice/">alice</a>
    <time datetime="2024-05-01T10:00:00.000Z">1 May</time>
    <h2><a href="/ru/articles/1/"><span>Feed title one</span></a></h2>
  </article>
  <article class="tm-articles-list__item">
    <h2><a href="/ru/articles/2/"><span>Feed title two</span></a></h2>
  </article>
  <article class="tm-articles-list__item">
    <h2><a href="/ru/articles/3/"><span>Broken article</span></a></h2>
  </article>
</body></html>`

// Article one has no title, author or date of its own.
const articleOnePage = `<!DOCTYPE html>
<html><body>
<div id="post-content-body"><p>Body of article one.</p></div>
</body></html>`

const articleTwoPage = `<!DOCTYPE html>
<html><body>
<h1 class="tm-title">Page title two</h1>
<a class="tm-user-info__username" href="/ru/users/bob/">bob</a>
<time datetime="2024-05-02T09:00:00.000Z">2 May</time>
<div id="post-content-body"><p>Body of article two.</p></div>
<div class="tm-separated-list tag-list"><a class="link"><span>Go</span></a></div>
</body></html>`

func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/ru/feed/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedPage))
	})
	mux.HandleFunc("/ru/articles/1/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articleOnePage))
	})
	mux.HandleFunc("/ru/articles/2/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(articleTwoPage))
	})
	mux.HandleFunc("/ru/articles/3/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func siteProfile(t *testing.T, baseURL string) *feed.Profile {
	t.Helper()

	profile, err := feed.LoadProfile("")
	if err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}
	profile.FeedURL = baseURL + "/ru/feed/"
	profile.BaseURL = baseURL
	return profile
}

func newSiteReader(t *testing.T, baseURL string) (*feed.Reader, *feed.Fetcher) {
	t.Helper()

	profile := siteProfile(t, baseURL)
	client := feed.NewClient("test-agent", 5*time.Second, 0)
	return feed.NewReader(client, profile), feed.NewFetcher(client, feed.NewArticleRules(profile.Article))
}

func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.EnsureSchema(); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}
	return db
}

// newCompletionServer answers ranking prompts with the given items and post
// prompts with a fixed post.
func newCompletionServer(t *testing.T, rankedURLs ...string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		prompt := req.Messages[len(req.Messages)-1].Content

		var reply string
		if strings.Contains(prompt, "Choose exactly") {
			items := make([]map[string]string, 0, len(rankedURLs))
			for _, u := range rankedURLs {
				items = append(items, map[string]string{"url": u, "title": "t", "reason": "interesting"})
			}
			data, _ := json.Marshal(map[string]any{"items": items})
			reply = "```json\n" + string(data) + "\n```"
		} else {
			reply = `{"title": "Zen title", "lead": "Zen lead", "body": "Zen body"}`
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": reply}}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

type telegramStub struct {
	server *httptest.Server
	calls  atomic.Int32
}

func newTelegramStub(t *testing.T) *telegramStub {
	t.Helper()

	stub := &telegramStub{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := stub.calls.Add(1)
		json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]any{"message_id": 100 + n},
		})
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func countRows(t *testing.T, db *database.DB, table string) int {
	t.Helper()

	var n int
	if err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
