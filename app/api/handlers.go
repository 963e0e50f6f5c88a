package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/habr-zen/app/database"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

func NewHandler(articles database.ArticleRepository, posts database.PostRepository,
	generator GeneratorInterface, channel Channel) *Handler {
	return &Handler{
		articles:  articles,
		posts:     posts,
		generator: generator,
		channel:   channel,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := h.articles.GetArticleCount(c.Request.Context()); err != nil {
		slog.Error("Database error", "operation", "health", "error", err)
		health["status"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	articleCount, err := h.articles.GetArticleCount(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_article_count", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, delivered, err := h.posts.GetPostStats(ctx)
	if err != nil {
		slog.Error("Database error", "operation", "get_post_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articleCount,
		"posts": gin.H{
			"total":       total,
			"delivered":   delivered,
			"undelivered": total - delivered,
		},
	})
}

func (h *Handler) GetPostsFeed(c *gin.Context) {
	posts, err := h.posts.ListPosts(c.Request.Context(), defaultListLimit)
	if err != nil {
		slog.Error("Database error", "operation", "list_posts", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	rss, err := h.generator.Run(h.channel, posts)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(posts)))
	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(rss))
}

func (h *Handler) APIListArticles(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	articles, err := h.articles.ListArticles(c.Request.Context(), limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		items = append(items, ArticleResponse{
			URL:         a.URL,
			Title:       a.Title,
			Author:      a.Author,
			PublishedAt: a.PublishedAt,
			Tags:        a.Tags,
			ContentText: a.ContentText,
			FetchedAt:   a.FetchedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"articles": items, "total": len(items)})
}

func (h *Handler) APIListPosts(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	posts, err := h.posts.ListPosts(c.Request.Context(), limit)
	if err != nil {
		slog.Error("Database error", "operation", "list_posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		items = append(items, PostResponse{
			ArticleURL:        p.ArticleURL,
			Title:             p.Title,
			Lead:              p.Lead,
			Body:              p.Body,
			SelectionReason:   p.SelectionReason,
			Model:             p.Model,
			CreatedAt:         p.CreatedAt,
			TelegramMessageID: p.TelegramMessageID,
			TelegramSentAt:    p.TelegramSentAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"posts": items, "total": len(items)})
}

func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}

	return min(limit, maxListLimit), true
}
