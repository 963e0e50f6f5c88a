package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/habr-zen/app/database"
	"github.com/lysyi3m/habr-zen/app/telegram"
)

type Sender interface {
	Send(ctx context.Context, text string) (string, error)
}

type Result struct {
	Inserted  bool
	Delivered bool
}

type Publisher struct {
	posts  database.PostRepository
	sender Sender
	now    func() time.Time
}

// New returns a publisher. A nil sender disables delivery; posts are still
// recorded.
func New(posts database.PostRepository, sender Sender) *Publisher {
	return &Publisher{
		posts:  posts,
		sender: sender,
		now:    time.Now,
	}
}

// Publish records the post at most once per article url and delivers the
// stored row unless it already carries a message id. A failed delivery is
// logged and left for a later run; only store errors are returned.
func (p *Publisher) Publish(ctx context.Context, post database.ZenPost) (Result, error) {
	var result Result

	inserted, err := p.posts.RecordPost(ctx, post)
	if err != nil {
		return result, err
	}
	result.Inserted = inserted

	if p.sender == nil {
		return result, nil
	}

	stored, err := p.posts.GetPost(ctx, post.ArticleURL)
	if err != nil {
		return result, err
	}
	if stored == nil {
		return result, fmt.Errorf("post for %s missing after insert", post.ArticleURL)
	}
	if stored.Delivered() {
		slog.Debug("Post already delivered", "url", stored.ArticleURL, "message_id", stored.TelegramMessageID)
		return result, nil
	}

	message := telegram.ComposeMessage(stored.Title, stored.Lead, stored.Body, stored.ArticleURL)
	messageID, err := p.sender.Send(ctx, message)
	if err != nil {
		slog.Warn("Failed to deliver post", "url", stored.ArticleURL, "error", err)
		return result, nil
	}

	if err := p.posts.MarkDelivered(ctx, stored.ArticleURL, messageID, p.now().UTC()); err != nil {
		return result, err
	}
	result.Delivered = true

	slog.Info("Post delivered", "url", stored.ArticleURL, "message_id", messageID)
	return result, nil
}
