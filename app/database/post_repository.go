package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var _ PostRepository = (*PostRepositoryImpl)(nil)

// PostRepositoryImpl handles database operations for generated Zen posts
type PostRepositoryImpl struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

// RecordPost stores a post unless one already exists for the article url.
// It reports whether a new row was written.
func (r *PostRepositoryImpl) RecordPost(ctx context.Context, post ZenPost) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO zen_posts (
			article_url, zen_title, zen_lead, zen_body, selection_reason, model, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(article_url) DO NOTHING
	`, post.ArticleURL, post.Title, post.Lead, post.Body, post.SelectionReason, post.Model,
		formatTime(post.CreatedAt))
	if err != nil {
		return false, fmt.Errorf("failed to record post: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return n > 0, nil
}

// MarkDelivered stores the Telegram message id for a post. A post that already
// carries a message id keeps it.
func (r *PostRepositoryImpl) MarkDelivered(ctx context.Context, articleURL string, messageID string, sentAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE zen_posts
		SET telegram_message_id = ?, telegram_sent_at = ?
		WHERE article_url = ? AND telegram_message_id IS NULL
	`, messageID, formatTime(sentAt), articleURL)
	if err != nil {
		return fmt.Errorf("failed to mark post delivered: %w", err)
	}

	return nil
}

// GetPost retrieves the post for an article url, nil if there is none
func (r *PostRepositoryImpl) GetPost(ctx context.Context, articleURL string) (*ZenPost, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, article_url, zen_title, COALESCE(zen_lead, ''), zen_body,
		       COALESCE(selection_reason, ''), model, created_at,
		       telegram_message_id, telegram_sent_at
		FROM zen_posts
		WHERE article_url = ?
	`, articleURL)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

// ListPosts returns the newest posts first
func (r *PostRepositoryImpl) ListPosts(ctx context.Context, limit int) ([]ZenPost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, article_url, zen_title, COALESCE(zen_lead, ''), zen_body,
		       COALESCE(selection_reason, ''), model, created_at,
		       telegram_message_id, telegram_sent_at
		FROM zen_posts
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []ZenPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

// GetPostStats returns the total number of posts and how many were delivered
func (r *PostRepositoryImpl) GetPostStats(ctx context.Context) (total, delivered int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(CASE WHEN telegram_message_id IS NOT NULL THEN 1 ELSE 0 END), 0) as delivered
		FROM zen_posts
	`).Scan(&total, &delivered)

	if err != nil {
		return 0, 0, fmt.Errorf("failed to get post stats: %w", err)
	}

	return total, delivered, nil
}

func scanPost(row rowScanner) (*ZenPost, error) {
	var (
		post      ZenPost
		createdAt string
		messageID sql.NullString
		sentAt    sql.NullString
	)

	err := row.Scan(&post.ID, &post.ArticleURL, &post.Title, &post.Lead, &post.Body,
		&post.SelectionReason, &post.Model, &createdAt, &messageID, &sentAt)
	if err != nil {
		return nil, err
	}

	post.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	post.TelegramMessageID = messageID.String
	if sentAt.Valid {
		t, err := parseTime(sentAt.String)
		if err != nil {
			return nil, err
		}
		post.TelegramSentAt = &t
	}

	return &post, nil
}
