package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

var _ ArticleRepository = (*ArticleRepositoryImpl)(nil)

// ArticleRepositoryImpl handles database operations for articles
type ArticleRepositoryImpl struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepositoryImpl {
	return &ArticleRepositoryImpl{db: db}
}

// UpsertArticles inserts articles whose url is not stored yet and returns
// the number of rows actually inserted. Existing urls are left untouched.
func (r *ArticleRepositoryImpl) UpsertArticles(ctx context.Context, articles []Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (
			url, title, author, published_at, content_html, content_text, tags_json, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare article insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, article := range articles {
		tags := article.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return 0, fmt.Errorf("failed to encode tags for %s: %w", article.URL, err)
		}

		result, err := stmt.ExecContext(ctx,
			article.URL, article.Title, nullString(article.Author), nullString(article.PublishedAt),
			article.ContentHTML, article.ContentText, string(tagsJSON), formatTime(article.FetchedAt))
		if err != nil {
			return 0, fmt.Errorf("failed to insert article %s: %w", article.URL, err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get affected rows: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit articles: %w", err)
	}

	return inserted, nil
}

// GetArticle retrieves an article by url, nil if it is not stored
func (r *ArticleRepositoryImpl) GetArticle(ctx context.Context, url string) (*Article, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, url, title, author, published_at, COALESCE(content_html, ''),
		       COALESCE(content_text, ''), COALESCE(tags_json, '[]'), fetched_at
		FROM articles
		WHERE url = ?
	`, url)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return article, nil
}

// ListArticles returns the most recently inserted articles first
func (r *ArticleRepositoryImpl) ListArticles(ctx context.Context, limit int) ([]Article, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, url, title, author, published_at, COALESCE(content_html, ''),
		       COALESCE(content_text, ''), COALESCE(tags_json, '[]'), fetched_at
		FROM articles
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

func (r *ArticleRepositoryImpl) GetArticleCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*Article, error) {
	var (
		article     Article
		author      sql.NullString
		publishedAt sql.NullString
		tagsJSON    string
		fetchedAt   string
	)

	err := row.Scan(&article.ID, &article.URL, &article.Title, &author, &publishedAt,
		&article.ContentHTML, &article.ContentText, &tagsJSON, &fetchedAt)
	if err != nil {
		return nil, err
	}

	article.Author = author.String
	article.PublishedAt = publishedAt.String

	if err := json.Unmarshal([]byte(tagsJSON), &article.Tags); err != nil {
		return nil, fmt.Errorf("invalid tags for %s: %w", article.URL, err)
	}

	article.FetchedAt, err = parseTime(fetchedAt)
	if err != nil {
		return nil, err
	}

	return &article, nil
}
