package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/newspulse/internal/models"
	"github.com/pribylovaa/newspulse/internal/pagination"
	"github.com/pribylovaa/newspulse/internal/storage"
)

const bookmarkColumns = `id, user_id, title, description, url, url_to_image, published_at,
		source_id, source_name, category, content, created_at, updated_at`

// CreateBookmark сохраняет закладку.
// Нарушение UNIQUE (user_id, url) — storage.ErrConflict.
func (s *Storage) CreateBookmark(ctx context.Context, b models.Bookmark) (*models.Bookmark, error) {
	const op = "storage.postgres.CreateBookmark"

	now := time.Now().UTC().Truncate(time.Millisecond)

	// UUIDv7 монотонен в пределах процесса: id DESC различает закладки одной миллисекунды.
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%s: new id: %w", op, err)
	}

	// timestamptz хранит микросекунды.
	publishedAt := b.Article.PublishedAt.UTC().Truncate(time.Microsecond)

	query := `
		INSERT INTO bookmarks(` + bookmarkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	a := b.Article
	_, err = s.db.Exec(ctx, query,
		id,
		b.UserID,
		a.Title,
		a.Description,
		a.URL,
		a.URLToImage,
		publishedAt,
		a.Source.ID,
		a.Source.Name,
		a.Category,
		a.Content,
		now,
		now,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b.ID = id.String()
	b.Article.PublishedAt = publishedAt
	b.CreatedAt = now
	b.UpdatedAt = now

	return &b, nil
}

// ListBookmarks возвращает окно закладок владельца.
// Сортировка: created_at DESC, id DESC.
func (s *Storage) ListBookmarks(ctx context.Context, owner uuid.UUID, f models.BookmarkFilter, p pagination.Params) ([]models.Bookmark, int64, error) {
	const op = "storage.postgres.ListBookmarks"

	where := "WHERE user_id = $1"
	args := []any{owner}
	if f.HasCategory() {
		where += " AND category = $2"
		args = append(args, f.Category)
	}

	var total int64
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM bookmarks "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM bookmarks
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, bookmarkColumns, where, len(args)+1, len(args)+2)

	rows, err := s.db.Query(ctx, query, append(args, p.Limit(), p.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	items := make([]models.Bookmark, 0, p.PageSize)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan: %w", op, err)
		}

		items = append(items, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: rows: %w", op, err)
	}

	return items, total, nil
}

// BookmarkByURL находит закладку владельца по URL статьи.
func (s *Storage) BookmarkByURL(ctx context.Context, owner uuid.UUID, url string) (*models.Bookmark, error) {
	const op = "storage.postgres.BookmarkByURL"

	query := `
		SELECT ` + bookmarkColumns + `
		FROM bookmarks
		WHERE user_id = $1 AND url = $2
	`

	b, err := scanBookmark(s.db.QueryRow(ctx, query, owner, url))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// DeleteBookmark удаляет закладку владельца.
// Некорректный UUID трактуется как «нет такой записи».
func (s *Storage) DeleteBookmark(ctx context.Context, owner uuid.UUID, id string) error {
	const op = "storage.postgres.DeleteBookmark"

	bid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`, bid, owner)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func scanBookmark(row pgx.Row) (*models.Bookmark, error) {
	var (
		b  models.Bookmark
		id uuid.UUID
	)

	err := row.Scan(
		&id,
		&b.UserID,
		&b.Article.Title,
		&b.Article.Description,
		&b.Article.URL,
		&b.Article.URLToImage,
		&b.Article.PublishedAt,
		&b.Article.Source.ID,
		&b.Article.Source.Name,
		&b.Article.Category,
		&b.Article.Content,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.ID = id.String()
	b.Article.PublishedAt = b.Article.PublishedAt.UTC()
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()

	return &b, nil
}
