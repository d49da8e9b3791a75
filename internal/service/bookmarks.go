package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pribylovaa/newspulse/internal/events"
	"github.com/pribylovaa/newspulse/internal/models"
	"github.com/pribylovaa/newspulse/internal/pagination"
	"github.com/pribylovaa/newspulse/internal/storage"
	"github.com/pribylovaa/newspulse/pkg/log"
)

// Bookmarks — закладки пользователя поверх storage.Storage.
// Состояния между запросами не хранит; уникальность (owner, url) гарантирует хранилище.
type Bookmarks struct {
	storage     storage.Storage
	events      events.Publisher
	validate    *validator.Validate
	maxPageSize int
}

// NewBookmarks создает сервис закладок. pub == nil — события не публикуются.
func NewBookmarks(st storage.Storage, pub events.Publisher, maxPageSize int) *Bookmarks {
	if pub == nil {
		pub = events.Nop{}
	}

	return &Bookmarks{
		storage:     st,
		events:      pub,
		validate:    newValidator(),
		maxPageSize: maxPageSize,
	}
}

// Create сохраняет статью в закладки владельца.
//
// Ошибки:
//   - ErrInvalidArgument — пустой owner, пустые title/url, отсутствует publishedAt;
//   - ErrConflict — статья с таким url уже сохранена владельцем
//     (в том числе при гонке двух параллельных Create);
//   - ErrInternal — прочие ошибки стораджа/БД/контекста.
func (s *Bookmarks) Create(ctx context.Context, owner uuid.UUID, a models.Article) (*models.Bookmark, error) {
	const op = "service/bookmarks/Create"

	lg := log.From(ctx).With("op", op, "user_id", owner.String(), "url", a.URL)

	if owner == uuid.Nil {
		lg.Warn("invalid argument: empty owner")
		return nil, fmt.Errorf("%s: %w", op, invalid("owner is required"))
	}

	if err := validateArticle(s.validate, a); err != nil {
		lg.Warn("invalid argument: article", "err", err)
		if errors.Is(err, ErrInvalidArgument) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	// Быстрый путь: дубликат виден до вставки.
	_, err := s.storage.BookmarkByURL(ctx, owner, a.URL)
	switch {
	case err == nil:
		lg.Warn("already bookmarked")
		return nil, fmt.Errorf("%s: %w", op, ErrConflict)
	case !errors.Is(err, storage.ErrNotFound):
		lg.Error("storage error on BookmarkByURL", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	b, err := s.storage.CreateBookmark(ctx, models.Bookmark{UserID: owner, Article: a})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			lg.Warn("already bookmarked (unique index)")
			return nil, fmt.Errorf("%s: %w", op, ErrConflict)
		}

		lg.Error("storage error on CreateBookmark", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	s.publish(ctx, events.Event{
		Type:       events.BookmarkCreated,
		UserID:     owner,
		BookmarkID: b.ID,
		URL:        b.Article.URL,
		Category:   b.Article.Category,
		Timestamp:  b.CreatedAt,
	})

	lg.Info("bookmark created", "bookmark_id", b.ID)

	return b, nil
}

// List возвращает страницу закладок владельца, новые первыми.
// Пустая категория или "all" — без фильтра. page/pageSize <= 0 заменяются
// значениями по умолчанию, pageSize ограничен сверху maxPageSize.
func (s *Bookmarks) List(ctx context.Context, owner uuid.UUID, f models.BookmarkFilter, page, pageSize int) (*models.Page[models.Bookmark], error) {
	const op = "service/bookmarks/List"

	lg := log.From(ctx).With("op", op, "user_id", owner.String(), "category", f.Category)

	if owner == uuid.Nil {
		lg.Warn("invalid argument: empty owner")
		return nil, fmt.Errorf("%s: %w", op, invalid("owner is required"))
	}

	p := pagination.Normalize(page, pageSize, s.maxPageSize)

	items, total, err := s.storage.ListBookmarks(ctx, owner, f, p)
	if err != nil {
		lg.Error("storage error on ListBookmarks", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if items == nil {
		items = []models.Bookmark{}
	}

	return &models.Page[models.Bookmark]{
		Items:        items,
		TotalResults: total,
		Page:         p.Page,
		PageSize:     p.PageSize,
	}, nil
}

// Check сообщает, сохранена ли статья владельцем. Отсутствие — не ошибка.
func (s *Bookmarks) Check(ctx context.Context, owner uuid.UUID, url string) (models.BookmarkStatus, error) {
	const op = "service/bookmarks/Check"

	lg := log.From(ctx).With("op", op, "user_id", owner.String(), "url", url)

	if owner == uuid.Nil {
		lg.Warn("invalid argument: empty owner")
		return models.BookmarkStatus{}, fmt.Errorf("%s: %w", op, invalid("owner is required"))
	}

	if strings.TrimSpace(url) == "" {
		lg.Warn("invalid argument: empty url")
		return models.BookmarkStatus{}, fmt.Errorf("%s: %w", op, invalid("URL is required"))
	}

	b, err := s.storage.BookmarkByURL(ctx, owner, url)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.BookmarkStatus{IsBookmarked: false}, nil
		}

		lg.Error("storage error on BookmarkByURL", "err", err)
		return models.BookmarkStatus{}, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return models.BookmarkStatus{IsBookmarked: true, BookmarkID: b.ID}, nil
}

// Remove удаляет закладку владельца.
// Неизвестный, некорректный и чужой id неразличимы: ErrNotFound.
func (s *Bookmarks) Remove(ctx context.Context, owner uuid.UUID, id string) error {
	const op = "service/bookmarks/Remove"

	lg := log.From(ctx).With("op", op, "user_id", owner.String(), "bookmark_id", id)

	if owner == uuid.Nil {
		lg.Warn("invalid argument: empty owner")
		return fmt.Errorf("%s: %w", op, invalid("owner is required"))
	}

	if strings.TrimSpace(id) == "" {
		lg.Warn("not found: empty id")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if err := s.storage.DeleteBookmark(ctx, owner, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("bookmark not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on DeleteBookmark", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	s.publish(ctx, events.Event{
		Type:       events.BookmarkDeleted,
		UserID:     owner,
		BookmarkID: id,
	})

	lg.Info("bookmark removed")

	return nil
}

// publish — best-effort: сбой шины не отменяет уже выполненную операцию.
func (s *Bookmarks) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		log.From(ctx).Warn("event publish failed", "type", string(e.Type), "err", err)
	}
}
