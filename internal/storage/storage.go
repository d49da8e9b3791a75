//go:generate mockgen -source=storage.go -destination=../../mocks/storage.go -package=mocks

package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pribylovaa/newspulse/internal/models"
	"github.com/pribylovaa/newspulse/internal/pagination"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище (или принадлежит другому владельцу).
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности (user_id, article.url).
	ErrConflict = errors.New("conflict")
)

// Storage описывает операции над закладками.
// Все операции ограничены владельцем: чужие закладки не видны и не удаляются.
type Storage interface {
	// CreateBookmark сохраняет закладку.
	// Входной Bookmark должен содержать UserID и Article.
	// ID, CreatedAt, UpdatedAt выставляются хранилищем.
	// Повтор пары (UserID, Article.URL) — ErrConflict.
	CreateBookmark(ctx context.Context, b models.Bookmark) (*models.Bookmark, error)

	// ListBookmarks возвращает окно закладок владельца и общий размер отфильтрованной выборки.
	// Сортировка: created_at DESC, id DESC.
	ListBookmarks(ctx context.Context, owner uuid.UUID, f models.BookmarkFilter, p pagination.Params) ([]models.Bookmark, int64, error)

	// BookmarkByURL ищет закладку владельца по URL статьи.
	// Если записи нет — ErrNotFound.
	BookmarkByURL(ctx context.Context, owner uuid.UUID, url string) (*models.Bookmark, error)

	// DeleteBookmark удаляет закладку владельца.
	// Неизвестный, некорректный или чужой id — ErrNotFound.
	DeleteBookmark(ctx context.Context, owner uuid.UUID, id string) error

	// Ping проверяет доступность хранилища (readiness).
	Ping(ctx context.Context) error

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
