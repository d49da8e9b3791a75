// handlers — REST-эндпойнты newspulse поверх сервисного слоя.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/newspulse/internal/models"
	"github.com/pribylovaa/newspulse/internal/service"
)

// NewsService — шлюз новостей (реализуется *service.News).
type NewsService interface {
	ByCategory(ctx context.Context, q service.CategoryQuery) (*models.Page[models.Article], error)
	Search(ctx context.Context, q service.SearchQuery) (*models.Page[models.Article], error)
	Categories() []models.Category
}

// BookmarkService — закладки пользователя (реализуется *service.Bookmarks).
type BookmarkService interface {
	Create(ctx context.Context, owner uuid.UUID, a models.Article) (*models.Bookmark, error)
	List(ctx context.Context, owner uuid.UUID, f models.BookmarkFilter, page, pageSize int) (*models.Page[models.Bookmark], error)
	Check(ctx context.Context, owner uuid.UUID, url string) (models.BookmarkStatus, error)
	Remove(ctx context.Context, owner uuid.UUID, id string) error
}

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	News      NewsService
	Bookmarks BookmarkService
	// BasePath — префикс API для карты эндпойнтов в баннере.
	BasePath string

	now func() time.Time
}

func New(news NewsService, bookmarks BookmarkService, basePath string) *Handlers {
	return &Handlers{
		News:      news,
		Bookmarks: bookmarks,
		BasePath:  basePath,
		now:       time.Now,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

type messageResponse struct {
	Message string `json:"message"`
}
