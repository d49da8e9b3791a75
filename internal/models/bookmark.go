package models

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark — сохранённая пользователем статья.
// Важно:
//   - ID — идентификатор хранилища (hex ObjectID для MongoDB, UUID для PostgreSQL);
//   - UserID — владелец, единственный, кто видит и удаляет закладку;
//   - Article — снимок статьи на момент создания, с апстримом не синхронизируется;
//   - пара (UserID, Article.URL) уникальна на уровне хранилища.
type Bookmark struct {
	ID        string    `json:"_id"`
	UserID    uuid.UUID `json:"userId"`
	Article   Article   `json:"article"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookmarkFilter — фильтр выдачи закладок.
// Пустая категория или "all" означают отсутствие фильтра.
type BookmarkFilter struct {
	Category string
}

// CategoryAll — значение фильтра «все категории».
const CategoryAll = "all"

// HasCategory сообщает, нужно ли фильтровать по категории.
func (f BookmarkFilter) HasCategory() bool {
	return f.Category != "" && f.Category != CategoryAll
}

// BookmarkStatus — результат проверки «сохранена ли статья».
type BookmarkStatus struct {
	IsBookmarked bool   `json:"isBookmarked"`
	BookmarkID   string `json:"bookmarkId,omitempty"`
}
