package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/newspulse/internal/models"
	"github.com/pribylovaa/newspulse/internal/pagination"
	"github.com/pribylovaa/newspulse/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ storage.Storage = (*Mongo)(nil)

// bookmarkDoc — представление закладки в коллекции.
type bookmarkDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	Article   articleDoc         `bson:"article"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type articleDoc struct {
	Title       string    `bson:"title"`
	Description string    `bson:"description,omitempty"`
	URL         string    `bson:"url"`
	URLToImage  string    `bson:"url_to_image,omitempty"`
	PublishedAt time.Time `bson:"published_at"`
	Source      sourceDoc `bson:"source"`
	Category    string    `bson:"category,omitempty"`
	Content     string    `bson:"content,omitempty"`
}

type sourceDoc struct {
	ID   string `bson:"id,omitempty"`
	Name string `bson:"name,omitempty"`
}

// toMS — MongoDB DateTime хранит миллисекунды.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func fromModel(b models.Bookmark) bookmarkDoc {
	a := b.Article

	return bookmarkDoc{
		UserID: b.UserID.String(),
		Article: articleDoc{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			URLToImage:  a.URLToImage,
			PublishedAt: toMS(a.PublishedAt),
			Source:      sourceDoc{ID: a.Source.ID, Name: a.Source.Name},
			Category:    a.Category,
			Content:     a.Content,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (d bookmarkDoc) toModel() (models.Bookmark, error) {
	owner, err := uuid.Parse(d.UserID)
	if err != nil {
		return models.Bookmark{}, fmt.Errorf("bad user_id %q: %w", d.UserID, err)
	}

	a := d.Article

	return models.Bookmark{
		ID:     d.ID.Hex(),
		UserID: owner,
		Article: models.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			URLToImage:  a.URLToImage,
			PublishedAt: a.PublishedAt.UTC(),
			Source:      models.Source{ID: a.Source.ID, Name: a.Source.Name},
			Category:    a.Category,
			Content:     a.Content,
		},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

// ownerFilter — фильтр выдачи владельца с учётом категории.
func ownerFilter(owner uuid.UUID, f models.BookmarkFilter) bson.D {
	filter := bson.D{{Key: "user_id", Value: owner.String()}}
	if f.HasCategory() {
		filter = append(filter, bson.E{Key: "article.category", Value: f.Category})
	}

	return filter
}

// CreateBookmark вставляет закладку.
// Нарушение уникального индекса (user_id, article.url) — storage.ErrConflict.
func (m *Mongo) CreateBookmark(ctx context.Context, b models.Bookmark) (*models.Bookmark, error) {
	const op = "storage/mongo/CreateBookmark"

	now := toMS(time.Now())
	b.CreatedAt = now
	b.UpdatedAt = now

	doc := fromModel(b)

	res, err := m.bookmarks.InsertOne(ctx, doc)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		// Mongo всегда возвращает ObjectID.
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	doc.ID = oid

	out, err := doc.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// ListBookmarks возвращает окно закладок владельца.
// Сортировка: created_at DESC, _id DESC.
func (m *Mongo) ListBookmarks(ctx context.Context, owner uuid.UUID, f models.BookmarkFilter, p pagination.Params) ([]models.Bookmark, int64, error) {
	const op = "storage/mongo/ListBookmarks"

	filter := ownerFilter(owner, f)

	total, err := m.bookmarks.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(p.Offset()).
		SetLimit(p.Limit())

	cur, err := m.bookmarks.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := make([]models.Bookmark, 0, p.PageSize)
	for cur.Next(ctx) {
		var doc bookmarkDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("%s: decode: %w", op, err)
		}

		b, err := doc.toModel()
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}

		items = append(items, b)
	}

	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, total, nil
}

// BookmarkByURL возвращает закладку владельца по URL статьи.
// Если записи нет — storage.ErrNotFound.
func (m *Mongo) BookmarkByURL(ctx context.Context, owner uuid.UUID, url string) (*models.Bookmark, error) {
	const op = "storage/mongo/BookmarkByURL"

	filter := bson.D{
		{Key: "user_id", Value: owner.String()},
		{Key: "article.url", Value: url},
	}

	var doc bookmarkDoc
	if err := m.bookmarks.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := doc.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// DeleteBookmark удаляет закладку владельца.
// Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) DeleteBookmark(ctx context.Context, owner uuid.UUID, id string) error {
	const op = "storage/mongo/DeleteBookmark"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.bookmarks.DeleteOne(ctx, bson.D{
		{Key: "_id", Value: oid},
		{Key: "user_id", Value: owner.String()},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
