package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/newspulse/internal/metrics"
	"github.com/pribylovaa/newspulse/internal/models"
	"github.com/pribylovaa/newspulse/internal/pagination"
)

// Instrumented оборачивает Storage и пишет метрики длительности/исхода каждой операции.
type Instrumented struct {
	next    Storage
	metrics *metrics.Metrics
}

// WithMetrics возвращает next без изменений, если метрики отключены.
func WithMetrics(next Storage, m *metrics.Metrics) Storage {
	if m == nil {
		return next
	}

	return &Instrumented{next: next, metrics: m}
}

// observe не считает ErrNotFound/ErrConflict ошибками хранилища.
func (s *Instrumented) observe(op string, start time.Time, err error) {
	if isExpected(err) {
		err = nil
	}

	s.metrics.ObserveStorage(op, err, time.Since(start))
}

func isExpected(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict)
}

func (s *Instrumented) CreateBookmark(ctx context.Context, b models.Bookmark) (*models.Bookmark, error) {
	start := time.Now()
	out, err := s.next.CreateBookmark(ctx, b)
	s.observe("create", start, err)

	return out, err
}

func (s *Instrumented) ListBookmarks(ctx context.Context, owner uuid.UUID, f models.BookmarkFilter, p pagination.Params) ([]models.Bookmark, int64, error) {
	start := time.Now()
	items, total, err := s.next.ListBookmarks(ctx, owner, f, p)
	s.observe("list", start, err)

	return items, total, err
}

func (s *Instrumented) BookmarkByURL(ctx context.Context, owner uuid.UUID, url string) (*models.Bookmark, error) {
	start := time.Now()
	b, err := s.next.BookmarkByURL(ctx, owner, url)
	s.observe("by_url", start, err)

	return b, err
}

func (s *Instrumented) DeleteBookmark(ctx context.Context, owner uuid.UUID, id string) error {
	start := time.Now()
	err := s.next.DeleteBookmark(ctx, owner, id)
	s.observe("delete", start, err)

	return err
}

func (s *Instrumented) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *Instrumented) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}
