package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/newspulse/internal/models"
	"github.com/pribylovaa/newspulse/internal/newsapi"
	"github.com/pribylovaa/newspulse/internal/pagination"
	"github.com/pribylovaa/newspulse/pkg/log"
)

// Значения по умолчанию для запросов к провайдеру.
const (
	DefaultCategory = "general"
	DefaultCountry  = "us"
	DefaultSortBy   = "publishedAt"
	DefaultLanguage = "en"
)

// NewsProvider — новостной провайдер (реализуется newsapi.Client).
type NewsProvider interface {
	TopHeadlines(ctx context.Context, p newsapi.TopHeadlinesParams) (*newsapi.Result, error)
	Everything(ctx context.Context, p newsapi.EverythingParams) (*newsapi.Result, error)
}

// CategoryQuery — лента по категории. Пустые поля заменяются значениями по умолчанию.
type CategoryQuery struct {
	Category string
	Page     int
	PageSize int
	SortBy   string
	Country  string
}

// SearchQuery — полнотекстовый поиск у провайдера. Query обязателен.
type SearchQuery struct {
	Query    string
	Page     int
	PageSize int
	SortBy   string
	From     string
	To       string
	Language string
}

// categories — фиксированный каталог, порядок значим.
var categories = []models.Category{
	{ID: "general", Name: "General", Icon: "📰"},
	{ID: "technology", Name: "Technology", Icon: "💻"},
	{ID: "business", Name: "Business", Icon: "💼"},
	{ID: "sports", Name: "Sports", Icon: "⚽"},
	{ID: "health", Name: "Health", Icon: "🏥"},
	{ID: "entertainment", Name: "Entertainment", Icon: "🎬"},
}

// News — шлюз к провайдеру: переводит запросы в top-headlines/everything
// и упаковывает ответ в общий конверт страницы.
type News struct {
	provider NewsProvider
}

// NewNews создает шлюз новостей.
func NewNews(p NewsProvider) *News {
	return &News{provider: p}
}

// ByCategory — GET top-headlines.
// Конверт возвращает запрошенные (после подстановки умолчаний) page/pageSize
// и totalResults провайдера.
func (s *News) ByCategory(ctx context.Context, q CategoryQuery) (*models.Page[models.Article], error) {
	const op = "service/news/ByCategory"

	q.Category = orDefault(q.Category, DefaultCategory)
	q.Country = orDefault(q.Country, DefaultCountry)
	q.SortBy = orDefault(q.SortBy, DefaultSortBy)
	p := pagination.Normalize(q.Page, q.PageSize, 0)

	lg := log.From(ctx).With("op", op, "category", q.Category, "page", p.Page, "page_size", p.PageSize)

	res, err := s.provider.TopHeadlines(ctx, newsapi.TopHeadlinesParams{
		Category: q.Category,
		Country:  q.Country,
		SortBy:   q.SortBy,
		Page:     p.Page,
		PageSize: p.PageSize,
	})
	if err != nil {
		lg.Error("upstream error on TopHeadlines", "err", err)
		return nil, fmt.Errorf("%s: %w", op, toUpstreamError(err))
	}

	return articlesPage(res, p), nil
}

// Search — GET everything. Пустой запрос отклоняется до обращения к провайдеру.
func (s *News) Search(ctx context.Context, q SearchQuery) (*models.Page[models.Article], error) {
	const op = "service/news/Search"

	lg := log.From(ctx).With("op", op, "q", q.Query)

	if strings.TrimSpace(q.Query) == "" {
		lg.Warn("invalid argument: empty query")
		return nil, fmt.Errorf("%s: %w", op, invalid("Search query is required"))
	}

	q.SortBy = orDefault(q.SortBy, DefaultSortBy)
	q.Language = orDefault(q.Language, DefaultLanguage)
	p := pagination.Normalize(q.Page, q.PageSize, 0)

	res, err := s.provider.Everything(ctx, newsapi.EverythingParams{
		Query:    q.Query,
		SortBy:   q.SortBy,
		From:     q.From,
		To:       q.To,
		Language: q.Language,
		Page:     p.Page,
		PageSize: p.PageSize,
	})
	if err != nil {
		lg.Error("upstream error on Everything", "err", err)
		return nil, fmt.Errorf("%s: %w", op, toUpstreamError(err))
	}

	return articlesPage(res, p), nil
}

// Categories возвращает копию фиксированного каталога категорий.
func (s *News) Categories() []models.Category {
	out := make([]models.Category, len(categories))
	copy(out, categories)

	return out
}

func articlesPage(res *newsapi.Result, p pagination.Params) *models.Page[models.Article] {
	items := res.Articles
	if items == nil {
		items = []models.Article{}
	}

	return &models.Page[models.Article]{
		Items:        items,
		TotalResults: res.TotalResults,
		Page:         p.Page,
		PageSize:     p.PageSize,
	}
}

// toUpstreamError приводит ошибку провайдера к *UpstreamError.
func toUpstreamError(err error) *UpstreamError {
	out := &UpstreamError{Message: DefaultUpstreamMessage, Err: err}

	var apiErr *newsapi.APIError
	if errors.As(err, &apiErr) {
		out.Status = apiErr.StatusCode
		if apiErr.Message != "" {
			out.Message = apiErr.Message
		}
	}

	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}

	return v
}
