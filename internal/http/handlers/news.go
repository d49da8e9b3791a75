package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/newspulse/internal/errors"
	"github.com/pribylovaa/newspulse/internal/models"
	"github.com/pribylovaa/newspulse/internal/pagination"
	"github.com/pribylovaa/newspulse/internal/service"
)

type articlesResponse struct {
	Articles     []models.Article `json:"articles"`
	TotalResults int64            `json:"totalResults"`
	Page         int              `json:"page"`
	PageSize     int              `json:"pageSize"`
}

type categoriesResponse struct {
	Categories []models.Category `json:"categories"`
}

func articlesFromPage(p *models.Page[models.Article]) articlesResponse {
	return articlesResponse{
		Articles:     p.Items,
		TotalResults: p.TotalResults,
		Page:         p.Page,
		PageSize:     p.PageSize,
	}
}

// ListNews — GET /news?category&page&pageSize&sortBy&country.
func (h *Handlers) ListNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pageNum, pageSize := pagination.FromQuery(q)

	page, err := h.News.ByCategory(r.Context(), service.CategoryQuery{
		Category: q.Get("category"),
		Page:     pageNum,
		PageSize: pageSize,
		SortBy:   q.Get("sortBy"),
		Country:  q.Get("country"),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articlesFromPage(page))
}

// SearchNews — GET /news/search?q&page&pageSize&sortBy&from&to&language.
func (h *Handlers) SearchNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pageNum, pageSize := pagination.FromQuery(q)

	page, err := h.News.Search(r.Context(), service.SearchQuery{
		Query:    q.Get("q"),
		Page:     pageNum,
		PageSize: pageSize,
		SortBy:   q.Get("sortBy"),
		From:     q.Get("from"),
		To:       q.Get("to"),
		Language: q.Get("language"),
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articlesFromPage(page))
}

// ListCategories — GET /news/categories.
func (h *Handlers) ListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: h.News.Categories()})
}
