package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/newspulse/internal/auth"
	apierrors "github.com/pribylovaa/newspulse/internal/errors"
	"github.com/pribylovaa/newspulse/internal/models"
	"github.com/pribylovaa/newspulse/internal/pagination"
	logctx "github.com/pribylovaa/newspulse/pkg/log"
)

const (
	msgBookmarked = "Article bookmarked successfully"
	msgRemoved    = "Bookmark removed successfully"
)

// createBookmarkRequest — конверт разбирается строго, статья — нестрого:
// клиент может прислать статью провайдера целиком (author и т.п.).
type createBookmarkRequest struct {
	Article json.RawMessage `json:"article"`
}

type createBookmarkResponse struct {
	Message  string          `json:"message"`
	Bookmark models.Bookmark `json:"bookmark"`
}

type bookmarksResponse struct {
	Bookmarks    []models.Bookmark `json:"bookmarks"`
	TotalResults int64             `json:"totalResults"`
	Page         int               `json:"page"`
	PageSize     int               `json:"pageSize"`
}

// CreateBookmark — POST /bookmarks, тело {"article": Article}.
func (h *Handlers) CreateBookmark(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var req createBookmarkRequest
	if err := decodeStrict(r, &req); err != nil {
		logctx.From(r.Context()).Warn("bookmark_decode_failed", "err", err.Error())
		apierrors.WriteError(w, r, fmt.Errorf("decode: %w", apierrors.ErrBadRequest))
		return
	}

	var article models.Article
	if len(req.Article) > 0 {
		if err := json.Unmarshal(req.Article, &article); err != nil {
			logctx.From(r.Context()).Warn("bookmark_decode_failed", "err", err.Error())
			apierrors.WriteError(w, r, fmt.Errorf("decode article: %w", apierrors.ErrBadRequest))
			return
		}
	}

	b, err := h.Bookmarks.Create(r.Context(), owner, article)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createBookmarkResponse{Message: msgBookmarked, Bookmark: *b})
}

// ListBookmarks — GET /bookmarks?category&page&pageSize.
func (h *Handlers) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := models.BookmarkFilter{Category: q.Get("category")}
	pageNum, pageSize := pagination.FromQuery(q)

	page, err := h.Bookmarks.List(r.Context(), owner, filter, pageNum, pageSize)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, bookmarksResponse{
		Bookmarks:    page.Items,
		TotalResults: page.TotalResults,
		Page:         page.Page,
		PageSize:     page.PageSize,
	})
}

// CheckBookmark — GET /bookmarks/check?url=.
func (h *Handlers) CheckBookmark(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	st, err := h.Bookmarks.Check(r.Context(), owner, r.URL.Query().Get("url"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, st)
}

// DeleteBookmark — DELETE /bookmarks/{id}.
func (h *Handlers) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	owner, err := auth.OwnerFrom(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Bookmarks.Remove(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: msgRemoved})
}
