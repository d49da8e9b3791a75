package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/newspulse/internal/auth"
	"github.com/pribylovaa/newspulse/internal/http/handlers"
	"github.com/pribylovaa/newspulse/internal/http/middleware"
	"github.com/pribylovaa/newspulse/internal/metrics"
	"github.com/pribylovaa/newspulse/internal/models"
	"github.com/pribylovaa/newspulse/internal/service"
)

const testSecret = "router-test-secret"

type fakeNews struct{}

func (fakeNews) ByCategory(context.Context, service.CategoryQuery) (*models.Page[models.Article], error) {
	return &models.Page[models.Article]{Items: []models.Article{}, Page: 1, PageSize: 20}, nil
}

func (fakeNews) Search(context.Context, service.SearchQuery) (*models.Page[models.Article], error) {
	return &models.Page[models.Article]{Items: []models.Article{}, Page: 1, PageSize: 20}, nil
}

func (fakeNews) Categories() []models.Category { return nil }

type fakeBookmarks struct {
	owner uuid.UUID
}

func (f *fakeBookmarks) Create(context.Context, uuid.UUID, models.Article) (*models.Bookmark, error) {
	return &models.Bookmark{}, nil
}

func (f *fakeBookmarks) List(_ context.Context, owner uuid.UUID, _ models.BookmarkFilter, _, _ int) (*models.Page[models.Bookmark], error) {
	f.owner = owner
	return &models.Page[models.Bookmark]{Items: []models.Bookmark{}, Page: 1, PageSize: 20}, nil
}

func (f *fakeBookmarks) Check(context.Context, uuid.UUID, string) (models.BookmarkStatus, error) {
	return models.BookmarkStatus{}, nil
}

func (f *fakeBookmarks) Remove(context.Context, uuid.UUID, string) error { return nil }

func newTestRouter(t *testing.T, mutate func(*Options)) (http.Handler, *fakeBookmarks) {
	t.Helper()

	bm := &fakeBookmarks{}
	opts := Options{
		Timeout:        time.Second,
		BasePath:       "/api",
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		AllowSuffix:    "vercel.app",
		Verifier:       auth.NewVerifier(testSecret, "", nil),
	}
	if mutate != nil {
		mutate(&opts)
	}

	return NewRouter(handlers.New(fakeNews{}, bm, opts.BasePath), opts), bm
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

type errBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func decodeErr(t *testing.T, rr *httptest.ResponseRecorder) errBody {
	t.Helper()

	var b errBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &b), rr.Body.String())
	return b
}

func TestRouter_BannerAndHealth(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "NewsPulse API is running!")
	require.NotEmpty(t, rr.Header().Get(middleware.HeaderRequestID))

	rr = serve(h, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"status":"OK"`)
}

func TestRouter_PublicNewsRoutes(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	for _, path := range []string{"/api/news", "/api/news/search?q=go", "/api/news/categories"} {
		rr := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rr.Code, path)
	}
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	for _, path := range []string{"/nope", "/api/nope"} {
		rr := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rr.Code, path)

		b := decodeErr(t, rr)
		require.Equal(t, "not_found", b.Error.Code)
		require.Equal(t, "Route not found", b.Error.Message)
		require.NotEmpty(t, b.Error.RequestID)
	}

	rr := serve(h, httptest.NewRequest(http.MethodPut, "/api/news", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	require.Equal(t, "method_not_allowed", decodeErr(t, rr).Error.Code)
}

func TestRouter_BookmarksRequireBearer(t *testing.T) {
	h, bm := newTestRouter(t, nil)

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "unauthenticated", decodeErr(t, rr).Error.Code)

	uid := uuid.New()
	token, err := auth.Sign(testSecret, "", nil, uid, time.Minute, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = serve(h, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, uid, bm.owner)
}

func TestRouter_CORS(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/bookmarks", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Authorization,Content-Type")
		return serve(h, req)
	}

	for _, origin := range []string{"http://localhost:5173", "https://newspulse-git-main.vercel.app"} {
		rr := preflight(origin)
		require.Equal(t, origin, rr.Header().Get("Access-Control-Allow-Origin"), origin)
		require.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	}

	rr := preflight("https://evil.example.com")
	require.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimitOnlyUnderBasePath(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h, _ := newTestRouter(t, func(o *Options) {
		o.RateLimiter = middleware.NewRateLimiter(ctx, 1, 1)
	})

	get := func(path, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Forwarded-For", ip)
		return serve(h, req)
	}

	require.Equal(t, http.StatusOK, get("/api/health", "10.1.1.1").Code)
	rr := get("/api/health", "10.1.1.1")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	require.Equal(t, "rate_limited", decodeErr(t, rr).Error.Code)

	// другой клиент за прокси — своё ведро
	require.Equal(t, http.StatusOK, get("/api/health", "10.1.1.2").Code)

	// корень не лимитируется
	require.Equal(t, http.StatusOK, get("/", "10.1.1.1").Code)
}

func TestRouter_MetricsUseMountedPattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	h, _ := newTestRouter(t, func(o *Options) { o.Metrics = m })

	serve(h, httptest.NewRequest(http.MethodGet, "/api/news?category=sports", nil))

	require.InDelta(t, 1, testutil.ToFloat64(
		m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/news", "200")), 1e-9)
}

func TestRouter_NoBasePath(t *testing.T) {
	h, _ := newTestRouter(t, func(o *Options) { o.BasePath = "" })

	require.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	require.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"http://localhost:5173"}

	tcs := []struct {
		origin string
		suffix string
		want   bool
	}{
		{"http://localhost:5173", "vercel.app", true},
		{"http://localhost:5174", "vercel.app", false},
		{"https://app.vercel.app", "vercel.app", true},
		{"https://vercel.app", "vercel.app", true},
		{"https://notvercel.app", "vercel.app", false},
		{"https://vercel.app.evil.com", "vercel.app", false},
		{"https://app.vercel.app", "", false},
		{"", "vercel.app", false},
		{"::bad", "vercel.app", false},
	}

	for _, tc := range tcs {
		require.Equal(t, tc.want, originAllowed(tc.origin, allowed, tc.suffix), tc.origin)
	}
}
