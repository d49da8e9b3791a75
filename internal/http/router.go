package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	apierrors "github.com/pribylovaa/newspulse/internal/errors"
	"github.com/pribylovaa/newspulse/internal/http/handlers"
	"github.com/pribylovaa/newspulse/internal/http/middleware"
	"github.com/pribylovaa/newspulse/internal/metrics"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.

	// AllowedOrigins — явный allow-list CORS; AllowSuffix — разрешённый суффикс хоста.
	AllowedOrigins []string
	AllowSuffix    string

	// RateLimiter == nil — без ограничения частоты.
	RateLimiter *middleware.RateLimiter
	Verifier    middleware.TokenVerifier
	Metrics     *metrics.Metrics
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		chimw.RealIP,                    // X-Forwarded-For/X-Real-IP -> RemoteAddr (для лимитера)
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(opts.Metrics),
		corsHandler(opts.AllowedOrigins, opts.AllowSuffix),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	root.NotFound(notFound)
	root.MethodNotAllowed(methodNotAllowed)

	root.Get("/", h.Banner)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		sub.NotFound(notFound)
		sub.MethodNotAllowed(methodNotAllowed)
		registerRoutes(sub, h, opts)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, opts)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, opts Options) {
	r.Group(func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(opts.RateLimiter.Middleware())
		}

		r.Get("/health", h.Health)

		// news
		r.Get("/news", h.ListNews)
		r.Get("/news/search", h.SearchNews)
		r.Get("/news/categories", h.ListCategories)

		// bookmarks
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRequired(opts.Verifier))

			r.Post("/bookmarks", h.CreateBookmark)
			r.Get("/bookmarks", h.ListBookmarks)
			r.Get("/bookmarks/check", h.CheckBookmark)
			r.Delete("/bookmarks/{id}", h.DeleteBookmark)
		})
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteError(w, r, apierrors.ErrRouteNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteError(w, r, apierrors.ErrMethodNotAllowed)
}

// corsHandler разрешает origin из allow-list и любые хосты с суффиксом suffix
// (например, превью-деплои *.vercel.app). Запросы с cookies/Authorization разрешены.
func corsHandler(allowed []string, suffix string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return originAllowed(origin, allowed, suffix)
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

func originAllowed(origin string, allowed []string, suffix string) bool {
	if origin == "" {
		return false
	}
	if slices.Contains(allowed, origin) {
		return true
	}
	if suffix == "" {
		return false
	}

	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return false
	}

	host := u.Hostname()
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}
