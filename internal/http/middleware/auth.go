package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/newspulse/internal/auth"
	apierrors "github.com/pribylovaa/newspulse/internal/errors"
	logctx "github.com/pribylovaa/newspulse/pkg/log"
	"github.com/pribylovaa/newspulse/pkg/redact"
)

// TokenVerifier проверяет access-токен и возвращает владельца (реализуется auth.Verifier).
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// AuthRequired требует Bearer-токен в Authorization:
//   - нет заголовка, не Bearer или пустой токен -> 401;
//   - токен не прошёл проверку -> 401;
//   - иначе кладёт владельца в контекст (auth.WithOwner) и user_id в логгер.
func AuthRequired(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logctx.From(r.Context()).Warn("auth_missing_bearer", "path", r.URL.Path)
				apierrors.WriteError(w, r, auth.ErrNoOwner)
				return
			}

			uid, err := v.Verify(token)
			if err != nil {
				logctx.From(r.Context()).Warn("auth_token_rejected",
					"token", redact.Token(),
					"err", err.Error(),
				)
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := auth.WithOwner(r.Context(), uid)
			ctx = logctx.With(ctx, "user_id", uid.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) || len(header) <= len(prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
