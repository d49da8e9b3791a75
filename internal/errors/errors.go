// errors стандартизирует ответы об ошибках HTTP-слоя newspulse.
// На вход он принимает ошибку сервисного слоя (или мидлвара),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Источник истинности по маппингу: sentinel-ошибки internal/service и internal/auth.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/newspulse/internal/auth"
	"github.com/pribylovaa/newspulse/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// Ошибки, которые возникают вне сервисного слоя (роутер, мидлвары).
var (
	ErrRateLimited      = stderrors.New("rate limited")
	ErrRouteNotFound    = stderrors.New("route not found")
	ErrMethodNotAllowed = stderrors.New("method not allowed")
	ErrBadRequest       = stderrors.New("bad request")
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ для фронта.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
//   - *service.ValidationError - 400 с его Message.
//   - *service.UpstreamError - 502 с сообщением провайдера.
//   - прочие известные sentinel-ошибки - по таблице fromSentinel().
//   - всё остальное - 500/internal без деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, response("internal", "internal error")
	}

	var verr *service.ValidationError
	if stderrors.As(err, &verr) {
		return http.StatusBadRequest, response("invalid_argument", verr.Message)
	}

	var uerr *service.UpstreamError
	if stderrors.As(err, &uerr) {
		msg := uerr.Message
		if msg == "" {
			msg = service.DefaultUpstreamMessage
		}
		return http.StatusBadGateway, response("upstream_error", msg)
	}

	httpStatus, code, msg := fromSentinel(err)
	return httpStatus, response(code, msg)
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// fromSentinel — маппинг sentinel-ошибок -> HTTP/FE-код/сообщение:
//   - ErrInvalidArgument, ErrBadRequest (битое тело запроса) -> 400
//   - ErrConflict -> 400 already_exists (дубликат закладки; фронт ждёт 400, не 409)
//   - ErrNotFound -> 404
//   - auth.ErrInvalidToken/ErrTokenExpired/ErrNoOwner -> 401
//   - ErrUpstream без деталей -> 502
//   - ErrRateLimited -> 429
//   - ErrRouteNotFound -> 404, ErrMethodNotAllowed -> 405
//   - context.Canceled -> 499, context.DeadlineExceeded -> 504
//   - прочее -> 500/internal
func fromSentinel(err error) (int, string, string) {
	switch {
	case stderrors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case stderrors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "invalid_argument", "invalid request body"
	case stderrors.Is(err, service.ErrConflict):
		return http.StatusBadRequest, "already_exists", "Article already bookmarked"
	case stderrors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "Bookmark not found"
	case stderrors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "unauthenticated", "token expired"
	case stderrors.Is(err, auth.ErrInvalidToken), stderrors.Is(err, auth.ErrNoOwner):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case stderrors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway, "upstream_error", service.DefaultUpstreamMessage
	case stderrors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited", "Too many requests, please try again later."
	case stderrors.Is(err, ErrRouteNotFound):
		return http.StatusNotFound, "not_found", "Route not found"
	case stderrors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed"
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "Server error"
	}
}

func response(code, msg string) ErrorResponse {
	return ErrorResponse{Error: APIError{Code: code, Message: msg}}
}
