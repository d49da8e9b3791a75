// service содержит бизнес-логику newspulse: закладки пользователя и шлюз к новостному провайдеру.
package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict — статья уже сохранена этим пользователем.
	ErrConflict = errors.New("conflict")
	// ErrNotFound — закладка отсутствует или принадлежит другому пользователю.
	ErrNotFound = errors.New("not found")
	// ErrUpstream — новостной провайдер недоступен или вернул ошибку.
	ErrUpstream = errors.New("upstream error")
	// ErrInternal — внутренняя ошибка (стораж/БД/контекст/и т.д.).
	ErrInternal = errors.New("internal")
)

// DefaultUpstreamMessage — сообщение, когда провайдер не сообщил причину.
const DefaultUpstreamMessage = "News service unavailable"

// ValidationError — ErrInvalidArgument с безопасным для клиента описанием.
// Fields: имя JSON-поля -> причина (может быть пустым).
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// newFieldsError собирает сообщение из причин по полям в детерминированном порядке.
func newFieldsError(prefix string, fields map[string]string) *ValidationError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fields[name])
	}

	return &ValidationError{
		Message: prefix + ": " + strings.Join(parts, ", "),
		Fields:  fields,
	}
}

// UpstreamError — отказ новостного провайдера.
// Status — HTTP-статус ответа провайдера (0 — транспортная ошибка).
// Message — сообщение провайдера либо DefaultUpstreamMessage.
type UpstreamError struct {
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return "upstream: " + e.Message + ": " + e.Err.Error()
	}

	return "upstream: " + e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
