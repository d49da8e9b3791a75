package models

// Page — единый конверт постраничной выдачи для закладок и статей.
// Page/PageSize — запрошенные (после нормализации) значения, TotalResults —
// размер всей отфильтрованной выборки.
type Page[T any] struct {
	Items        []T
	TotalResults int64
	Page         int
	PageSize     int
}
