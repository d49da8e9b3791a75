// pagination — общий для закладок и ленты новостей контракт постраничной выдачи:
// 1-based номер страницы, размер окна и вычисление смещения.
//
// Контракт намеренно «мягкий»: некорректные значения не отклоняются, а заменяются
// значениями по умолчанию.
package pagination

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPage — номер страницы по умолчанию.
	DefaultPage = 1
	// DefaultPageSize — размер страницы по умолчанию.
	DefaultPageSize = 20
)

// Params — нормализованные параметры страницы.
type Params struct {
	Page     int
	PageSize int
}

// Normalize приводит запрошенные значения к допустимым:
//   - page <= 0 -> DefaultPage;
//   - pageSize <= 0 -> DefaultPageSize;
//   - maxSize > 0 и pageSize > maxSize -> maxSize.
func Normalize(page, pageSize, maxSize int) Params {
	if page <= 0 {
		page = DefaultPage
	}

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	if maxSize > 0 && pageSize > maxSize {
		pageSize = maxSize
	}

	return Params{Page: page, PageSize: pageSize}
}

// Offset возвращает число пропускаемых записей: (page - 1) * pageSize.
func (p Params) Offset() int64 {
	return int64(p.Page-1) * int64(p.PageSize)
}

// Limit возвращает размер окна в виде, удобном драйверам БД.
func (p Params) Limit() int64 {
	return int64(p.PageSize)
}

// FromQuery читает page/pageSize из query-строки.
// Отсутствующие и нечисловые значения возвращаются как 0 — их заменит Normalize.
func FromQuery(q url.Values) (page, pageSize int) {
	return atoiOrZero(q.Get("page")), atoiOrZero(q.Get("pageSize"))
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}

	return n
}
