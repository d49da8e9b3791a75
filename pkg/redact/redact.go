// redact маскирует секреты перед записью в логи: API-ключи в URL апстрима и bearer-токены.
package redact

import (
	"net/url"
	"strings"
)

// secretParams — query-параметры, значения которых нельзя писать в лог.
var secretParams = []string{"apikey", "api_key", "token", "access_token"}

// URL возвращает строку URL, в которой значения секретных query-параметров
// заменены на [REDACTED]. Если URL не разбирается — возвращается "***".
//
// Примеры:
//
//	"https://newsapi.org/v2/everything?q=go&apiKey=abc" -> "https://newsapi.org/v2/everything?apiKey=%5BREDACTED%5D&q=go"
//	"::bad"                                              -> "***"
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}

	q := u.Query()
	changed := false
	for key := range q {
		for _, secret := range secretParams {
			if strings.EqualFold(key, secret) {
				q.Set(key, "[REDACTED]")
				changed = true
			}
		}
	}

	if changed {
		u.RawQuery = q.Encode()
	}

	return u.String()
}

// Token возвращает литерал-заглушку для токена в логах.
func Token() string { return "[REDACTED_TOKEN]" }
