// newsapi — HTTP-клиент NewsAPI.org-совместимого провайдера (top-headlines, everything).
// Без повторов и кэширования: каждый вызов — ровно один запрос к провайдеру.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pribylovaa/newspulse/internal/metrics"
	"github.com/pribylovaa/newspulse/internal/models"
	"github.com/pribylovaa/newspulse/pkg/log"
	"github.com/pribylovaa/newspulse/pkg/redact"
)

const (
	endpointTopHeadlines = "top-headlines"
	endpointEverything   = "everything"

	// maxBodySize — верхняя граница читаемого ответа провайдера.
	maxBodySize = 8 << 20
)

// Client — клиент провайдера. API-ключ передаётся query-параметром apiKey.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	metrics *metrics.Metrics
}

// New создает клиента. httpClient == nil — http.Client с таймаутом 10s.
func New(baseURL, apiKey string, httpClient *http.Client, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
		metrics: m,
	}
}

// TopHeadlinesParams — параметры /top-headlines. Пустые строки и нули не передаются.
type TopHeadlinesParams struct {
	Category string
	Country  string
	SortBy   string
	Page     int
	PageSize int
}

// EverythingParams — параметры /everything. From/To передаются как есть (ISO 8601).
type EverythingParams struct {
	Query    string
	SortBy   string
	From     string
	To       string
	Language string
	Page     int
	PageSize int
}

// Result — успешный ответ провайдера.
type Result struct {
	Status       string           `json:"status"`
	TotalResults int64            `json:"totalResults"`
	Articles     []models.Article `json:"articles"`
}

// APIError — отказ провайдера.
// StatusCode == 0 — запрос не дошёл (сеть, таймаут, отмена контекста).
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("newsapi")
	if e.StatusCode != 0 {
		b.WriteString(": status ")
		b.WriteString(strconv.Itoa(e.StatusCode))
	}
	if e.Code != "" {
		b.WriteString(": " + e.Code)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}

	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// errorBody — тело ответа со status:"error".
type errorBody struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TopHeadlines — GET {base}/top-headlines.
func (c *Client) TopHeadlines(ctx context.Context, p TopHeadlinesParams) (*Result, error) {
	q := url.Values{}
	setNonEmpty(q, "category", p.Category)
	setNonEmpty(q, "country", p.Country)
	setNonEmpty(q, "sortBy", p.SortBy)
	setPositive(q, "page", p.Page)
	setPositive(q, "pageSize", p.PageSize)

	return c.get(ctx, endpointTopHeadlines, q)
}

// Everything — GET {base}/everything.
func (c *Client) Everything(ctx context.Context, p EverythingParams) (*Result, error) {
	q := url.Values{}
	setNonEmpty(q, "q", p.Query)
	setNonEmpty(q, "sortBy", p.SortBy)
	setNonEmpty(q, "from", p.From)
	setNonEmpty(q, "to", p.To)
	setNonEmpty(q, "language", p.Language)
	setPositive(q, "page", p.Page)
	setPositive(q, "pageSize", p.PageSize)

	return c.get(ctx, endpointEverything, q)
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values) (res *Result, err error) {
	const op = "newsapi.get"

	start := time.Now()
	defer func() { c.metrics.ObserveUpstream(endpoint, err, time.Since(start)) }()

	q.Set("apiKey", c.apiKey)
	target := c.baseURL + "/" + endpoint + "?" + q.Encode()

	lg := log.From(ctx).With("op", op, "endpoint", endpoint, "url", redact.URL(target))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &APIError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		err = stripURL(err)
		lg.Warn("upstream_request_failed", "err", err.Error())
		return nil, &APIError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		lg.Warn("upstream_read_failed", "status", resp.StatusCode, "err", err.Error())
		return nil, &APIError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(body, &eb)
		lg.Warn("upstream_error_status", "status", resp.StatusCode, "code", eb.Code, "message", eb.Message)
		return nil, &APIError{StatusCode: resp.StatusCode, Code: eb.Code, Message: eb.Message}
	}

	var raw struct {
		Status       string           `json:"status"`
		Code         string           `json:"code"`
		Message      string           `json:"message"`
		TotalResults int64            `json:"totalResults"`
		Articles     []models.Article `json:"articles"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		lg.Warn("upstream_decode_failed", "status", resp.StatusCode, "err", err.Error())
		return nil, &APIError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}

	if raw.Status == "error" {
		lg.Warn("upstream_error_body", "code", raw.Code, "message", raw.Message)
		return nil, &APIError{StatusCode: resp.StatusCode, Code: raw.Code, Message: raw.Message}
	}

	lg.Debug("upstream_ok", "status", resp.StatusCode, "total_results", raw.TotalResults, "articles", len(raw.Articles))

	out := Result{Status: raw.Status, TotalResults: raw.TotalResults, Articles: raw.Articles}
	if out.Articles == nil {
		out.Articles = []models.Article{}
	}

	return &out, nil
}

// stripURL убирает из *url.Error адрес запроса: в нём apiKey.
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s %s: %w", uerr.Op, redact.URL(uerr.URL), uerr.Err)
	}

	return err
}

func setNonEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setPositive(q url.Values, key string, value int) {
	if value > 0 {
		q.Set(key, strconv.Itoa(value))
	}
}
