// events — публикация доменных событий о закладках во внешнюю шину (NATS).
// Публикация best-effort: ошибка логируется вызывающей стороной и не отменяет операцию.
package events

//go:generate mockgen -source=events.go -destination=../../mocks/publisher.go -package=mocks Publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/pribylovaa/newspulse/internal/metrics"
)

// Type — вид события; последний сегмент NATS-subject.
type Type string

const (
	BookmarkCreated Type = "created"
	BookmarkDeleted Type = "deleted"
)

// Event — конверт события о закладке.
type Event struct {
	Type       Type      `json:"type"`
	UserID     uuid.UUID `json:"userId"`
	BookmarkID string    `json:"bookmarkId"`
	URL        string    `json:"url,omitempty"`
	Category   string    `json:"category,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher публикует события о закладках.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close()
}

// Nop — публикатор-заглушка, когда шина не настроена.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close()                               {}

// NATSPublisher публикует события в subject "<prefix>.<type>".
type NATSPublisher struct {
	conn    *nats.Conn
	prefix  string
	metrics *metrics.Metrics
}

// NewNATSPublisher подключается к NATS с бесконечным переподключением.
func NewNATSPublisher(url, prefix string, m *metrics.Metrics) (*NATSPublisher, error) {
	const op = "events.NewNATSPublisher"

	conn, err := nats.Connect(url,
		nats.Name("newspulse"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &NATSPublisher{conn: conn, prefix: prefix, metrics: m}, nil
}

// Subject возвращает subject для вида события.
func (p *NATSPublisher) Subject(t Type) string {
	return p.prefix + "." + string(t)
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	const op = "events.Publish"

	err := p.publish(ctx, e)
	p.metrics.EventPublished(string(e.Type), err)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (p *NATSPublisher) publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	return p.conn.Publish(p.Subject(e.Type), data)
}

// Close дожидается отправки буфера и закрывает соединение.
func (p *NATSPublisher) Close() {
	_ = p.conn.Drain()
}
