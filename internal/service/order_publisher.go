// Package service holds integrations with external systems that request
// handlers call into. Failures are logged and returned so callers can choose
// to ignore them without interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/coffee-shop-api/internal/config"
	"github.com/iliyamo/coffee-shop-api/internal/metrics"
	"github.com/iliyamo/coffee-shop-api/internal/queue"
)

// OrderPublisher publishes OrderPlacedEvent messages to the order queue. The
// connection is opened lazily and dropped on any failure so the next call
// redials.
type OrderPublisher struct {
	url     string
	queue   string
	log     *slog.Logger
	metrics *metrics.Metrics

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewOrderPublisher(cfg config.QueueConfig, log *slog.Logger, m *metrics.Metrics) *OrderPublisher {
	return &OrderPublisher{
		url:     cfg.URL,
		queue:   cfg.OrderQueue,
		log:     log.With(slog.String("component", "order-publisher")),
		metrics: m,
	}
}

// PublishOrderPlaced sends ev as a persistent JSON message.
func (p *OrderPublisher) PublishOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error {
	err := p.publish(ctx, ev)
	if err != nil {
		p.log.Warn("publish failed", slog.Uint64("order_id", ev.OrderID), slog.Any("error", err))
		p.metrics.OrderEvents.WithLabelValues("failed").Inc()
		return err
	}
	p.metrics.OrderEvents.WithLabelValues("published").Inc()
	return nil
}

func (p *OrderPublisher) publish(ctx context.Context, ev queue.OrderPlacedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		p.reset()
	}
	return err
}

// channel returns the cached channel, dialing when needed. Callers hold mu.
func (p *OrderPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *OrderPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the broker connection.
func (p *OrderPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}
