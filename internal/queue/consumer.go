package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/coffee-shop-api/internal/config"
	"github.com/iliyamo/coffee-shop-api/internal/metrics"
)

// OrderLogFile is the file, inside the configured log directory, that
// receives one line per consumed order event.
const OrderLogFile = "orders.log"

// StartOrderConsumer connects to RabbitMQ, declares the order queue (durable)
// and appends every delivery to <dir>/orders.log. It reconnects with
// exponential backoff and returns only when ctx is cancelled. Messages that
// cannot be handled are rejected without requeue so a poison message cannot
// spin the loop.
func StartOrderConsumer(ctx context.Context, cfg config.QueueConfig, log *slog.Logger, m *metrics.Metrics) error {
	log = log.With(slog.String("component", "order-consumer"))

	backoff := time.Second
	for {
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Warn("failed to dial broker", slog.Any("error", err), slog.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, cfg, log, m)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("consume loop ended, reconnecting", slog.Any("error", err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg config.QueueConfig, log *slog.Logger, m *metrics.Metrics) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("set QoS failed", slog.Any("error", err))
	}
	if _, err := ch.QueueDeclare(cfg.OrderQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(cfg.OrderQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	log.Info("consuming", slog.String("queue", cfg.OrderQueue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(cfg.ConsumerLogs, d.Body); err != nil {
				log.Error("handle message failed", slog.Any("error", err))
				m.OrderEvents.WithLabelValues("rejected").Inc()
				_ = d.Nack(false, false)
				continue
			}
			m.OrderEvents.WithLabelValues("consumed").Inc()
			_ = d.Ack(false)
		}
	}
}

func handleMessage(dir string, body []byte) error {
	var ev OrderPlacedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.OrderID == 0 {
		return errors.New("event has no order_id")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, OrderLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatLine(ev OrderPlacedEvent) string {
	items := make([]string, 0, len(ev.Items))
	for _, it := range ev.Items {
		items = append(items, fmt.Sprintf("%dx%d", it.ProductID, it.Quantity))
	}
	return fmt.Sprintf("[%s] Order placed | order_id=%d | customer_id=%d | email=%q | total=%.2f | payment=%s | items=[%s]\n",
		ev.PlacedAt, ev.OrderID, ev.CustomerID, ev.CustomerEmail, ev.TotalPrice, ev.PaymentMethod, strings.Join(items, ","))
}
