package producers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// RabbitMQProducer publishes session messages to a topic exchange using the
// message topic as routing key.
type RabbitMQProducer struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewRabbitMQProducer(url, exchange string) (*RabbitMQProducer, error) {
	if exchange == "" {
		return nil, errors.New("rabbitmq exchange name is required")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	slog.Info("rabbitmq producer connected", "exchange", exchange)
	return &RabbitMQProducer{conn: conn, ch: ch, exchange: exchange}, nil
}

func (r *RabbitMQProducer) WriteMessage(topic string, msg []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ch == nil {
		return errors.New("rabbitmq producer is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	err := r.ch.PublishWithContext(ctx, r.exchange, topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         msg,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s/%s: %w", r.exchange, topic, err)
	}
	return nil
}

func (r *RabbitMQProducer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ch == nil {
		return nil
	}
	chErr := r.ch.Close()
	connErr := r.conn.Close()
	r.ch, r.conn = nil, nil
	if chErr != nil {
		return chErr
	}
	return connErr
}
