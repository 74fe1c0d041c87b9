package ingest

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"linkspread/src/posts"
)

// MQConfig holds RabbitMQ connection configuration.
type MQConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Queue    string
}

// MQ wraps a RabbitMQ connection used to stream post CSV rows into the live
// table. The same wrapper backs the feeder's publish side.
type MQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	config  MQConfig
}

// NewMQ connects and declares the durable post queue.
func NewMQ(config MQConfig) (*MQ, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/", config.Username, config.Password, config.Host, config.Port)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		config.Queue, // name
		true,         // durable
		false,        // delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = ch.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	return &MQ{
		conn:    conn,
		channel: ch,
		queue:   q,
		config:  config,
	}, nil
}

// Close closes the RabbitMQ connection.
func (m *MQ) Close() error {
	if m.channel != nil {
		m.channel.Close()
	}
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}

// Publish sends one raw CSV row to the post queue.
func (m *MQ) Publish(ctx context.Context, row string) error {
	err := m.channel.PublishWithContext(ctx,
		"",             // exchange
		m.queue.Name,   // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "text/csv",
			DeliveryMode: amqp.Persistent,
			Body:         []byte(row),
		})
	if err != nil {
		return fmt.Errorf("failed to publish row: %w", err)
	}
	return nil
}

// Consume parses incoming CSV rows and appends them to the table until the
// context is cancelled or the channel closes. Unparseable rows are logged
// and dropped; duplicates are dropped silently by the table.
func (m *MQ) Consume(ctx context.Context, table *posts.Table) error {
	msgs, err := m.channel.Consume(
		m.queue.Name, // queue
		"",           // consumer
		true,         // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	slog.Info("Connected to RabbitMQ. Waiting for posts...", "queue", m.queue.Name)

	received := 0
	appended := 0
	for {
		select {
		case <-ctx.Done():
			slog.Info("Ingest consumer stopping", "received", received, "appended", appended)
			return nil
		case msg, ok := <-msgs:
			if !ok {
				slog.Info("Ingest channel closed", "received", received, "appended", appended)
				return nil
			}
			received++
			post, err := posts.ParseRowString(string(msg.Body))
			if err != nil {
				slog.Warn("Failed to parse ingested row", "error", err, "raw_row", string(msg.Body))
				continue
			}
			if table.Append(post) {
				appended++
			}
			if received%1000 == 0 {
				slog.Info("Ingest progress", "received", received, "appended", appended, "table_size", table.Len())
			}
		}
	}
}

// QueueInfo returns name, depth, and consumer count for the post queue.
func (m *MQ) QueueInfo() (map[string]interface{}, error) {
	queue, err := m.channel.QueueInspect(m.config.Queue)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect queue: %w", err)
	}
	return map[string]interface{}{
		"name":      queue.Name,
		"messages":  queue.Messages,
		"consumers": queue.Consumers,
	}, nil
}
