package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/myspendr/internal/apperrors"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/middleware"
	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// AlertMessage is the JSON body published for each overrun alert.
type AlertMessage struct {
	UserID     string    `json:"userID"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurredAt"`
}

// publisher is the subset of *amqp091.Channel the gateway needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// AMQPGateway publishes alerts to a durable direct exchange for downstream consumers.
type AMQPGateway struct {
	conn         *amqp091.Connection
	channel      publisher
	exchangeName string
	queueName    string
	now          func() time.Time
}

var _ portssvc.NotificationGateway = (*AMQPGateway)(nil)

// NewAMQPGateway dials the broker and declares the exchange, queue and binding.
func NewAMQPGateway(url, exchangeName, queueName string) (*AMQPGateway, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareTopology(channel, exchangeName, queueName); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return &AMQPGateway{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
		now:          time.Now,
	}, nil
}

func declareTopology(ch *amqp091.Channel, exchangeName, queueName string) error {
	if err := ch.ExchangeDeclare(exchangeName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// Routing key is the queue name on a direct exchange.
	if err := ch.QueueBind(queueName, queueName, exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (g *AMQPGateway) Notify(ctx context.Context, userID, message string) error {
	now := g.now()
	body, err := json.Marshal(AlertMessage{UserID: userID, Message: message, OccurredAt: now.UTC()})
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = g.channel.PublishWithContext(ctx, g.exchangeName, g.queueName, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    now,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: publish alert: %v", apperrors.ErrExternal, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Published budget alert",
		slog.String("exchange", g.exchangeName),
		slog.String("queue", g.queueName))
	return nil
}

// Close releases the broker connection.
func (g *AMQPGateway) Close() error {
	if g.conn == nil {
		return nil
	}
	return g.conn.Close()
}
