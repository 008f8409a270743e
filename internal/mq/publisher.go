package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/wildnetedge/leadflow/internal/domain"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeLeadEnqueued  MessageType = "lead.enqueued"
	MessageTypeLeadProcessed MessageType = "lead.processed"
	MessageTypeDigestReady   MessageType = "digest.ready"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// LeadEnqueuedPayload — payload для сообщения о новых лидах.
// Публикуется внешним продюсером после вставки в lead_details.
type LeadEnqueuedPayload struct {
	LeadIDs []string `json:"lead_ids,omitempty"`
}

// LeadProcessedPayload — payload для сообщения об обработанном лиде.
type LeadProcessedPayload struct {
	LeadID        string `json:"lead_id"`
	Name          string `json:"name,omitempty"`
	Score         int    `json:"score"`
	ShouldContact int    `json:"should_contact"`
}

// DigestReadyPayload — payload для дневной сводки.
type DigestReadyPayload struct {
	Since     time.Time `json:"since"`
	Processed int       `json:"processed"`
	Backlog   int       `json:"backlog"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishLeadEnqueued публикует событие о новых лидах.
// Потребитель: Worker (досрочный wakeup цикла).
func (p *Publisher) PublishLeadEnqueued(ctx context.Context, leadIDs []string) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeLeadEnqueued,
		Payload:   LeadEnqueuedPayload{LeadIDs: leadIDs},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeLeads, RoutingKeyEnqueued, msg)
}

// PublishLeadProcessed публикует событие об обработанном лиде.
// Потребитель: downstream outreach sender.
func (p *Publisher) PublishLeadProcessed(ctx context.Context, result *domain.LeadResult) error {
	msg := &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeLeadProcessed,
		Payload: LeadProcessedPayload{
			LeadID:        result.LeadID,
			Name:          result.Name,
			Score:         result.Score,
			ShouldContact: result.ShouldContact,
		},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeLeads, RoutingKeyProcessed, msg)
}

// PublishDigestReady публикует дневную сводку.
func (p *Publisher) PublishDigestReady(ctx context.Context, payload DigestReadyPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeDigestReady,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeDigest, RoutingKeyReady, msg)
}
