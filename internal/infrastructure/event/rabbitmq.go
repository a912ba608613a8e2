package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/emlak/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RoutingKeyPrefix is prepended to the event type to build the AMQP routing key
const RoutingKeyPrefix = "emlak."

// amqpChannel is the part of *amqp.Channel the forwarder uses
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// amqpConnector opens a channel and returns it together with the connection
// that owns it
type amqpConnector func(url string) (amqpChannel, io.Closer, error)

func dialAMQP(url string) (amqpChannel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, conn, nil
}

// Envelope is the message body published for every domain event
type Envelope struct {
	ID            uuid.UUID          `json:"id"`
	Type          string             `json:"type"`
	AggregateType string             `json:"aggregate_type"`
	AggregateID   uuid.UUID          `json:"aggregate_id"`
	TenantID      uuid.UUID          `json:"tenant_id"`
	OccurredAt    time.Time          `json:"occurred_at"`
	Payload       shared.DomainEvent `json:"payload"`
}

// NewEnvelope wraps a domain event for publication
func NewEnvelope(event shared.DomainEvent) Envelope {
	return Envelope{
		ID:            event.EventID(),
		Type:          event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		TenantID:      event.TenantID(),
		OccurredAt:    event.OccurredAt(),
		Payload:       event,
	}
}

// AMQPForwarder is a wildcard event handler that republishes every domain
// event to a RabbitMQ topic exchange. Downstream systems (search indexing,
// CRM sync) bind their own queues to "emlak.#" or a narrower key.
//
// The connection is opened lazily and re-opened after a publish failure.
type AMQPForwarder struct {
	url      string
	exchange string
	connect  amqpConnector
	logger   *zap.Logger

	mu      sync.Mutex
	channel amqpChannel
	conn    io.Closer
}

// NewAMQPForwarder creates a forwarder for the configured exchange
func NewAMQPForwarder(cfg config.RabbitMQConfig, logger *zap.Logger) *AMQPForwarder {
	return newAMQPForwarder(cfg, dialAMQP, logger)
}

func newAMQPForwarder(cfg config.RabbitMQConfig, connect amqpConnector, logger *zap.Logger) *AMQPForwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPForwarder{
		url:      cfg.URL,
		exchange: cfg.Exchange,
		connect:  connect,
		logger:   logger,
	}
}

// EventTypes subscribes the forwarder to every event
func (f *AMQPForwarder) EventTypes() []string {
	return nil
}

// Handle publishes the event as a persistent JSON message
func (f *AMQPForwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	body, err := json.Marshal(NewEnvelope(event))
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.EventType(), err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	ch, err := f.ensureChannel()
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID().String(),
		Timestamp:    event.OccurredAt(),
		Type:         event.EventType(),
		Headers: amqp.Table{
			"tenant_id": event.TenantID().String(),
		},
		Body: body,
	}
	key := RoutingKeyPrefix + event.EventType()
	if err := ch.PublishWithContext(ctx, f.exchange, key, false, false, msg); err != nil {
		f.resetLocked()
		return fmt.Errorf("publish %s: %w", key, err)
	}

	f.logger.Debug("event forwarded",
		zap.String("routing_key", key),
		zap.String("event_id", event.EventID().String()),
	)
	return nil
}

func (f *AMQPForwarder) ensureChannel() (amqpChannel, error) {
	if f.channel != nil {
		return f.channel, nil
	}
	ch, conn, err := f.connect(f.url)
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(f.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		if conn != nil {
			_ = conn.Close()
		}
		return nil, fmt.Errorf("declare exchange %q: %w", f.exchange, err)
	}
	f.channel, f.conn = ch, conn
	f.logger.Info("connected to rabbitmq", zap.String("exchange", f.exchange))
	return ch, nil
}

func (f *AMQPForwarder) resetLocked() {
	if f.channel != nil {
		_ = f.channel.Close()
	}
	if f.conn != nil {
		_ = f.conn.Close()
	}
	f.channel, f.conn = nil, nil
}

// Close releases the channel and connection
func (f *AMQPForwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var errs []error
	if f.channel != nil {
		errs = append(errs, f.channel.Close())
	}
	if f.conn != nil {
		errs = append(errs, f.conn.Close())
	}
	f.channel, f.conn = nil, nil
	return errors.Join(errs...)
}

var _ shared.EventHandler = (*AMQPForwarder)(nil)
