// Package rabbitmq feeds subscription lifecycle events from the broker into the
// delivery dispatcher.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"merchant-webhooks/config"
	"merchant-webhooks/internal/core/domain"
	"merchant-webhooks/internal/core/ports"
	"merchant-webhooks/pkg/apperror"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	consumerTag         = "merchant-webhooks"
	heartbeat           = 10 * time.Second
	minReconnectBackoff = time.Second
	maxReconnectBackoff = 30 * time.Second
)

// Consumer reads lifecycle events from a durable queue and dispatches them.
// Messages are acknowledged only after the delivery rows exist.
type Consumer struct {
	cfg        config.RabbitMQConfig
	dispatcher ports.Dispatcher
	log        zerolog.Logger

	mu   sync.RWMutex
	conn *amqp.Connection
}

// NewConsumer creates a consumer. Nothing connects until Run.
func NewConsumer(cfg config.RabbitMQConfig, dispatcher ports.Dispatcher, log zerolog.Logger) *Consumer {
	return &Consumer{
		cfg:        cfg,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Run consumes until ctx is cancelled, reconnecting with capped exponential backoff.
func (c *Consumer) Run(ctx context.Context) {
	backoff := minReconnectBackoff
	for {
		connected, err := c.consume(ctx)
		if ctx.Err() != nil {
			return
		}
		if connected {
			backoff = minReconnectBackoff
		}
		c.log.Warn().Err(err).Dur("backoff", backoff).Msg("rabbitmq consumer interrupted, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxReconnectBackoff {
			backoff = maxReconnectBackoff
		}
	}
}

// consume runs one connection lifetime. connected reports whether the consumer
// got as far as receiving deliveries.
func (c *Consumer) consume(ctx context.Context) (connected bool, err error) {
	conn, err := amqp.DialConfig(c.cfg.URL, amqp.Config{
		Heartbeat: heartbeat,
		Locale:    "en_US",
		Properties: amqp.Table{
			"connection_name": consumerTag,
		},
	})
	if err != nil {
		return false, fmt.Errorf("dialing rabbitmq: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return false, fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	if err := c.declareTopology(ch); err != nil {
		return false, err
	}
	if err := ch.Qos(c.cfg.PrefetchCount, 0, false); err != nil {
		return false, fmt.Errorf("setting qos: %w", err)
	}

	msgs, err := ch.Consume(c.cfg.Queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return false, fmt.Errorf("registering consumer: %w", err)
	}

	c.setConn(conn)
	defer c.setConn(nil)
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	c.log.Info().
		Str("exchange", c.cfg.Exchange).
		Str("queue", c.cfg.Queue).
		Str("routing_key", c.cfg.RoutingKey).
		Int("prefetch", c.cfg.PrefetchCount).
		Msg("rabbitmq consumer started")

	for {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case amqpErr := <-closed:
			if amqpErr != nil {
				return true, amqpErr
			}
			return true, errors.New("rabbitmq connection closed")
		case msg, ok := <-msgs:
			if !ok {
				return true, errors.New("rabbitmq delivery channel closed")
			}
			c.HandleDelivery(ctx, msg)
		}
	}
}

func (c *Consumer) declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(c.cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring exchange %s: %w", c.cfg.Exchange, err)
	}
	if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring queue %s: %w", c.cfg.Queue, err)
	}
	if err := ch.QueueBind(c.cfg.Queue, c.cfg.RoutingKey, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("binding queue %s: %w", c.cfg.Queue, err)
	}
	return nil
}

// HandleDelivery decodes one message and dispatches it. Malformed events are
// rejected without requeue. Dependency failures are requeued once; a second
// failure on a redelivered message rejects it so the queue's dead-letter policy applies.
func (c *Consumer) HandleDelivery(ctx context.Context, msg amqp.Delivery) {
	log := c.log.With().Uint64("delivery_tag", msg.DeliveryTag).Logger()

	event, err := decodeEvent(msg.Body)
	if err != nil {
		log.Warn().Err(err).Msg("rejecting malformed lifecycle event")
		c.nack(log, msg, false)
		return
	}
	log = log.With().
		Str("event_id", event.ID.String()).
		Str("event", string(event.Type)).
		Str("merchant_id", event.MerchantID).
		Logger()

	created, err := c.dispatcher.Dispatch(ctx, event)
	if err != nil {
		requeue := retryable(err) && !msg.Redelivered
		log.Error().Err(err).Bool("requeue", requeue).Msg("lifecycle event dispatch failed")
		c.nack(log, msg, requeue)
		return
	}

	if err := msg.Ack(false); err != nil {
		log.Error().Err(err).Msg("failed to ack lifecycle event")
		return
	}
	log.Info().Int("deliveries", created).Msg("lifecycle event dispatched")
}

func (c *Consumer) nack(log zerolog.Logger, msg amqp.Delivery, requeue bool) {
	if err := msg.Nack(false, requeue); err != nil {
		log.Error().Err(err).Msg("failed to nack lifecycle event")
	}
}

// decodeEvent parses the message body and validates the typed data for its event type.
func decodeEvent(body []byte) (domain.LifecycleEvent, error) {
	var event domain.LifecycleEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("decoding lifecycle event: %w", err)
	}
	if !event.Type.Valid() {
		return event, fmt.Errorf("unknown event type %q", event.Type)
	}
	if _, err := domain.DecodeEventData(event.Type, event.Data); err != nil {
		return event, err
	}
	return event, nil
}

// retryable reports whether err is a dependency failure rather than a bad event.
func retryable(err error) bool {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus >= http.StatusInternalServerError
	}
	return true
}

func (c *Consumer) setConn(conn *amqp.Connection) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

// Ping implements ports.HealthChecker.
func (c *Consumer) Ping(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq consumer not connected")
	}
	return nil
}

func (c *Consumer) Name() string {
	return "rabbitmq"
}
