package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultQueueName is the durable queue the worker consumes from.
const DefaultQueueName = "pulse.activity"

func declareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(name, "topic", true, false, false, false, nil)
}

// RabbitMQPublisher publishes envelopes to the topic exchange.
type RabbitMQPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *slog.Logger
}

// NewRabbitMQPublisher dials url and declares the exchange.
func NewRabbitMQPublisher(url string, logger *slog.Logger) (*RabbitMQPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareExchange(ch, ExchangeName); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	logger.Info("RabbitMQ publisher connected", "exchange", ExchangeName)
	return &RabbitMQPublisher{conn: conn, channel: ch, logger: logger}, nil
}

// Publish sends payload as a persistent JSON message.
func (p *RabbitMQPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.channel.PublishWithContext(ctx, ExchangeName, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

// Ping reports whether the broker connection is still open.
func (p *RabbitMQPublisher) Ping(context.Context) error {
	if p.conn.IsClosed() {
		return errors.New("RabbitMQ connection closed")
	}
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		p.logger.Warn("closing channel", "error", err)
	}
	return p.conn.Close()
}

// RabbitMQConsumerConfig configures NewRabbitMQConsumer.
type RabbitMQConsumerConfig struct {
	URL       string
	QueueName string
	Logger    *slog.Logger
}

// RabbitMQConsumer binds a durable queue to the exchange for every
// registered routing key and dispatches deliveries one at a time.
type RabbitMQConsumer struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	registry *ConsumerRegistry
	logger   *slog.Logger
	running  bool
	closed   chan struct{}
}

// NewRabbitMQConsumer dials the broker and declares exchange and queue.
func NewRabbitMQConsumer(cfg RabbitMQConsumerConfig) (*RabbitMQConsumer, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.QueueName == "" {
		cfg.QueueName = DefaultQueueName
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	cleanup := func(err error) (*RabbitMQConsumer, error) {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	if err := declareExchange(ch, ExchangeName); err != nil {
		return cleanup(fmt.Errorf("declare exchange: %w", err))
	}
	if _, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		return cleanup(fmt.Errorf("declare queue: %w", err))
	}

	cfg.Logger.Info("RabbitMQ consumer connected", "queue", cfg.QueueName, "exchange", ExchangeName)
	return &RabbitMQConsumer{
		conn:     conn,
		channel:  ch,
		queue:    cfg.QueueName,
		registry: NewConsumerRegistry(cfg.Logger),
		logger:   cfg.Logger,
		closed:   make(chan struct{}),
	}, nil
}

// RegisterConsumer subscribes consumer and binds its routing keys.
func (c *RabbitMQConsumer) RegisterConsumer(consumer EventConsumer) {
	c.registry.Register(consumer)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range consumer.EventTypes() {
		if err := c.channel.QueueBind(c.queue, key, ExchangeName, false, nil); err != nil {
			c.logger.Error("queue bind failed", "routing_key", key, "error", err)
		}
	}
}

// Start consumes until ctx is cancelled or Close is called. Failed
// deliveries are requeued; undecodable ones are acked and dropped.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("consumer already running")
	}
	c.running = true
	c.mu.Unlock()

	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.Info("consuming events", "queue", c.queue, "routing_keys", c.registry.EventTypes())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.closed:
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

func (c *RabbitMQConsumer) handle(ctx context.Context, d amqp.Delivery) {
	var event ConsumedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.logger.Error("dropping undecodable event", "routing_key", d.RoutingKey, "error", err)
		_ = d.Ack(false)
		return
	}
	if event.RoutingKey == "" {
		event.RoutingKey = d.RoutingKey
	}

	if err := c.registry.Dispatch(ctx, &event); err != nil {
		if nackErr := d.Nack(false, true); nackErr != nil {
			c.logger.Error("nack failed", "error", nackErr)
		}
		return
	}
	if err := d.Ack(false); err != nil {
		c.logger.Error("ack failed", "error", err)
	}
}

// Ping reports whether the broker connection is still open.
func (c *RabbitMQConsumer) Ping(context.Context) error {
	if c.conn.IsClosed() {
		return errors.New("RabbitMQ connection closed")
	}
	return nil
}

// Close stops Start and releases the connection.
func (c *RabbitMQConsumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.closed:
		return nil
	default:
		close(c.closed)
	}
	c.running = false

	if err := c.channel.Close(); err != nil {
		c.logger.Warn("closing channel", "error", err)
	}
	return c.conn.Close()
}
