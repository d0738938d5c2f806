package messaging

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"cafe-system/internal/config"
	"cafe-system/internal/logger"
)

// BillsExchange is the fanout exchange bill-finalized events are published
// to for the presentation layer.
const BillsExchange = "bills_fanout"

// Connection wraps a RabbitMQ connection with reconnection support.
type Connection struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *logger.Logger
	url     string
}

// New creates a new RabbitMQ connection and declares the bills exchange.
func New(cfg *config.Config, log *logger.Logger) (*Connection, error) {
	conn := &Connection{
		logger: log,
		url:    cfg.RabbitMQURL(),
	}

	if err := conn.connect(); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}

	return conn, nil
}

func (c *Connection) connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		BillsExchange,
		"fanout",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	c.conn = conn
	c.channel = channel
	return nil
}

// IsClosed reports whether the underlying connection has gone away.
func (c *Connection) IsClosed() bool {
	return c.conn == nil || c.conn.IsClosed()
}

// Reconnect re-establishes the connection and channel.
func (c *Connection) Reconnect() error {
	c.Close()
	return c.connect()
}

// Channel returns the active channel.
func (c *Connection) Channel() *amqp091.Channel {
	return c.channel
}

// Close shuts down the channel and connection.
func (c *Connection) Close() {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
