package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"cafe-system/internal/logger"
	"cafe-system/internal/models"
)

// Publisher emits bill-finalized events to the bills fanout exchange. The
// publish is synchronous; there is no background delivery.
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a publisher over an established connection.
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishBill publishes the event for a finalized bill.
func (p *Publisher) PublishBill(ctx context.Context, event *models.BillFinalizedEvent) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		BillsExchange,
		"",    // routing key ignored by fanout
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   event.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish bill event: %w", err)
	}

	p.logger.Debug("bill_event_published", "Published bill finalized event", map[string]any{
		"customer_name": event.CustomerName,
		"grand_total":   event.GrandTotal,
	})
	return nil
}
