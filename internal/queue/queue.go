// Package queue publishes ledger lifecycle notifications to RabbitMQ so
// downstream consumers (mailers, analytics) do not poll the chain. Publishing
// is fire and forget: errors are surfaced for logging and must never fail the
// operation that triggered them.
package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Queue names, one per lifecycle notification.
const (
	QueueTicketIssued    = "ticket.issued"
	QueueTicketCheckedIn = "ticket.checked-in"
	QueueTicketRefunded  = "ticket.refunded"
	QueueEventCancelled  = "event.cancelled"
)

type TicketIssued struct {
	EventID int64  `json:"event_id"`
	Holder  string `json:"holder"`
	Price   int64  `json:"price"`
	Seller  string `json:"seller"`
}

type TicketCheckedIn struct {
	EventID int64  `json:"event_id"`
	Holder  string `json:"holder"`
}

type TicketRefunded struct {
	EventID int64  `json:"event_id"`
	Holder  string `json:"holder"`
	Amount  int64  `json:"amount"`
}

type EventCancelled struct {
	EventID int64  `json:"event_id"`
	Creator string `json:"creator"`
}

// Publisher sends notifications over AMQP. Each publish dials a fresh
// connection; the message volume here is one per ledger mutation.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

func (p *Publisher) TicketIssued(ctx context.Context, n TicketIssued) error {
	return p.publish(ctx, QueueTicketIssued, n)
}

func (p *Publisher) TicketCheckedIn(ctx context.Context, n TicketCheckedIn) error {
	return p.publish(ctx, QueueTicketCheckedIn, n)
}

func (p *Publisher) TicketRefunded(ctx context.Context, n TicketRefunded) error {
	return p.publish(ctx, QueueTicketRefunded, n)
}

func (p *Publisher) EventCancelled(ctx context.Context, n EventCancelled) error {
	return p.publish(ctx, QueueEventCancelled, n)
}

func (p *Publisher) publish(ctx context.Context, queueName string, payload any) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts; declare is idempotent.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
