// Package queue_publisher publishes domain events to RabbitMQ.  Errors are
// logged and returned so callers can ignore them without interrupting the
// request that produced the event.
package queue_publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/om-adella-promo/internal/queue"
)

// AppID tags every message published by this service.
const AppID = "om-adella-promo"

// DefaultDialTimeout bounds the broker dial and handshake when a Publisher
// sets none.
const DefaultDialTimeout = 3 * time.Second

// Publisher dials the broker at URL for every publish.  Captures are rare
// enough that a pooled connection is not worth its reconnect handling.
type Publisher struct {
	URL         string
	DialTimeout time.Duration
}

// PublishLocationCaptured sends event as a persistent JSON message to the
// durable "location.captured" queue through the default exchange.
func (p Publisher) PublishLocationCaptured(ctx context.Context, event q.LocationCapturedEvent) error {
	msg, err := locationCapturedMessage(event, time.Now())
	if err != nil {
		return fmt.Errorf("rabbitmq: %w", err)
	}
	if err := p.publish(ctx, q.LocationCapturedQueue, msg); err != nil {
		log.Printf("rabbitmq: %v", err)
		return err
	}
	return nil
}

func locationCapturedMessage(event q.LocationCapturedEvent, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now.UTC(),
		AppId:        AppID,
		Type:         q.LocationCapturedQueue,
		Body:         body,
	}
	// Without a stored row there is no stable ID to dedupe on.
	if event.LocationID != 0 {
		msg.MessageId = "location-" + strconv.FormatUint(event.LocationID, 10)
	}
	return msg, nil
}

func (p Publisher) publish(ctx context.Context, queue string, msg amqp.Publishing) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.dialTimeout(ctx)),
	})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Declaring is idempotent and must match the consumer's arguments.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", queue, err)
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", queue, err)
	}
	return nil
}

// dialTimeout is DialTimeout, shortened to the time left on ctx.
func (p Publisher) dialTimeout(ctx context.Context) time.Duration {
	timeout := p.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}
