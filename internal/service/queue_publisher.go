package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/deskhub/seatdesk/internal/queue"
)

const (
	allocationQueueName = "seat.allocation"
	directoryQueueName  = "directory.employee.changed"
)

// PublishSeatAllocation publishes a SeatAllocationEvent to the
// "seat.allocation" queue. The allocation itself has already committed, so
// any error here is logged and returned for the caller to ignore; the
// request flow must not fail because the broker is down.
func PublishSeatAllocation(ctx context.Context, event q.SeatAllocationEvent) error {
	return publish(ctx, allocationQueueName, event)
}

// PublishEmployeeChange enqueues a directory webhook payload onto the
// "directory.employee.changed" queue for the background consumer. Keeping
// the webhook endpoint a thin enqueue means the OA system gets an answer
// immediately and retries are handled by the broker, not by the caller.
func PublishEmployeeChange(ctx context.Context, event q.EmployeeChangedEvent) error {
	return publish(ctx, directoryQueueName, event)
}

// publish opens a short-lived connection, declares the durable queue
// (idempotent) and sends one persistent JSON message.
func publish(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
