package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const allocationQueueName = "seat.allocation"

// StartAllocationFeedConsumer consumes seat.allocation events and appends
// each one to logs/allocation.log in a single-line, human-friendly format.
// Ops tail this file to watch live allocation traffic without touching the
// database. Runs a reconnect loop the same way the directory consumer does.
func StartAllocationFeedConsumer() error {
	url := BrokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("allocation-feed: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := feedLoop(conn); err != nil {
			log.Printf("allocation-feed: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func feedLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("allocation-feed: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(allocationQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(allocationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := appendFeedLine(d.Body); err != nil {
			log.Printf("allocation-feed: handle message failed: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func appendFeedLine(body []byte) error {
	var ev SeatAllocationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "allocation.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s | seat_id=%d | seat_no=%q | area_id=%d | employee=%q (%s) | operator=%q (%s)\n",
		ev.OccurredAt, ev.Operation, ev.SeatID, ev.SeatNo, ev.AreaID,
		ev.EmployeeName, ev.EmployeeID, ev.OperatorName, ev.OperatorID)

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
