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

// StartAuditConsumer connects to RabbitMQ, declares the booking
// engine's event queues (durable), and starts consuming messages.
// Each message is appended to logs/booking.log in a single-line,
// human-friendly format. The function runs a reconnect loop with
// exponential backoff; it keeps running and logs any processing
// errors while rejecting the offending message so the server
// continues operating.
func StartAuditConsumer() error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(brokerURL())
        if err != nil {
            log.Printf("audit-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn); err != nil {
            log.Printf("audit-consumer: consume loop ended: %v; reconnecting", err)
            time.Sleep(2 * time.Second)
            continue
        }
    }
}

func consumeLoop(conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("audit-consumer: set QoS failed: %v", err)
    }

    for _, name := range []string{BookingsCancelledQueue, PaymentRemovedQueue, ShowsRemovedQueue} {
        if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
            return fmt.Errorf("queue declare %s: %w", name, err)
        }
    }

    deliveries := make(chan amqp.Delivery)
    for _, name := range []string{BookingsCancelledQueue, PaymentRemovedQueue, ShowsRemovedQueue} {
        msgs, err := ch.Consume(name, "", false, false, false, false, nil)
        if err != nil {
            return fmt.Errorf("queue consume %s: %w", name, err)
        }
        go func(q string, in <-chan amqp.Delivery) {
            for d := range in {
                d.RoutingKey = q
                deliveries <- d
            }
        }(name, msgs)
    }

    for d := range deliveries {
        if err := handleMessage(d.RoutingKey, d.Body); err != nil {
            log.Printf("audit-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

func handleMessage(queueName string, body []byte) error {
    var line string
    switch queueName {
    case BookingsCancelledQueue:
        var ev BookingsCancelledEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        line = fmt.Sprintf("[%s] Pending bookings cancelled | count=%d\n", ev.CancelledAt, ev.Count)
    case PaymentRemovedQueue:
        var ev PaymentRemovedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        line = fmt.Sprintf("[%s] Payment removed | payment_id=%d | booking_id=%d | booking now Cancelled\n",
            ev.RemovedAt, ev.PaymentID, ev.BookingID)
    case ShowsRemovedQueue:
        var ev ShowsRemovedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        line = fmt.Sprintf("[%s] Shows removed | cinema_id=%d | date=%s | shows=%d | bookings_cancelled=%d\n",
            ev.RemovedAt, ev.CinemaID, ev.Date, ev.ShowsRemoved, ev.BookingsCancelled)
    default:
        return fmt.Errorf("unknown queue %q", queueName)
    }

    if err := os.MkdirAll("logs", 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    fpath := filepath.Join("logs", "booking.log")
    f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
