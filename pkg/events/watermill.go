// Package events carries domain events between the API and the worker over a
// PostgreSQL-backed Watermill pub/sub. The API publishes item events inside
// the same transaction that mutates the row (outbox pattern via the Watermill
// Forwarder); the worker consumes them to keep derived state such as the
// Redis item cache fresh.
//
// Every instance sharing a ServiceName joins one consumer group, so a message
// is handled by exactly one instance. Handlers must be idempotent: a failed
// delivery is retried with exponential backoff and eventually Nacked for
// redelivery. Trace context travels in message metadata, so spans continue
// across the process boundary.
package events

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/lvoinea/stuffkeeper/pkg/config"
	"github.com/lvoinea/stuffkeeper/pkg/logger"
)

const (
	maxAttempts  = 3
	retryDelay   = time.Second
	drainTimeout = 30 * time.Second

	// outboxTopic is the durable queue the Forwarder drains; enveloped
	// messages wait here until they are delivered to their real topic.
	outboxTopic = "_outbox"
)

// EventBus is the process-wide publish/subscribe endpoint. It owns one SQL
// connection used by both directions; delivery relies on FOR UPDATE SKIP
// LOCKED, so concurrent consumers never double-process a message.
type EventBus struct {
	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder
	db         *sql.DB
	log        logger.Logger
	wg         sync.WaitGroup
	outbox     bool
}

// NewEventBus connects to cfg.DatabaseURL and prepares a direct publisher and
// a consumer-group subscriber named after cfg.ServiceName. Watermill creates
// its topic tables on first use.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, false)
}

// NewEventBusWithForwarder prepares a bus whose publishers write to a durable
// outbox queue instead of the target topic. A crash after Publish returns
// cannot lose the event: the Forwarder daemon (see StartForwarder) moves it
// to the real topic later.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, true)
}

func newEventBus(cfg *config.Config, log logger.Logger, outbox bool) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}

	wlog := &busLogger{log: log}

	pub, err := watermillsql.NewPublisher(
		db,
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: true,
		},
		wlog,
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	var publisher message.Publisher = pub
	if outbox {
		publisher = forwarder.NewPublisher(pub, forwarder.PublisherConfig{
			ForwarderTopic: outboxTopic,
		})
	}

	sub, err := watermillsql.NewSubscriber(
		db,
		watermillsql.SubscriberConfig{
			SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
			ConsumerGroup:    cfg.ServiceName + "-consumer",
		},
		wlog,
	)
	if err != nil {
		_ = pub.Close()
		_ = db.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	return &EventBus{
		publisher:  publisher,
		subscriber: sub,
		db:         db,
		log:        log,
		outbox:     outbox,
	}, nil
}

// StartForwarder launches the daemon that drains the outbox queue into the
// target topics. Call it once, only on a bus built with
// NewEventBusWithForwarder; it returns once the daemon is running.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if !b.outbox {
		return fmt.Errorf("events: StartForwarder on a bus without an outbox")
	}
	if b.fwd != nil {
		return fmt.Errorf("events: forwarder already started")
	}

	wlog := &busLogger{log: b.log}

	// The daemon needs its own subscriber (to drain the outbox) and its own
	// publisher (to deliver to the target topics).
	fwdSub, err := watermillsql.NewSubscriber(
		b.db,
		watermillsql.SubscriberConfig{
			SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
			ConsumerGroup:    "forwarder-consumer",
		},
		wlog,
	)
	if err != nil {
		return fmt.Errorf("events: forwarder subscriber: %w", err)
	}

	targetPub, err := watermillsql.NewPublisher(
		b.db,
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: true,
		},
		wlog,
	)
	if err != nil {
		_ = fwdSub.Close()
		return fmt.Errorf("events: forwarder publisher: %w", err)
	}

	fwd, err := forwarder.NewForwarder(fwdSub, targetPub, wlog, forwarder.Config{
		ForwarderTopic: outboxTopic,
	})
	if err != nil {
		_ = targetPub.Close()
		_ = fwdSub.Close()
		return fmt.Errorf("events: new forwarder: %w", err)
	}

	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.log.InfoContext(ctx, "events: forwarder started")
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped with error", "error", err)
			return
		}
		b.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
	return nil
}

// NewTxPublisher returns a publisher whose messages commit or roll back with
// tx, so "save the row and announce it" is one atomic step. On an outbox bus
// the message lands in the outbox queue and the daemon delivers it after the
// commit becomes visible.
//
// Schema initialization is off here: the bus created the tables at startup,
// and DDL inside a business transaction would be a mistake.
func (b *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := watermillsql.NewPublisher(
		tx,
		watermillsql.PublisherConfig{
			SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: false,
		},
		&busLogger{log: b.log},
	)
	if err != nil {
		return nil, fmt.Errorf("events: tx publisher: %w", err)
	}
	if b.outbox {
		return forwarder.NewPublisher(pub, forwarder.PublisherConfig{
			ForwarderTopic: outboxTopic,
		}), nil
	}
	return pub, nil
}

// Publish delivers msgs to topic, stamping each one with the caller's trace
// context so the consumer can continue the span tree.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe runs handler for every message on topic, in a goroutine owned by
// the bus. The handler's context carries the publisher's trace restored from
// metadata.
//
// Acknowledgement is handled here: a nil return Acks, an error is retried
// with exponential backoff (1s, 2s, 4s), and once attempts are exhausted the
// message is Nacked and the error lands on the returned channel. The channel
// is buffered at 100 and must be drained, or late errors are dropped with a
// log line. Close waits for in-flight handlers before returning.
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler func(context.Context, *message.Message) error) (<-chan error, error) {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, 100)
	propagator := otel.GetTextMapPropagator()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)

		for msg := range ch {
			carrier := propagation.MapCarrier{}
			for k, v := range msg.Metadata {
				carrier[k] = v
			}
			msgCtx := propagator.Extract(ctx, carrier)

			if err := deliver(msgCtx, msg, handler, maxAttempts, retryDelay, b.log); err != nil {
				msg.Nack()
				select {
				case errCh <- err:
				default:
					b.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
						"error", err, "topic", topic)
				}
				continue
			}
			msg.Ack()
		}
	}()

	return errCh, nil
}

// deliver invokes handler up to attempts times, doubling the wait between
// tries. The first success wins; the last error is returned once attempts
// run out or the context ends.
func deliver(
	ctx context.Context,
	msg *message.Message,
	handler func(context.Context, *message.Message) error,
	attempts int,
	baseDelay time.Duration,
	log logger.Logger,
) error {
	delay := baseDelay
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt,
			"max_attempts", attempts,
			"next_delay", delay,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", attempts, err)
}

// Ping reports whether the bus can reach its database.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close shuts the bus down in dependency order: subscriber first, then the
// forwarder, then a bounded wait for in-flight handlers, then the publisher
// and the database connection.
func (b *EventBus) Close() error {
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}

	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	select {
	case <-done:
	case <-ctx.Done():
		b.log.Error("events: timed out waiting for in-flight handlers")
	}

	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return b.db.Close()
}

// busLogger adapts logger.Logger to watermill.LoggerAdapter. Watermill's
// Trace level maps onto Debug.
type busLogger struct{ log logger.Logger }

func (l *busLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.log.Error(msg, append(fieldArgs(fields), "error", err)...)
}
func (l *busLogger) Info(msg string, fields watermill.LogFields) {
	l.log.Info(msg, fieldArgs(fields)...)
}
func (l *busLogger) Debug(msg string, fields watermill.LogFields) {
	l.log.Debug(msg, fieldArgs(fields)...)
}
func (l *busLogger) Trace(msg string, fields watermill.LogFields) {
	l.log.Debug(msg, fieldArgs(fields)...)
}
func (l *busLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &busLogger{log: l.log.With(fieldArgs(fields)...)}
}

func fieldArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
