package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/utils/clock"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer the sink needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes journal events to a Kafka topic, keyed by journal reference
// so every event for one business reference lands on the same partition.
type KafkaSink struct {
	writer messageWriter
	clock  clock.Clock
}

var _ portssvc.JournalEventSink = (*KafkaSink)(nil)

// NewKafkaWriter builds the writer used by NewKafkaSink.
func NewKafkaWriter(brokers []string, topic string, logger *slog.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug(fmt.Sprintf(msg, args...))
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error(fmt.Sprintf(msg, args...))
		}),
	}
}

func NewKafkaSink(writer messageWriter, c clock.Clock) *KafkaSink {
	if c == nil {
		c = clock.System{}
	}
	return &KafkaSink{writer: writer, clock: c}
}

func (k *KafkaSink) JournalPosted(ctx context.Context, journal domain.LedgerJournal) error {
	return k.publish(ctx, journal.ReferenceID, PostedEvent(journal, k.clock.Now()))
}

func (k *KafkaSink) JournalReversed(ctx context.Context, original domain.LedgerJournal, reversal domain.LedgerJournal) error {
	return k.publish(ctx, original.ReferenceID, ReversedEvent(original, reversal, k.clock.Now()))
}

func (k *KafkaSink) publish(ctx context.Context, key string, ev JournalEvent) error {
	payload, err := ev.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", ev.EventType, err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  ev.EmittedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.EventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event for journal %s: %w", ev.EventType, ev.JournalID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Debug("Journal event published to kafka",
		slog.String("event_type", ev.EventType),
		slog.String("journal_id", ev.JournalID))
	return nil
}

// Close flushes pending messages and releases the writer.
func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
