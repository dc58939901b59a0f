package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/utils/clock"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel is used when no channel is configured.
const DefaultRedisChannel = "ledger_journal_events"

// RedisSink publishes journal events on a Redis pub/sub channel.
type RedisSink struct {
	rdb     *redis.Client
	channel string
	clock   clock.Clock
}

var _ portssvc.JournalEventSink = (*RedisSink)(nil)

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func NewRedisSink(rdb *redis.Client, channel string, c clock.Clock) *RedisSink {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	if c == nil {
		c = clock.System{}
	}
	return &RedisSink{rdb: rdb, channel: channel, clock: c}
}

func (r *RedisSink) JournalPosted(ctx context.Context, journal domain.LedgerJournal) error {
	return r.publish(ctx, PostedEvent(journal, r.clock.Now()))
}

func (r *RedisSink) JournalReversed(ctx context.Context, original domain.LedgerJournal, reversal domain.LedgerJournal) error {
	return r.publish(ctx, ReversedEvent(original, reversal, r.clock.Now()))
}

func (r *RedisSink) publish(ctx context.Context, ev JournalEvent) error {
	payload, err := ev.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", ev.EventType, err)
	}

	if err := r.rdb.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event for journal %s: %w", ev.EventType, ev.JournalID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Debug("Journal event published to redis",
		slog.String("event_type", ev.EventType),
		slog.String("channel", r.channel),
		slog.String("journal_id", ev.JournalID))
	return nil
}

func (r *RedisSink) Close() error {
	return r.rdb.Close()
}
