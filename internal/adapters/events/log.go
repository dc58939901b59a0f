package events

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// LogSink only logs journal facts. Used when no broker is configured.
type LogSink struct{}

var _ portssvc.JournalEventSink = LogSink{}

func (LogSink) JournalPosted(ctx context.Context, journal domain.LedgerJournal) error {
	middleware.GetLoggerFromCtx(ctx).Info("Journal posted",
		slog.String("event_type", EventJournalPosted),
		slog.String("journal_id", journal.JournalID),
		slog.String("reference_id", journal.ReferenceID),
		slog.Int("entry_count", len(journal.Entries)))
	return nil
}

func (LogSink) JournalReversed(ctx context.Context, original domain.LedgerJournal, reversal domain.LedgerJournal) error {
	middleware.GetLoggerFromCtx(ctx).Info("Journal reversed",
		slog.String("event_type", EventJournalReversed),
		slog.String("journal_id", original.JournalID),
		slog.String("reversal_id", reversal.JournalID))
	return nil
}
