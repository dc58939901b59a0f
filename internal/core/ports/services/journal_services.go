package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// PostingSvc posts and reverses journals. It is the only writer of account balances.
type PostingSvc interface {
	// PostJournal validates and atomically posts a balanced journal.
	PostJournal(ctx context.Context, draft domain.JournalDraft, entries []domain.EntryDraft) (*domain.LedgerJournal, error)

	// ReverseJournal posts the mirror image of an existing journal and marks the original REVERSED.
	ReverseJournal(ctx context.Context, journalID string, reason string) (*domain.LedgerJournal, error)
}

// JournalReaderSvc defines read operations for journal and entry data
type JournalReaderSvc interface {
	// GetJournal retrieves a journal together with its entries.
	GetJournal(ctx context.Context, journalID string) (*domain.LedgerJournal, error)

	// GetAccount retrieves an account including its current balance and version.
	GetAccount(ctx context.Context, accountID string) (*domain.LedgerAccount, error)

	// ListEntries retrieves the entries of one journal.
	ListEntries(ctx context.Context, journalID string) ([]domain.LedgerEntry, error)

	// ListAccountEntries retrieves entries posted to an account, newest first.
	ListAccountEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	PostingSvc
	JournalReaderSvc
}

// JournalEventSink receives facts about committed journals.
// Delivery is best effort; a failing sink never undoes a posting.
type JournalEventSink interface {
	JournalPosted(ctx context.Context, journal domain.LedgerJournal) error
	JournalReversed(ctx context.Context, original domain.LedgerJournal, reversal domain.LedgerJournal) error
}
