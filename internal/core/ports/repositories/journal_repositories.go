package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	// Entries are not populated.
	FindJournalByID(ctx context.Context, journalID string) (*domain.LedgerJournal, error)

	// FindJournalByReferenceID looks up a journal by its idempotency key.
	// It returns (nil, nil) when no journal uses the reference.
	FindJournalByReferenceID(ctx context.Context, referenceID string) (*domain.LedgerJournal, error)
}

// EntryReader defines read operations for entry data
type EntryReader interface {
	// FindEntriesByJournalID retrieves all entries of a single journal in insertion order.
	FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.LedgerEntry, error)

	// ListEntriesByAccountID retrieves entries for an account, newest first, using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntriesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// PostingWriter persists a posting as one all-or-nothing unit.
type PostingWriter interface {
	// SavePosting inserts the journal and its entries and applies the account writes.
	//  - a reference already in use yields apperrors.ErrDuplicateReference
	//  - an account whose version moved yields apperrors.ErrVersionMismatch
	//  - a MarkReversed journal no longer POSTED yields apperrors.ErrAlreadyReversed
	// Nothing is persisted when an error is returned.
	SavePosting(ctx context.Context, posting domain.Posting) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	EntryReader
	PostingWriter
}
