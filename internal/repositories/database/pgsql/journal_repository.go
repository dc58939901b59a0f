package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	journalColumns = `journal_id, reference_id, description, status, posted_at, reversal_of, reversed_by, created_at, updated_at`
	entryColumns   = `entry_id, journal_id, account_id, entry_type, amount, currency, description, posted_at`

	// referenceConstraint is the unique constraint backing journal idempotency.
	referenceConstraint = "uq_journals_reference_id"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal and entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanJournal(row pgx.Row) (domain.LedgerJournal, error) {
	var j domain.LedgerJournal
	err := row.Scan(
		&j.JournalID,
		&j.ReferenceID,
		&j.Description,
		&j.Status,
		&j.PostedAt,
		&j.ReversalOf,
		&j.ReversedBy,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	return j, err
}

func scanEntry(row pgx.Row) (domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := row.Scan(
		&e.EntryID,
		&e.JournalID,
		&e.AccountID,
		&e.EntryType,
		&e.Amount,
		&e.Currency,
		&e.Description,
		&e.PostedAt,
	)
	return e, err
}

// SavePosting writes the journal, its entries and the versioned account updates in one transaction.
func (r *PgxJournalRepository) SavePosting(ctx context.Context, posting domain.Posting) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Defer rollback in case of error
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	journal := posting.Journal

	// 1. Insert the journal; the unique constraint on reference_id is the idempotency guard
	journalQuery := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, journalQuery,
		journal.JournalID,
		journal.ReferenceID,
		journal.Description,
		journal.Status,
		journal.PostedAt,
		journal.ReversalOf,
		journal.ReversedBy,
		journal.CreatedAt,
		journal.UpdatedAt,
	)
	if err != nil {
		if code, constraint, ok := pgErrorCode(err); ok && code == pgUniqueViolation {
			if constraint == referenceConstraint {
				return fmt.Errorf("%w: %s", apperrors.ErrDuplicateReference, journal.ReferenceID)
			}
			return fmt.Errorf("%w: journal %s", apperrors.ErrDuplicate, journal.JournalID)
		}
		return apperrors.NewAppError(500, "failed to insert journal "+journal.JournalID, err)
	}

	// 2. Apply account writes, each conditional on the version the engine read
	accountBatch := &pgx.Batch{}
	accountQuery := `
		UPDATE accounts
		SET balance = $1, version = $2, updated_at = $3
		WHERE account_id = $4 AND version = $5;
	`
	for _, w := range posting.Accounts {
		accountBatch.Queue(accountQuery,
			w.Account.Balance,
			w.Account.Version,
			w.Account.UpdatedAt,
			w.Account.AccountID,
			w.ExpectedVersion,
		)
	}
	if err := r.execAccountBatch(ctx, tx, accountBatch, posting.Accounts); err != nil {
		return err
	}

	// 3. Insert entries
	entryBatch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, e := range posting.Entries {
		entryBatch.Queue(entryQuery,
			e.EntryID,
			e.JournalID,
			e.AccountID,
			e.EntryType,
			e.Amount,
			e.Currency,
			e.Description,
			e.PostedAt,
		)
	}
	// Close the batch results to check for errors in each command
	if err := tx.SendBatch(ctx, entryBatch).Close(); err != nil {
		if code, _, ok := pgErrorCode(err); ok && code == pgForeignKeyViolation {
			return fmt.Errorf("%w: entry references a missing account", apperrors.ErrUnknownAccount)
		}
		return apperrors.NewAppError(500, "failed to insert entries for journal "+journal.JournalID, err)
	}

	// 4. Flip the reversed journal, only if it is still POSTED
	if posting.MarkReversed != nil {
		tag, err := tx.Exec(ctx, `
			UPDATE journals
			SET status = $1, reversed_by = $2, updated_at = $3
			WHERE journal_id = $4 AND status = $5;
		`, domain.Reversed, journal.JournalID, journal.PostedAt, *posting.MarkReversed, domain.Posted)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark journal "+*posting.MarkReversed+" reversed", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: journal %s", apperrors.ErrAlreadyReversed, *posting.MarkReversed)
		}
	}

	// If all inserts/updates were successful, commit the transaction
	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) execAccountBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, writes []domain.AccountWrite) error {
	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	for _, w := range writes {
		tag, err := br.Exec()
		if err != nil {
			return apperrors.NewAppError(500, "failed to update account "+w.Account.AccountID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: account %s no longer at version %d",
				apperrors.ErrVersionMismatch, w.Account.AccountID, w.ExpectedVersion)
		}
	}
	return br.Close()
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.LedgerJournal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	j, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
		}
		return nil, apperrors.NewAppError(500, "failed to find journal "+journalID, err)
	}
	return &j, nil
}

// FindJournalByReferenceID returns (nil, nil) when the reference is unused.
func (r *PgxJournalRepository) FindJournalByReferenceID(ctx context.Context, referenceID string) (*domain.LedgerJournal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE reference_id = $1;`

	j, err := scanJournal(r.Pool.QueryRow(ctx, query, referenceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by reference "+referenceID, err)
	}
	return &j, nil
}

// FindEntriesByJournalID retrieves all entries of a journal in insertion order.
func (r *PgxJournalRepository) FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE journal_id = $1 ORDER BY seq ASC;`

	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries for journal "+journalID, err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row for journal "+journalID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry rows for journal "+journalID, err)
	}
	return entries, nil
}

// ListEntriesByAccountID retrieves a page of an account's entries, newest first.
func (r *PgxJournalRepository) ListEntriesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	// Default limit handling
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM entries WHERE account_id = $1`
	// Ordering is crucial and must be stable
	orderByClause := `ORDER BY posted_at DESC, entry_id DESC`
	args := []any{accountID}

	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastPostedAt, lastEntryID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr))
		}
		// Tuple comparison is concise and efficient in Postgres
		query += ` AND (posted_at, entry_id) < ($2, $3)`
		args = append(args, lastPostedAt, lastEntryID)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for account "+accountID, err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for account "+accountID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for account "+accountID, err)
	}

	// Determine the next token
	var nextTokenVal *string
	if len(entries) > limit {
		// The token points to the last item included in this page.
		last := entries[limit-1]
		token := pagination.EncodeToken(last.PostedAt, last.EntryID)
		nextTokenVal = &token
		entries = entries[:limit]
	}
	return entries, nextTokenVal, nil
}
