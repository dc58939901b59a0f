package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/SscSPs/ledger_engine/internal/utils/clock"
)

// Default retry policy for optimistic version conflicts.
const (
	DefaultMaxAttempts     uint = 5
	DefaultInitialInterval      = 10 * time.Millisecond
	DefaultMaxInterval          = 250 * time.Millisecond
)

// postingEngine posts and reverses journals and owns every account balance write.
type postingEngine struct {
	BaseService
	accountRepo portsrepo.AccountReader
	journalRepo portsrepo.JournalRepositoryFacade
	sink        portssvc.JournalEventSink

	rule            accounting.BalanceRule
	maxAttempts     uint
	initialInterval time.Duration
	maxInterval     time.Duration
}

// EngineOption is a functional option for configuring the posting engine
type EngineOption func(*postingEngine)

// WithClock sets the time source used for postedAt and audit timestamps.
func WithClock(c clock.Clock) EngineOption {
	return func(s *postingEngine) {
		s.Clock = c
	}
}

// WithEventSink registers the receiver of journal posted/reversed facts.
func WithEventSink(sink portssvc.JournalEventSink) EngineOption {
	return func(s *postingEngine) {
		s.sink = sink
	}
}

// WithBalanceRule selects how entries move account balances.
func WithBalanceRule(rule accounting.BalanceRule) EngineOption {
	return func(s *postingEngine) {
		s.rule = rule
	}
}

// WithRetryPolicy bounds the optimistic-concurrency retry loop.
// Zero values keep the defaults.
func WithRetryPolicy(maxAttempts uint, initial, ceiling time.Duration) EngineOption {
	return func(s *postingEngine) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if initial > 0 {
			s.initialInterval = initial
		}
		if ceiling > 0 {
			s.maxInterval = ceiling
		}
	}
}

// NewPostingEngine creates the journal service.
func NewPostingEngine(accountRepo portsrepo.AccountReader, journalRepo portsrepo.JournalRepositoryFacade, options ...EngineOption) portssvc.JournalSvcFacade {
	svc := &postingEngine{
		BaseService:     BaseService{Clock: clock.System{}},
		accountRepo:     accountRepo,
		journalRepo:     journalRepo,
		rule:            accounting.Additive,
		maxAttempts:     DefaultMaxAttempts,
		initialInterval: DefaultInitialInterval,
		maxInterval:     DefaultMaxInterval,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure postingEngine implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*postingEngine)(nil)

// PostJournal validates and posts a journal.
// Validation failures are reported before anything is written.
func (s *postingEngine) PostJournal(ctx context.Context, draft domain.JournalDraft, entries []domain.EntryDraft) (*domain.LedgerJournal, error) {
	journal, err := s.post(ctx, draft, entries, nil)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Journal posted",
		slog.String("journal_id", journal.JournalID),
		slog.String("reference_id", journal.ReferenceID),
		slog.Int("entry_count", len(journal.Entries)))

	if s.sink != nil {
		if err := s.sink.JournalPosted(ctx, *journal); err != nil {
			s.LogError(ctx, err, "Failed to emit journal posted event", slog.String("journal_id", journal.JournalID))
		}
	}
	return journal, nil
}

// ReverseJournal posts the mirror image of journalID under "<reference>-REV" and flips the original to REVERSED.
func (s *postingEngine) ReverseJournal(ctx context.Context, journalID string, reason string) (*domain.LedgerJournal, error) {
	logger := s.GetLogger(ctx).With(slog.String("journal_id", journalID))

	original, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Journal not found for reversal")
		} else {
			logger.Error("Failed to fetch journal for reversal", slog.String("error", err.Error()))
		}
		return nil, err
	}

	if original.Status == domain.Reversed {
		logger.Warn("Journal already reversed", slog.Any("reversed_by", original.ReversedBy))
		return nil, fmt.Errorf("%w: journal %s", apperrors.ErrAlreadyReversed, journalID)
	}
	if original.IsReversal() {
		logger.Warn("Attempted to reverse a reversal", slog.String("reversal_of", *original.ReversalOf))
		return nil, fmt.Errorf("%w: journal %s reverses %s", apperrors.ErrReversalOfReversal, journalID, *original.ReversalOf)
	}

	originalEntries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch entries for reversal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve entries of journal %s: %w", journalID, err)
	}

	mirrored := make([]domain.EntryDraft, len(originalEntries))
	for i, e := range originalEntries {
		mirrored[i] = domain.Mirror(e)
	}

	draft := domain.JournalDraft{
		ReferenceID: original.ReversalReference(),
		Description: reason,
		ReversalOf:  &original.JournalID,
	}

	reversal, err := s.post(ctx, draft, mirrored, &original.JournalID)
	if err != nil {
		return nil, err
	}

	original.Status = domain.Reversed
	original.ReversedBy = &reversal.JournalID
	original.UpdatedAt = reversal.PostedAt
	original.Entries = originalEntries

	logger.Info("Journal reversed", slog.String("reversal_id", reversal.JournalID))

	if s.sink != nil {
		if err := s.sink.JournalReversed(ctx, *original, *reversal); err != nil {
			s.LogError(ctx, err, "Failed to emit journal reversed event", slog.String("journal_id", journalID))
		}
	}
	return reversal, nil
}

// post runs the shared validation and persistence path.
// markReversed names a journal to flip to REVERSED in the same store unit.
func (s *postingEngine) post(ctx context.Context, draft domain.JournalDraft, entries []domain.EntryDraft, markReversed *string) (*domain.LedgerJournal, error) {
	logger := s.GetLogger(ctx).With(slog.String("reference_id", draft.ReferenceID))

	if strings.TrimSpace(draft.ReferenceID) == "" {
		return nil, fmt.Errorf("%w: referenceID is required", apperrors.ErrValidation)
	}

	existing, err := s.journalRepo.FindJournalByReferenceID(ctx, draft.ReferenceID)
	if err != nil {
		logger.Error("Failed to look up journal reference", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up reference %s: %w", draft.ReferenceID, err)
	}
	if existing != nil {
		logger.Info("Journal reference already used", slog.String("journal_id", existing.JournalID))
		return nil, fmt.Errorf("%w: %s (journal %s)", apperrors.ErrDuplicateReference, draft.ReferenceID, existing.JournalID)
	}

	if err := validateEntryDrafts(entries); err != nil {
		return nil, err
	}

	expBackOff := backoff.NewExponentialBackOff()
	expBackOff.InitialInterval = s.initialInterval
	expBackOff.MaxInterval = s.maxInterval

	attempt := 0
	operation := func() (*domain.LedgerJournal, error) {
		attempt++
		posting, err := s.buildPosting(ctx, draft, entries, markReversed)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if err := s.journalRepo.SavePosting(ctx, *posting); err != nil {
			if apperrors.IsRetryable(err) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		journal := posting.Journal
		journal.Entries = posting.Entries
		return &journal, nil
	}

	journal, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expBackOff),
		backoff.WithMaxTries(s.maxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Debug("Account version moved, retrying posting",
				slog.Int("attempt", attempt),
				slog.Duration("backoff", next),
				slog.String("error", err.Error()))
		}),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Unwrap()
		}
		if apperrors.IsRetryable(err) {
			logger.Warn("Posting gave up after version conflicts", slog.Int("attempts", attempt))
			return nil, fmt.Errorf("%w: reference %s after %d attempts", apperrors.ErrConflict, draft.ReferenceID, attempt)
		}
		if isValidationFailure(err) {
			logger.Info("Journal rejected", slog.String("error", err.Error()))
		} else {
			logger.Error("Failed to post journal", slog.String("error", err.Error()))
		}
		return nil, err
	}
	return journal, nil
}

// buildPosting reads the current accounts and derives the full write set for one attempt.
func (s *postingEngine) buildPosting(ctx context.Context, draft domain.JournalDraft, entries []domain.EntryDraft, markReversed *string) (*domain.Posting, error) {
	accountIDs := uniqueAccountIDs(entries)
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, id := range accountIDs {
		if _, found := accounts[id]; !found {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, id)
		}
	}
	for _, e := range entries {
		acc := accounts[e.AccountID]
		// Applies to reversals too: a frozen or closed account blocks them.
		if !acc.IsActive() {
			return nil, fmt.Errorf("%w: account %s is %s", apperrors.ErrAccountInactive, acc.AccountID, acc.Status)
		}
		if acc.Currency != e.Currency {
			return nil, fmt.Errorf("%w: entry in %s, account %s holds %s", apperrors.ErrCurrencyMismatch, e.Currency, acc.AccountID, acc.Currency)
		}
	}

	if err := accounting.ValidateJournalBalance(entries); err != nil {
		return nil, err
	}

	deltas := make(map[string]decimal.Decimal, len(accountIDs))
	for _, e := range entries {
		delta, err := accounting.BalanceDelta(s.rule, e.EntryType, e.Amount, accounts[e.AccountID].AccountType)
		if err != nil {
			return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
		}
		deltas[e.AccountID] = deltas[e.AccountID].Add(delta)
	}

	now := s.Now()
	journalID := uuid.NewString()

	journal := domain.LedgerJournal{
		JournalID:   journalID,
		ReferenceID: draft.ReferenceID,
		Description: draft.Description,
		Status:      domain.Posted,
		PostedAt:    now,
		ReversalOf:  draft.ReversalOf,
		Timestamps:  domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}

	ledgerEntries := make([]domain.LedgerEntry, len(entries))
	for i, e := range entries {
		ledgerEntries[i] = domain.LedgerEntry{
			EntryID:     uuid.NewString(),
			JournalID:   journalID,
			AccountID:   e.AccountID,
			EntryType:   e.EntryType,
			Amount:      e.Amount,
			Currency:    e.Currency,
			Description: e.Description,
			PostedAt:    now,
		}
	}

	// sorted so concurrent writers touch rows in the same order
	sortedIDs := append([]string(nil), accountIDs...)
	sort.Strings(sortedIDs)
	writes := make([]domain.AccountWrite, 0, len(sortedIDs))
	for _, id := range sortedIDs {
		acc := accounts[id]
		expected := acc.Version
		acc.Balance = acc.Balance.Add(deltas[id])
		acc.Version = expected + 1
		acc.UpdatedAt = now
		writes = append(writes, domain.AccountWrite{Account: acc, ExpectedVersion: expected})
	}

	return &domain.Posting{
		Journal:      journal,
		Entries:      ledgerEntries,
		Accounts:     writes,
		MarkReversed: markReversed,
	}, nil
}

// GetJournal retrieves a journal together with its entries.
func (s *postingEngine) GetJournal(ctx context.Context, journalID string) (*domain.LedgerJournal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal by ID", slog.String("journal_id", journalID))
		}
		return nil, err
	}

	entries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch entries for journal", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to retrieve entries for journal %s: %w", journalID, apperrors.ErrInternal)
	}
	journal.Entries = entries

	s.LogDebug(ctx, "Journal retrieved", slog.String("journal_id", journalID), slog.Int("entry_count", len(entries)))
	return journal, nil
}

// GetAccount retrieves an account with its current balance.
func (s *postingEngine) GetAccount(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// ListEntries retrieves the entries of one journal. An unknown journal yields ErrNotFound.
func (s *postingEngine) ListEntries(ctx context.Context, journalID string) ([]domain.LedgerEntry, error) {
	if _, err := s.journalRepo.FindJournalByID(ctx, journalID); err != nil {
		return nil, err
	}
	entries, err := s.journalRepo.FindEntriesByJournalID(ctx, journalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries for journal", slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}
	return entries, nil
}

// ListAccountEntries retrieves the entries posted to an account, newest first.
func (s *postingEngine) ListAccountEntries(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	// Set default limit if not provided
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntriesByAccountID(ctx, accountID, limit, params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list entries by account", slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	s.LogDebug(ctx, "Entries listed for account", slog.String("account_id", accountID), slog.Int("count", len(entries)))
	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// validateEntryDrafts checks the shape of each requested entry.
func validateEntryDrafts(entries []domain.EntryDraft) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: journal must have at least one entry", apperrors.ErrValidation)
	}
	for i, e := range entries {
		if e.AccountID == "" {
			return fmt.Errorf("%w: entry %d has no account", apperrors.ErrValidation, i)
		}
		if !e.EntryType.Valid() {
			return fmt.Errorf("%w: entry %d has invalid type %q", apperrors.ErrValidation, i, e.EntryType)
		}
		if !e.Amount.IsPositive() {
			return fmt.Errorf("%w: entry %d amount must be positive, got %s", apperrors.ErrValidation, i, e.Amount.String())
		}
		if !accounting.HasSupportedScale(e.Amount) {
			return fmt.Errorf("%w: entry %d amount %s has more than %d decimal places",
				apperrors.ErrValidation, i, e.Amount.String(), accounting.AmountScale)
		}
		if e.Currency == "" {
			return fmt.Errorf("%w: entry %d has no currency", apperrors.ErrValidation, i)
		}
	}
	return nil
}

func isValidationFailure(err error) bool {
	for _, target := range []error{
		apperrors.ErrValidation,
		apperrors.ErrUnknownAccount,
		apperrors.ErrUnbalancedJournal,
		apperrors.ErrAccountInactive,
		apperrors.ErrCurrencyMismatch,
		apperrors.ErrDuplicate,
		apperrors.ErrAlreadyReversed,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// uniqueAccountIDs returns the distinct account IDs in first-seen order.
func uniqueAccountIDs(entries []domain.EntryDraft) []string {
	seen := make(map[string]struct{}, len(entries))
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.AccountID]; !ok {
			seen[e.AccountID] = struct{}{}
			result = append(result, e.AccountID)
		}
	}
	return result
}
