// Package memory is a mutex-guarded ledger store with the same contract as the Postgres store.
// It backs STORE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

type Store struct {
	mu sync.RWMutex

	accounts map[string]domain.LedgerAccount
	journals map[string]domain.LedgerJournal
	// referenceID -> journalID; the uniqueness index
	references map[string]string
	// journalID -> entries in insertion order
	entries map[string][]domain.LedgerEntry
	// accountID -> entries in insertion order
	accountEntries map[string][]domain.LedgerEntry
}

func New() *Store {
	return &Store{
		accounts:       make(map[string]domain.LedgerAccount),
		journals:       make(map[string]domain.LedgerJournal),
		references:     make(map[string]string),
		entries:        make(map[string][]domain.LedgerEntry),
		accountEntries: make(map[string][]domain.LedgerEntry),
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade = (*Store)(nil)
)

// Account store implementation

func (s *Store) SaveAccount(_ context.Context, account domain.LedgerAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) UpdateAccountStatus(_ context.Context, accountID string, status domain.AccountStatus, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	acc.Status = status
	acc.UpdatedAt = now
	s.accounts[accountID] = acc
	return nil
}

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.LedgerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if acc, ok := s.accounts[accountID]; ok {
		return &acc, nil
	}
	return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
}

func (s *Store) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.LedgerAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]domain.LedgerAccount, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := s.accounts[id]; ok {
			result[id] = acc
		}
	}
	return result, nil
}

func (s *Store) ListAccounts(_ context.Context, limit int, offset int) ([]domain.LedgerAccount, error) {
	s.mu.RLock()
	all := make([]domain.LedgerAccount, 0, len(s.accounts))
	for _, acc := range s.accounts {
		all = append(all, acc)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Name == all[j].Name {
			return all[i].AccountID < all[j].AccountID
		}
		return all[i].Name < all[j].Name
	})

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []domain.LedgerAccount{}, nil
	}
	end := len(all)
	if offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// Journal store implementation

func (s *Store) FindJournalByID(_ context.Context, journalID string) (*domain.LedgerJournal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if j, ok := s.journals[journalID]; ok {
		return &j, nil
	}
	return nil, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
}

func (s *Store) FindJournalByReferenceID(_ context.Context, referenceID string) (*domain.LedgerJournal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.references[referenceID]
	if !ok {
		return nil, nil
	}
	j := s.journals[id]
	return &j, nil
}

func (s *Store) FindEntriesByJournalID(_ context.Context, journalID string) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.LedgerEntry{}, s.entries[journalID]...), nil
}

func (s *Store) ListEntriesByAccountID(_ context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	var (
		cursorAt  time.Time
		cursorID  string
		hasCursor bool
	)
	if nextToken != nil && *nextToken != "" {
		at, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursorAt, cursorID, hasCursor = at, id, true
	}

	if limit <= 0 {
		limit = 20
	}

	s.mu.RLock()
	all := append([]domain.LedgerEntry{}, s.accountEntries[accountID]...)
	s.mu.RUnlock()

	// newest first, ties broken by entry ID descending
	sort.Slice(all, func(i, j int) bool {
		if all[i].PostedAt.Equal(all[j].PostedAt) {
			return all[i].EntryID > all[j].EntryID
		}
		return all[i].PostedAt.After(all[j].PostedAt)
	})

	page := make([]domain.LedgerEntry, 0, limit)
	var next *string
	for _, e := range all {
		if hasCursor && !pagination.After(e.PostedAt, e.EntryID, cursorAt, cursorID) {
			continue
		}
		if len(page) == limit {
			last := page[len(page)-1]
			token := pagination.EncodeToken(last.PostedAt, last.EntryID)
			next = &token
			break
		}
		page = append(page, e)
	}
	return page, next, nil
}

// SavePosting checks every precondition under the write lock before mutating anything,
// so a failed posting leaves the store untouched.
func (s *Store) SavePosting(_ context.Context, posting domain.Posting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	journal := posting.Journal
	if _, exists := s.references[journal.ReferenceID]; exists {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateReference, journal.ReferenceID)
	}

	for _, w := range posting.Accounts {
		current, ok := s.accounts[w.Account.AccountID]
		if !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, w.Account.AccountID)
		}
		if current.Version != w.ExpectedVersion {
			return fmt.Errorf("%w: account %s at version %d, expected %d",
				apperrors.ErrVersionMismatch, current.AccountID, current.Version, w.ExpectedVersion)
		}
	}

	var original domain.LedgerJournal
	if posting.MarkReversed != nil {
		orig, ok := s.journals[*posting.MarkReversed]
		if !ok {
			return fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, *posting.MarkReversed)
		}
		if orig.Status != domain.Posted {
			return fmt.Errorf("%w: journal %s", apperrors.ErrAlreadyReversed, orig.JournalID)
		}
		original = orig
	}

	// all checks passed; apply
	journal.Entries = nil
	s.journals[journal.JournalID] = journal
	s.references[journal.ReferenceID] = journal.JournalID
	for _, e := range posting.Entries {
		s.entries[journal.JournalID] = append(s.entries[journal.JournalID], e)
		s.accountEntries[e.AccountID] = append(s.accountEntries[e.AccountID], e)
	}
	for _, w := range posting.Accounts {
		s.accounts[w.Account.AccountID] = w.Account
	}
	if posting.MarkReversed != nil {
		original.Status = domain.Reversed
		original.ReversedBy = &journal.JournalID
		original.UpdatedAt = journal.PostedAt
		s.journals[original.JournalID] = original
	}
	return nil
}
