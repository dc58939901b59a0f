package memory

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func seedAccount(t *testing.T, s *Store, id string) domain.LedgerAccount {
	t.Helper()
	acc := domain.LedgerAccount{
		AccountID:   id,
		Name:        "acc " + id,
		AccountType: domain.Asset,
		Status:      domain.AccountActive,
		Currency:    "USD",
		Balance:     decimal.Zero,
	}
	require.NoError(t, s.SaveAccount(context.Background(), acc))
	return acc
}

func posting(ref, journalID string, at time.Time, writes ...domain.AccountWrite) domain.Posting {
	p := domain.Posting{
		Journal: domain.LedgerJournal{
			JournalID:   journalID,
			ReferenceID: ref,
			Status:      domain.Posted,
			PostedAt:    at,
		},
		Accounts: writes,
	}
	for i, w := range writes {
		p.Entries = append(p.Entries, domain.LedgerEntry{
			EntryID:   journalID + "-" + string(rune('a'+i)),
			JournalID: journalID,
			AccountID: w.Account.AccountID,
			EntryType: domain.Debit,
			Amount:    decimal.NewFromInt(1),
			Currency:  "USD",
			PostedAt:  at,
		})
	}
	return p
}

func bump(acc domain.LedgerAccount, by int64) domain.AccountWrite {
	expected := acc.Version
	acc.Balance = acc.Balance.Add(decimal.NewFromInt(by))
	acc.Version++
	return domain.AccountWrite{Account: acc, ExpectedVersion: expected}
}

func TestSaveAccount_Duplicate(t *testing.T) {
	s := New()
	seedAccount(t, s, "A")
	err := s.SaveAccount(context.Background(), domain.LedgerAccount{AccountID: "A"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestFindAccountsByIDs_OmitsMissing(t *testing.T) {
	s := New()
	seedAccount(t, s, "A")

	got, err := s.FindAccountsByIDs(context.Background(), []string{"A", "missing"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "A")

	_, err = s.FindAccountByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListAccounts_Pages(t *testing.T) {
	s := New()
	for _, id := range []string{"c", "a", "b"} {
		seedAccount(t, s, id)
	}

	page, err := s.ListAccounts(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "a", page[0].AccountID)
	assert.Equal(t, "b", page[1].AccountID)

	page, err = s.ListAccounts(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].AccountID)

	page, err = s.ListAccounts(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestSavePosting_AppliesEverything(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedAccount(t, s, "A")

	require.NoError(t, s.SavePosting(ctx, posting("REF-1", "J1", t0, bump(a, 5))))

	acc, err := s.FindAccountByID(ctx, "A")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(acc.Balance))
	assert.Equal(t, int64(1), acc.Version)

	j, err := s.FindJournalByReferenceID(ctx, "REF-1")
	require.NoError(t, err)
	require.NotNil(t, j)
	assert.Equal(t, "J1", j.JournalID)

	entries, err := s.FindEntriesByJournalID(ctx, "J1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	none, err := s.FindJournalByReferenceID(ctx, "REF-unknown")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSavePosting_DuplicateReferenceLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedAccount(t, s, "A")
	require.NoError(t, s.SavePosting(ctx, posting("REF-1", "J1", t0, bump(a, 5))))

	a1, _ := s.FindAccountByID(ctx, "A")
	err := s.SavePosting(ctx, posting("REF-1", "J2", t0, bump(*a1, 5)))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateReference)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	after, _ := s.FindAccountByID(ctx, "A")
	assert.Equal(t, int64(1), after.Version)
	_, err = s.FindJournalByID(ctx, "J2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSavePosting_StaleVersion(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedAccount(t, s, "A")
	b := seedAccount(t, s, "B")

	require.NoError(t, s.SavePosting(ctx, posting("REF-1", "J1", t0, bump(a, 1))))

	// a is stale now; b is fresh. Nothing may be written.
	err := s.SavePosting(ctx, posting("REF-2", "J2", t0, bump(a, 1), bump(b, 1)))
	assert.ErrorIs(t, err, apperrors.ErrVersionMismatch)
	assert.True(t, apperrors.IsRetryable(err))

	bAfter, _ := s.FindAccountByID(ctx, "B")
	assert.Equal(t, int64(0), bAfter.Version)
	assert.True(t, bAfter.Balance.IsZero())
	j, _ := s.FindJournalByReferenceID(ctx, "REF-2")
	assert.Nil(t, j)
}

func TestSavePosting_MarkReversedOnlyOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := seedAccount(t, s, "A")
	require.NoError(t, s.SavePosting(ctx, posting("REF-1", "J1", t0, bump(a, 1))))

	a1, _ := s.FindAccountByID(ctx, "A")
	rev := posting("REF-1-REV", "J2", t0.Add(time.Minute), bump(*a1, 1))
	orig := "J1"
	rev.MarkReversed = &orig
	require.NoError(t, s.SavePosting(ctx, rev))

	j1, _ := s.FindJournalByID(ctx, "J1")
	assert.Equal(t, domain.Reversed, j1.Status)
	require.NotNil(t, j1.ReversedBy)
	assert.Equal(t, "J2", *j1.ReversedBy)

	a2, _ := s.FindAccountByID(ctx, "A")
	again := posting("REF-1-REV-2", "J3", t0, bump(*a2, 1))
	again.MarkReversed = &orig
	err := s.SavePosting(ctx, again)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyReversed)
}

func TestListEntriesByAccountID_Pagination(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedAccount(t, s, "A")

	for i := 0; i < 5; i++ {
		acc, _ := s.FindAccountByID(ctx, "A")
		id := "J" + string(rune('0'+i))
		require.NoError(t, s.SavePosting(ctx, posting("REF-"+id, id, t0.Add(time.Duration(i)*time.Minute), bump(*acc, 1))))
	}

	page1, next, err := s.ListEntriesByAccountID(ctx, "A", 2, nil)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, next)
	assert.Equal(t, "J4", page1[0].JournalID)
	assert.Equal(t, "J3", page1[1].JournalID)

	page2, next, err := s.ListEntriesByAccountID(ctx, "A", 2, next)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.NotNil(t, next)
	assert.Equal(t, "J2", page2[0].JournalID)

	page3, next, err := s.ListEntriesByAccountID(ctx, "A", 2, next)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Nil(t, next)
	assert.Equal(t, "J0", page3[0].JournalID)

	bad := "%%%"
	_, _, err = s.ListEntriesByAccountID(ctx, "A", 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
