package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether an entry is a debit or a credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// Valid reports whether t is DEBIT or CREDIT.
func (t EntryType) Valid() bool {
	return t == Debit || t == Credit
}

// Opposite swaps DEBIT and CREDIT.
func (t EntryType) Opposite() EntryType {
	if t == Debit {
		return Credit
	}
	return Debit
}

// LedgerEntry is one leg of a journal, targeting exactly one account. Immutable once posted.
type LedgerEntry struct {
	EntryID     string          `json:"entryID"`
	JournalID   string          `json:"journalID"`
	AccountID   string          `json:"accountID"`
	EntryType   EntryType       `json:"entryType"`
	Amount      decimal.Decimal `json:"amount"` // always positive
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
	PostedAt    time.Time       `json:"postedAt"`
}

// EntryDraft is one requested leg of a journal before posting.
type EntryDraft struct {
	AccountID   string
	EntryType   EntryType
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// Mirror returns a draft that offsets e: same account, amount and currency, opposite side.
func Mirror(e LedgerEntry) EntryDraft {
	return EntryDraft{
		AccountID:   e.AccountID,
		EntryType:   e.EntryType.Opposite(),
		Amount:      e.Amount,
		Currency:    e.Currency,
		Description: e.Description,
	}
}
