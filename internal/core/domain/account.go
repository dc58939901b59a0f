package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// NormalSide is the entry side on which an account of this type increases.
func (t AccountType) NormalSide() EntryType {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// AccountStatus is the lifecycle state of a ledger account.
type AccountStatus string

const (
	AccountActive AccountStatus = "ACTIVE"
	AccountFrozen AccountStatus = "FROZEN"
	AccountClosed AccountStatus = "CLOSED"
)

// Valid reports whether s is one of the known account statuses.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountFrozen, AccountClosed:
		return true
	}
	return false
}

// CanTransitionTo reports whether an account may move from s to next.
// CLOSED is terminal.
func (s AccountStatus) CanTransitionTo(next AccountStatus) bool {
	if !next.Valid() || s == next {
		return false
	}
	return s != AccountClosed
}

// LedgerAccount is a named financial bucket whose balance is owned by the posting engine.
type LedgerAccount struct {
	AccountID   string          `json:"accountID"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Status      AccountStatus   `json:"status"`
	Currency    string          `json:"currency"`
	ExternalRef *string         `json:"externalRef,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
	Version     int64           `json:"version"` // bumped on every balance write
	Timestamps
}

// IsActive reports whether the account accepts postings.
func (a LedgerAccount) IsActive() bool {
	return a.Status == AccountActive
}
