package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new ledger account.
type CreateAccountRequest struct {
	Name        string             `json:"name" binding:"required"`
	AccountType domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	Currency    string             `json:"currency" binding:"required,iso4217"`
	ExternalRef *string            `json:"externalRef"` // Optional
}

// UpdateAccountStatusRequest moves an account to a new lifecycle status.
type UpdateAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=ACTIVE FROZEN CLOSED"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.LedgerAccount.
type AccountResponse struct {
	AccountID   string               `json:"accountID"`
	Name        string               `json:"name"`
	AccountType domain.AccountType   `json:"accountType"`
	Status      domain.AccountStatus `json:"status"`
	Currency    string               `json:"currency"`
	ExternalRef *string              `json:"externalRef,omitempty"`
	Balance     decimal.Decimal      `json:"balance"`
	Version     int64                `json:"version"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ToAccountResponse converts a domain.LedgerAccount to AccountResponse DTO
func ToAccountResponse(acc *domain.LedgerAccount) AccountResponse {
	return AccountResponse{
		AccountID:   acc.AccountID,
		Name:        acc.Name,
		AccountType: acc.AccountType,
		Status:      acc.Status,
		Currency:    acc.Currency,
		ExternalRef: acc.ExternalRef,
		Balance:     acc.Balance,
		Version:     acc.Version,
		CreatedAt:   acc.CreatedAt,
		UpdatedAt:   acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.LedgerAccount to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.LedgerAccount) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc) // Reuse the single converter
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}
