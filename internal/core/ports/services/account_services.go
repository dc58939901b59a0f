package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.LedgerAccount, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount opens a new ACTIVE account with a zero balance.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.LedgerAccount, error)

	// UpdateAccountStatus moves an account through ACTIVE, FROZEN and CLOSED.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus) (*domain.LedgerAccount, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
