package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

// --- Implement mock methods for AccountRepository ---

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.LedgerAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.LedgerAccount, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.LedgerAccount, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerAccount), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, now time.Time) error {
	args := m.Called(ctx, accountID, status, now)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	clock    *clock.Fixed
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.clock = clock.NewFixed(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	suite.service = services.NewAccountService(suite.mockRepo, suite.clock)
}

func TestAccountServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	ref := "crm-42"
	req := dto.CreateAccountRequest{
		Name:        "Operating Cash",
		AccountType: domain.Asset,
		Currency:    "usd",
		ExternalRef: &ref,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.LedgerAccount")).Return(nil).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdAccount)
	suite.NotEmpty(createdAccount.AccountID)
	suite.Equal(req.Name, createdAccount.Name)
	suite.Equal(domain.Asset, createdAccount.AccountType)
	suite.Equal("USD", createdAccount.Currency)
	suite.Equal(domain.AccountActive, createdAccount.Status)
	suite.True(createdAccount.Balance.IsZero())
	suite.Equal(int64(0), createdAccount.Version)
	suite.Equal(&ref, createdAccount.ExternalRef)
	suite.Equal(suite.clock.Now(), createdAccount.CreatedAt)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Invalid() {
	ctx := context.Background()

	for name, req := range map[string]dto.CreateAccountRequest{
		"blank name":   {Name: " ", AccountType: domain.Asset, Currency: "USD"},
		"bad type":     {Name: "x", AccountType: domain.AccountType("REVENUE"), Currency: "USD"},
		"bad currency": {Name: "x", AccountType: domain.Asset, Currency: "DOLLARS"},
	} {
		suite.Run(name, func() {
			_, err := suite.service.CreateAccount(ctx, req)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Name: "Test Error", AccountType: domain.Asset, Currency: "EUR"}

	expectedErr := assert.AnError // Simulate a repository error
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.LedgerAccount")).Return(expectedErr).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, req)

	suite.Require().Error(err)
	suite.Nil(createdAccount)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_Success() {
	ctx := context.Background()
	testID := uuid.NewString()
	expectedAccount := &domain.LedgerAccount{
		AccountID:   testID,
		Name:        "Found Account",
		AccountType: domain.Liability,
		Currency:    "CAD",
		Status:      domain.AccountActive,
	}

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(expectedAccount, nil).Once()

	account, err := suite.service.GetAccountByID(ctx, testID)

	suite.Require().NoError(err)
	suite.Equal(expectedAccount, account)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	testID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByID(ctx, testID)

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccounts_NilBecomesEmpty() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx, 20, 0).Return(nil, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, 20, 0)

	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)
}

func (suite *AccountServiceTestSuite) TestListAccounts_RepoError() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx, 5, 10).Return(nil, assert.AnError).Once()

	_, err := suite.service.ListAccounts(ctx, 5, 10)

	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestUpdateAccountStatus_Transitions() {
	ctx := context.Background()

	tests := []struct {
		from    domain.AccountStatus
		to      domain.AccountStatus
		allowed bool
	}{
		{domain.AccountActive, domain.AccountFrozen, true},
		{domain.AccountFrozen, domain.AccountActive, true},
		{domain.AccountActive, domain.AccountClosed, true},
		{domain.AccountFrozen, domain.AccountClosed, true},
		{domain.AccountClosed, domain.AccountActive, false},
		{domain.AccountClosed, domain.AccountFrozen, false},
		{domain.AccountActive, domain.AccountActive, false},
		{domain.AccountActive, domain.AccountStatus("DELETED"), false},
	}

	for _, tt := range tests {
		suite.Run(string(tt.from)+"->"+string(tt.to), func() {
			repo := new(MockAccountRepository)
			svc := services.NewAccountService(repo, suite.clock)
			repo.On("FindAccountByID", ctx, "A").Return(&domain.LedgerAccount{AccountID: "A", Status: tt.from}, nil).Once()
			if tt.allowed {
				repo.On("UpdateAccountStatus", ctx, "A", tt.to, suite.clock.Now()).Return(nil).Once()
			}

			acc, err := svc.UpdateAccountStatus(ctx, "A", tt.to)
			if tt.allowed {
				suite.Require().NoError(err)
				suite.Equal(tt.to, acc.Status)
			} else {
				suite.ErrorIs(err, apperrors.ErrValidation)
				repo.AssertNotCalled(suite.T(), "UpdateAccountStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			repo.AssertExpectations(suite.T())
		})
	}
}
