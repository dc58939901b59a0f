package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func sampleJournal(id, ref string) *domain.LedgerJournal {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.LedgerJournal{
		JournalID:   id,
		ReferenceID: ref,
		Status:      domain.Posted,
		PostedAt:    at,
		Entries: []domain.LedgerEntry{
			{EntryID: id + "-1", JournalID: id, AccountID: "A", EntryType: domain.Debit, Amount: decimal.NewFromInt(100), Currency: "USD", PostedAt: at},
			{EntryID: id + "-2", JournalID: id, AccountID: "B", EntryType: domain.Credit, Amount: decimal.NewFromInt(100), Currency: "USD", PostedAt: at},
		},
	}
}

func postBody(ref string) map[string]any {
	return map[string]any{
		"referenceID": ref,
		"description": "rent",
		"entries": []map[string]any{
			{"accountID": "A", "entryType": "DEBIT", "amount": "100.00", "currency": "USD"},
			{"accountID": "B", "entryType": "CREDIT", "amount": "100.00", "currency": "USD"},
		},
	}
}

func (suite *HandlerTestSuite) TestPostJournal_Success() {
	suite.mockJournalService.On("PostJournal",
		mock.Anything,
		domain.JournalDraft{ReferenceID: "ref-1", Description: "rent"},
		mock.MatchedBy(func(entries []domain.EntryDraft) bool {
			return len(entries) == 2 &&
				entries[0].AccountID == "A" && entries[0].EntryType == domain.Debit &&
				entries[0].Amount.Equal(decimal.NewFromInt(100))
		}),
	).Return(sampleJournal("J1", "ref-1"), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals", postBody("ref-1"))

	suite.Equal(http.StatusCreated, w.Code)
	suite.Contains(w.Body.String(), `"journalID":"J1"`)
	suite.Contains(w.Body.String(), `"status":"POSTED"`)
}

func (suite *HandlerTestSuite) TestPostJournal_ErrorMapping() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unbalanced", fmt.Errorf("%w: USD debits 100 credits 90", apperrors.ErrUnbalancedJournal), http.StatusUnprocessableEntity},
		{"unknown account", fmt.Errorf("%w: Z", apperrors.ErrUnknownAccount), http.StatusUnprocessableEntity},
		{"inactive", fmt.Errorf("%w: A", apperrors.ErrAccountInactive), http.StatusUnprocessableEntity},
		{"currency", fmt.Errorf("%w: A", apperrors.ErrCurrencyMismatch), http.StatusUnprocessableEntity},
		{"validation", fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation), http.StatusBadRequest},
		{"duplicate reference", fmt.Errorf("%w: ref-1", apperrors.ErrDuplicateReference), http.StatusConflict},
		{"conflict", fmt.Errorf("%w: gave up", apperrors.ErrConflict), http.StatusConflict},
		{"internal", errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.mockJournalService.On("PostJournal", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/journals", postBody("ref-x"))

			suite.Equal(tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				suite.NotContains(w.Body.String(), "db exploded")
			}
		})
	}
}

func (suite *HandlerTestSuite) TestPostJournal_BindingErrors() {
	noEntries := postBody("ref-1")
	noEntries["entries"] = []map[string]any{}
	badSide := postBody("ref-1")
	badSide["entries"] = []map[string]any{{"accountID": "A", "entryType": "SIDEWAYS", "amount": "1", "currency": "USD"}}
	noRef := postBody("")
	nonISO := postBody("ref-1")
	nonISO["entries"] = []map[string]any{
		{"accountID": "A", "entryType": "DEBIT", "amount": "1", "currency": "ABC"},
		{"accountID": "B", "entryType": "CREDIT", "amount": "1", "currency": "ABC"},
	}

	for name, body := range map[string]map[string]any{
		"no entries":       noEntries,
		"bad side":         badSide,
		"no reference":     noRef,
		"non-ISO currency": nonISO,
	} {
		suite.Run(name, func() {
			w := suite.do(http.MethodPost, "/api/v1/journals", body)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.mockJournalService.AssertNotCalled(suite.T(), "PostJournal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetJournal() {
	suite.mockJournalService.On("GetJournal", mock.Anything, "J1").Return(sampleJournal("J1", "ref-1"), nil).Once()
	suite.mockJournalService.On("GetJournal", mock.Anything, "J9").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/J1", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"entryID":"J1-2"`)

	w = suite.do(http.MethodGet, "/api/v1/journals/J9", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListJournalEntries() {
	suite.mockJournalService.On("ListEntries", mock.Anything, "J1").Return(sampleJournal("J1", "ref-1").Entries, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journals/J1/entries", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"entryID":"J1-1"`)
}

func (suite *HandlerTestSuite) TestReverseJournal() {
	original := "J1"
	reversal := sampleJournal("J2", "ref-1-REV")
	reversal.ReversalOf = &original

	suite.mockJournalService.On("ReverseJournal", mock.Anything, "J1", "posted twice").Return(reversal, nil).Once()
	suite.mockJournalService.On("ReverseJournal", mock.Anything, "J2", "again").
		Return(nil, fmt.Errorf("%w: J2", apperrors.ErrReversalOfReversal)).Once()
	suite.mockJournalService.On("ReverseJournal", mock.Anything, "J3", "again").
		Return(nil, fmt.Errorf("%w: J3", apperrors.ErrAlreadyReversed)).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/J1/reverse", map[string]string{"reason": "posted twice"})
	suite.Equal(http.StatusCreated, w.Code)
	suite.Contains(w.Body.String(), `"reversalOf":"J1"`)

	w = suite.do(http.MethodPost, "/api/v1/journals/J2/reverse", map[string]string{"reason": "again"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/journals/J3/reverse", map[string]string{"reason": "again"})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/journals/J1/reverse", map[string]string{})
	suite.Equal(http.StatusBadRequest, w.Code)
}
