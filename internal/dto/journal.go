package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest is one leg of a journal to post.
type CreateEntryRequest struct {
	AccountID   string           `json:"accountID" binding:"required"`
	EntryType   domain.EntryType `json:"entryType" binding:"required,oneof=DEBIT CREDIT"`
	Amount      decimal.Decimal  `json:"amount"`
	Currency    string           `json:"currency" binding:"required,iso4217"`
	Description string           `json:"description"`
}

// PostJournalRequest defines the data needed to post a journal.
type PostJournalRequest struct {
	ReferenceID string               `json:"referenceID" binding:"required"`
	Description string               `json:"description"`
	Entries     []CreateEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// ReverseJournalRequest carries the reason recorded on the reversal journal.
type ReverseJournalRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ToDrafts converts the request into the engine's input types.
func (r PostJournalRequest) ToDrafts() (domain.JournalDraft, []domain.EntryDraft) {
	entries := make([]domain.EntryDraft, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = domain.EntryDraft{
			AccountID:   e.AccountID,
			EntryType:   e.EntryType,
			Amount:      e.Amount,
			Currency:    e.Currency,
			Description: e.Description,
		}
	}
	return domain.JournalDraft{ReferenceID: r.ReferenceID, Description: r.Description}, entries
}

// EntryResponse defines the data returned for an entry.
type EntryResponse struct {
	EntryID     string           `json:"entryID"`
	JournalID   string           `json:"journalID"`
	AccountID   string           `json:"accountID"`
	EntryType   domain.EntryType `json:"entryType"`
	Amount      decimal.Decimal  `json:"amount"`
	Currency    string           `json:"currency"`
	Description string           `json:"description,omitempty"`
	PostedAt    time.Time        `json:"postedAt"`
}

// JournalResponse defines the data returned for a journal.
type JournalResponse struct {
	JournalID   string               `json:"journalID"`
	ReferenceID string               `json:"referenceID"`
	Description string               `json:"description"`
	Status      domain.JournalStatus `json:"status"`
	PostedAt    time.Time            `json:"postedAt"`
	ReversalOf  *string              `json:"reversalOf,omitempty"`
	ReversedBy  *string              `json:"reversedBy,omitempty"`
	Entries     []EntryResponse      `json:"entries"`
}

// ToEntryResponse converts a domain.LedgerEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:     e.EntryID,
		JournalID:   e.JournalID,
		AccountID:   e.AccountID,
		EntryType:   e.EntryType,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Description: e.Description,
		PostedAt:    e.PostedAt,
	}
}

// ToEntryResponses converts a slice of domain.LedgerEntry to []EntryResponse.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToEntryResponse(&e)
	}
	return responses
}

// ToJournalResponse converts a domain.LedgerJournal to JournalResponse DTO.
func ToJournalResponse(j *domain.LedgerJournal) JournalResponse {
	return JournalResponse{
		JournalID:   j.JournalID,
		ReferenceID: j.ReferenceID,
		Description: j.Description,
		Status:      j.Status,
		PostedAt:    j.PostedAt,
		ReversalOf:  j.ReversalOf,
		ReversedBy:  j.ReversedBy,
		Entries:     ToEntryResponses(j.Entries),
	}
}

// ListEntriesParams defines query parameters for listing an account's entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}
