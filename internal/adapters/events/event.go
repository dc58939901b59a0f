// Package events publishes facts about committed journals to external systems.
package events

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	EventJournalPosted   = "journal.posted"
	EventJournalReversed = "journal.reversed"
)

// JournalEvent is the wire payload shared by every sink.
type JournalEvent struct {
	EventType   string         `json:"eventType"`
	JournalID   string         `json:"journalID"`
	ReferenceID string         `json:"referenceID"`
	Description string         `json:"description,omitempty"`
	PostedAt    time.Time      `json:"postedAt"`
	ReversalOf  *string        `json:"reversalOf,omitempty"`
	Entries     []EventEntry   `json:"entries"`
	Totals      []CurrencyLine `json:"totals"`
	EmittedAt   time.Time      `json:"emittedAt"`
}

type EventEntry struct {
	EntryID   string           `json:"entryID"`
	AccountID string           `json:"accountID"`
	EntryType domain.EntryType `json:"entryType"`
	Amount    decimal.Decimal  `json:"amount"`
	Currency  string           `json:"currency"`
}

// CurrencyLine is the debit total of a journal in one currency.
type CurrencyLine struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func newJournalEvent(eventType string, j domain.LedgerJournal, now time.Time) JournalEvent {
	ev := JournalEvent{
		EventType:   eventType,
		JournalID:   j.JournalID,
		ReferenceID: j.ReferenceID,
		Description: j.Description,
		PostedAt:    j.PostedAt,
		ReversalOf:  j.ReversalOf,
		Entries:     make([]EventEntry, 0, len(j.Entries)),
		Totals:      make([]CurrencyLine, 0),
		EmittedAt:   now,
	}

	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, e := range j.Entries {
		ev.Entries = append(ev.Entries, EventEntry{
			EntryID:   e.EntryID,
			AccountID: e.AccountID,
			EntryType: e.EntryType,
			Amount:    e.Amount,
			Currency:  e.Currency,
		})
		if e.EntryType != domain.Debit {
			continue
		}
		if _, ok := totals[e.Currency]; !ok {
			order = append(order, e.Currency)
		}
		totals[e.Currency] = totals[e.Currency].Add(e.Amount)
	}
	for _, c := range order {
		ev.Totals = append(ev.Totals, CurrencyLine{Currency: c, Amount: totals[c]})
	}
	return ev
}

// PostedEvent builds the payload announcing a newly posted journal.
func PostedEvent(j domain.LedgerJournal, now time.Time) JournalEvent {
	return newJournalEvent(EventJournalPosted, j, now)
}

// ReversedEvent builds the payload announcing that original was offset by reversal.
// The payload describes the reversal journal; ReversalOf points at the original.
func ReversedEvent(original, reversal domain.LedgerJournal, now time.Time) JournalEvent {
	ev := newJournalEvent(EventJournalReversed, reversal, now)
	if ev.ReversalOf == nil {
		id := original.JournalID
		ev.ReversalOf = &id
	}
	return ev
}

// Marshal encodes the event as JSON.
func (e JournalEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
