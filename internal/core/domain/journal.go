package domain

import "time"

// JournalStatus indicates the state of a journal.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// ReversalSuffix is appended to a journal's reference to form its reversal's reference.
const ReversalSuffix = "-REV"

// LedgerJournal is an atomic, balanced group of entries representing one business event.
// A journal only exists once it has been validated and posted.
type LedgerJournal struct {
	JournalID   string        `json:"journalID"`
	ReferenceID string        `json:"referenceID"` // caller-supplied idempotency key, unique
	Description string        `json:"description"`
	Status      JournalStatus `json:"status"`
	PostedAt    time.Time     `json:"postedAt"`
	ReversalOf  *string       `json:"reversalOf,omitempty"`
	ReversedBy  *string       `json:"reversedBy,omitempty"`
	Timestamps

	Entries []LedgerEntry `json:"entries,omitempty"` // populated by read accessors only
}

// IsReversal reports whether this journal reverses another journal.
func (j LedgerJournal) IsReversal() bool {
	return j.ReversalOf != nil
}

// ReversalReference returns the reference a reversal of this journal is posted under.
func (j LedgerJournal) ReversalReference() string {
	return j.ReferenceID + ReversalSuffix
}

// JournalDraft is the caller's request to post a journal.
type JournalDraft struct {
	ReferenceID string
	Description string
	ReversalOf  *string
}
