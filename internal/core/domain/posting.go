package domain

// AccountWrite is an account carrying its new balance together with the version it was read at.
// Stores apply it only if the persisted version still equals ExpectedVersion.
type AccountWrite struct {
	Account         LedgerAccount
	ExpectedVersion int64
}

// Posting is the unit a store must apply all-or-nothing.
type Posting struct {
	Journal  LedgerJournal
	Entries  []LedgerEntry
	Accounts []AccountWrite

	// MarkReversed, when set, is the ID of a POSTED journal to flip to REVERSED in the same unit.
	MarkReversed *string
}
