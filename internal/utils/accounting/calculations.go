package accounting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places stored for amounts and
// balances. It matches the NUMERIC(28, 8) columns in the ledger schema.
const AmountScale int32 = 8

// HasSupportedScale reports whether amount fits in AmountScale decimal places
// without rounding. Trailing zeros beyond the scale are accepted.
func HasSupportedScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(AmountScale))
}

// BalanceRule decides how an entry moves its account's balance.
type BalanceRule string

const (
	// Additive adds every entry's amount to its account regardless of side.
	Additive BalanceRule = "additive"
	// NormalBalance adds the amount on the account type's normal side and subtracts it otherwise.
	NormalBalance BalanceRule = "normal_balance"
)

// ParseBalanceRule maps a config value to a BalanceRule. Empty means Additive.
func ParseBalanceRule(s string) (BalanceRule, error) {
	switch BalanceRule(strings.ToLower(strings.TrimSpace(s))) {
	case "", Additive:
		return Additive, nil
	case NormalBalance:
		return NormalBalance, nil
	}
	return "", fmt.Errorf("%w: unknown balance rule %q", apperrors.ErrValidation, s)
}

// BalanceDelta returns the signed change an entry of entryType and amount applies to an account of accountType.
func BalanceDelta(rule BalanceRule, entryType domain.EntryType, amount decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	if rule == Additive {
		return amount, nil
	}
	if !accountType.Valid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
	// DEBIT to ASSET/EXPENSE -> +, CREDIT to ASSET/EXPENSE -> -
	// CREDIT to LIABILITY/EQUITY/INCOME -> +, DEBIT to LIABILITY/EQUITY/INCOME -> -
	if entryType == accountType.NormalSide() {
		return amount, nil
	}
	return amount.Neg(), nil
}

// SideTotals holds the debit and credit sums for one currency.
type SideTotals struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

// TotalsByCurrency sums debit and credit amounts per currency.
func TotalsByCurrency(entries []domain.EntryDraft) map[string]SideTotals {
	totals := make(map[string]SideTotals)
	for _, e := range entries {
		t := totals[e.Currency]
		if e.EntryType == domain.Debit {
			t.Debits = t.Debits.Add(e.Amount)
		} else {
			t.Credits = t.Credits.Add(e.Amount)
		}
		totals[e.Currency] = t
	}
	return totals
}

// ValidateJournalBalance checks that, for every currency, debits equal credits exactly.
func ValidateJournalBalance(entries []domain.EntryDraft) error {
	totals := TotalsByCurrency(entries)

	currencies := make([]string, 0, len(totals))
	for c := range totals {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)

	for _, c := range currencies {
		t := totals[c]
		if !t.Debits.Equal(t.Credits) {
			return fmt.Errorf("%w: %s debits sum is %s and credits sum is %s",
				apperrors.ErrUnbalancedJournal, c, t.Debits.String(), t.Credits.String())
		}
	}
	return nil
}
