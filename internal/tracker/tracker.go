// Package tracker records income and expense transactions in memory and keeps
// running totals. Nothing is persisted; a Tracker lives as long as its owner.
//
// Amounts keep the exact value of the float64 the input parses to, so rows
// and totals round to cents the same way the tracker page does: "1.005" is
// stored as 1.00499999... and renders as $1.00.
package tracker

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// AlertMessage is shown to the user when a submission is rejected.
const AlertMessage = "Please fill out all fields correctly."

// ErrInvalidTransaction is returned for an empty name or date or a non-numeric amount.
var ErrInvalidTransaction = errors.New("invalid transaction")

// ErrUnknownKind is returned for a kind other than income or expense.
var ErrUnknownKind = errors.New("unknown transaction kind")

// Entry is an accepted transaction as it appears in the list.
type Entry struct {
	models.Transaction
}

// String renders the list row, e.g. "2024-01-01 - Coffee: $3.50 (expense)".
func (e Entry) String() string {
	return fmt.Sprintf("%s - %s: %s (%s)", e.Date, e.Name, FormatCurrency(e.Amount), e.Kind)
}

// Totals is a snapshot of the running sums.
type Totals struct {
	Balance decimal.Decimal
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Tracker holds the recorded entries and running totals. The zero value is
// ready to use. It is not safe for concurrent use.
type Tracker struct {
	entries []Entry
	income  decimal.Decimal
	expense decimal.Decimal
	balance decimal.Decimal
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{}
}

// KindFromToggle maps the form's type switch: checked means expense.
func KindFromToggle(checked bool) models.Kind {
	if checked {
		return models.KindExpense
	}
	return models.KindIncome
}

// Record validates and applies one submission. On error nothing changes.
func (t *Tracker) Record(kind models.Kind, name, amount, date string) (Entry, error) {
	if !kind.Valid() {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	name = strings.TrimSpace(name)
	value, ok := parseAmount(amount)
	if name == "" || !ok || date == "" {
		return Entry{}, ErrInvalidTransaction
	}

	entry := Entry{models.Transaction{Date: date, Name: name, Amount: value, Kind: kind}}

	switch kind {
	case models.KindIncome:
		t.income = t.income.Add(value)
		t.balance = t.balance.Add(value)
	case models.KindExpense:
		t.expense = t.expense.Add(value)
		t.balance = t.balance.Sub(value)
	}
	t.entries = append(t.entries, entry)

	return entry, nil
}

// Entries returns the accepted entries in submission order.
func (t *Tracker) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Totals returns the current running sums.
func (t *Tracker) Totals() Totals {
	return Totals{Balance: t.balance, Income: t.income, Expense: t.expense}
}

// FormatCurrency renders d as dollars with exactly two decimals.
func FormatCurrency(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// exactFloatExp is small enough for NewFromFloatWithExponent to keep every
// binary digit of a float64.
const exactFloatExp = -1074

// numericPrefix matches the longest leading decimal literal, the way a browser
// parses a number input: "3.5abc" yields 3.5, "abc" yields nothing.
var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

func parseAmount(s string) (decimal.Decimal, bool) {
	lit := numericPrefix.FindString(strings.TrimLeft(s, " \t\n\r\f\v"))
	if lit == "" {
		return decimal.Decimal{}, false
	}
	// Overflowing literals are not finite amounts.
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloatWithExponent(f, exactFloatExp), true
}
