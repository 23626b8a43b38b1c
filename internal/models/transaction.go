package models

import "github.com/shopspring/decimal"

// Kind classifies a transaction as money in or money out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single recorded income or expense. It only lives in memory.
type Transaction struct {
	Date   string          `json:"date"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Kind   Kind            `json:"kind"`
}
