// Package vat - VAT decomposition of tax-inclusive unit rates
// The calculation is a pure function of quantity text, rate selection and a
// rate snapshot. It never reads shared state and never fails.
package vat

import (
	"strings"

	"github.com/shopspring/decimal"

	"vat-calc/internal/errors"
)

// Selection picks which tax-inclusive unit rate applies
type Selection string

const (
	SelectionRetail Selection = "retail"
	SelectionDepo   Selection = "depo"
)

// String returns the string representation
func (s Selection) String() string {
	return string(s)
}

// Label is the caption shown on the rate toggle
func (s Selection) Label() string {
	if s == SelectionRetail {
		return "Retail Rate"
	}
	return "Depo Rate"
}

// ParseSelection accepts "retail" or "depo", case-insensitive
func ParseSelection(s string) (Selection, error) {
	switch Selection(strings.ToLower(strings.TrimSpace(s))) {
	case SelectionRetail:
		return SelectionRetail, nil
	case SelectionDepo:
		return SelectionDepo, nil
	}
	return "", errors.Newf(errors.TypeInput, "unknown rate selection %q (use retail or depo)", s)
}

// RateTable is a read-only snapshot of the two tax-inclusive unit rates
type RateTable struct {
	Retail decimal.Decimal `json:"retail"`
	Depo   decimal.Decimal `json:"depo"`
}

// For returns the rate for a selection. Anything but retail is depo.
func (t RateTable) For(sel Selection) decimal.Decimal {
	if sel == SelectionRetail {
		return t.Retail
	}
	return t.Depo
}

// Equal reports whether both rates are numerically equal
func (t RateTable) Equal(o RateTable) bool {
	return t.Retail.Equal(o.Retail) && t.Depo.Equal(o.Depo)
}

// Input is what the screen collects from the user
type Input struct {
	QuantityText string    `json:"quantity"`
	Selection    Selection `json:"rate"`
}

// Result is the derived breakdown. Fields are full precision; rounding for
// display belongs to the output layer.
type Result struct {
	// PerUnit is the tax-exclusive unit price
	PerUnit decimal.Decimal `json:"per_unit"`

	// TotalValue is the taxable value (PerUnit * quantity)
	TotalValue decimal.Decimal `json:"total_value"`

	// Tax is the 13% VAT on the taxable value
	Tax decimal.Decimal `json:"tax"`

	// TotalPayable is TotalValue + Tax
	TotalPayable decimal.Decimal `json:"total_payable"`
}
