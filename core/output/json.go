package output

import (
	"encoding/json"
	"io"

	"github.com/shopspring/decimal"

	"vat-calc/core/vat"
)

// JSONFormatter renders a Breakdown as JSON
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render writes the document produced by Document
func (f *JSONFormatter) Render(w io.Writer, b *Breakdown) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document(b))
}

// BreakdownDocument is the JSON shape shared by the CLI and the HTTP API
type BreakdownDocument struct {
	Quantity  string          `json:"quantity"`
	Selection vat.Selection   `json:"rate"`
	Rates     RatesDocument   `json:"rates"`
	Result    *ResultDocument `json:"result"`
}

// RatesDocument carries rates as decimal strings
type RatesDocument struct {
	Retail string `json:"retail"`
	Depo   string `json:"depo"`
}

// ResultDocument has full-precision values and their display form
type ResultDocument struct {
	PerUnit      decimal.Decimal   `json:"per_unit"`
	TotalValue   decimal.Decimal   `json:"total_value"`
	Tax          decimal.Decimal   `json:"tax"`
	TotalPayable decimal.Decimal   `json:"total_payable"`
	Display      map[string]string `json:"display"`
}

// Document converts a Breakdown to its JSON shape
func Document(b *Breakdown) *BreakdownDocument {
	doc := &BreakdownDocument{
		Quantity:  b.Quantity,
		Selection: b.Selection,
		Rates:     RatesFor(b.Rates),
	}
	if b.Result == nil {
		return doc
	}

	display := make(map[string]string)
	for _, row := range Rows(b.Result) {
		display[row.Key] = Amount(row.Amount)
	}

	doc.Result = &ResultDocument{
		PerUnit:      b.Result.PerUnit,
		TotalValue:   b.Result.TotalValue,
		Tax:          b.Result.Tax,
		TotalPayable: b.Result.TotalPayable,
		Display:      display,
	}
	return doc
}

// RatesFor converts a rate table to its JSON shape
func RatesFor(t vat.RateTable) RatesDocument {
	return RatesDocument{Retail: t.Retail.String(), Depo: t.Depo.String()}
}
