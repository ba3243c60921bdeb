// Package output provides output formatting for calculation results.
// This package produces human and machine-readable outputs; it is the only
// place amounts are rounded.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"vat-calc/core/vat"
)

// DisplayPlaces is how many decimal places amounts are shown with
const DisplayPlaces = 2

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given breakdown
	Render(w io.Writer, b *Breakdown) error
}

// Breakdown is a calculation together with the inputs that produced it
type Breakdown struct {
	Quantity  string
	Selection vat.Selection
	Rates     vat.RateTable
	Result    *vat.Result
}

// Row is one labelled line of the result card
type Row struct {
	Key    string
	Label  string
	Amount decimal.Decimal
	Total  bool
}

// Rows lists the result card lines in display order. Total and Taxable
// Value repeat the total value, as on the paper form.
func Rows(r *vat.Result) []Row {
	if r == nil {
		return nil
	}
	return []Row{
		{Key: "per_unit", Label: "Per Unit (प्रति इकाई)", Amount: r.PerUnit},
		{Key: "total_value", Label: "Total Value (जम्मा मूल्य)", Amount: r.TotalValue},
		{Key: "total", Label: "Total (जम्मा)", Amount: r.TotalValue},
		{Key: "taxable_value", Label: "Taxable Value (कर लाग्ने मूल्य)", Amount: r.TotalValue},
		{Key: "tax", Label: "13% Tax (१३% प्रतिशतले कर)", Amount: r.Tax},
		{Key: "total_payable", Label: "Total Payable (जम्मा तिर्नु पर्ने रकम)", Amount: r.TotalPayable, Total: true},
	}
}

// Amount formats a value for display
func Amount(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}

// Registry maps formats to formatters
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry returns a registry holding the built-in formatters
func NewRegistry(noColor bool) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(NewTableFormatter(noColor))
	r.Register(NewJSONFormatter())
	return r
}

// Register adds or replaces a formatter
func (r *Registry) Register(f Formatter) {
	r.formatters[f.Format()] = f
}

// Get returns the formatter for a format name
func (r *Registry) Get(name string) (Formatter, error) {
	f, ok := r.formatters[Format(strings.ToLower(name))]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, strings.Join(r.names(), ", "))
	}
	return f, nil
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.formatters))
	for f := range r.formatters {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}
