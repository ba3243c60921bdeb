package output

import (
	"io"

	"vat-calc/core/ui"
)

// TableFormatter renders the result card as a terminal table
type TableFormatter struct {
	noColor bool
}

// NewTableFormatter creates a table formatter
func NewTableFormatter(noColor bool) *TableFormatter {
	return &TableFormatter{noColor: noColor}
}

// Format returns FormatCLI
func (f *TableFormatter) Format() Format {
	return FormatCLI
}

// Render writes the inputs line and, when there is a result, the card
func (f *TableFormatter) Render(w io.Writer, b *Breakdown) error {
	out := ui.NewWriter(w, f.noColor)

	out.Println("Quantity: %s   %s: %s",
		displayQuantity(b.Quantity),
		b.Selection.Label(),
		Amount(b.Rates.For(b.Selection)))

	if b.Result == nil {
		out.Println("%s", out.Color(ui.Dim, "No result: enter a quantity greater than zero"))
		return nil
	}

	out.Header("Calculation Result")

	table := out.NewTable("Item", "Amount").AlignRight(1)
	for _, row := range Rows(b.Result) {
		label := row.Label
		if row.Total {
			label = out.Color(ui.Bold, label)
		}
		table.AddRow(label, Amount(row.Amount))
	}
	table.Render()
	return nil
}

func displayQuantity(q string) string {
	if q == "" {
		return "-"
	}
	return q
}
