// Package cmd - calc command
package cmd

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vat-calc/core/output"
	"vat-calc/core/rates"
	"vat-calc/core/vat"
	"vat-calc/internal/config"
	"vat-calc/internal/errors"
	"vat-calc/internal/logging"
)

var (
	calcQuantity   string
	calcRate       string
	calcRetailRate string
	calcDepoRate   string
	calcFormat     string
)

// calcCmd represents the calc command
var calcCmd = &cobra.Command{
	Use:   "calc [quantity]",
	Short: "Calculate the VAT breakdown for a quantity",
	Long: `Calculate per-unit price, taxable value, 13% VAT and total payable.

Rates come from the rate store unless overridden with --retail-rate or
--depo-rate. A quantity that is empty, zero or not a number gives no result.

Examples:
  vat-calc calc 10
  vat-calc calc -q 5 -r depo
  vat-calc calc --retail-rate 113 --format json 10`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCalc,
}

func init() {
	calcCmd.Flags().StringVarP(&calcQuantity, "quantity", "q", "", "quantity (same as the positional argument)")
	calcCmd.Flags().StringVarP(&calcRate, "rate", "r", "retail", "rate to apply (retail, depo)")
	calcCmd.Flags().StringVar(&calcRetailRate, "retail-rate", "", "override the stored retail rate")
	calcCmd.Flags().StringVar(&calcDepoRate, "depo-rate", "", "override the stored depo rate")
	calcCmd.Flags().StringVarP(&calcFormat, "format", "f", "", "output format (cli, json); default from config")

	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, args []string) error {
	quantity := calcQuantity
	if len(args) > 0 {
		quantity = args[0]
	}

	sel, err := vat.ParseSelection(calcRate)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	table, err := store.Snapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read rates: %w", err)
	}

	table, err = applyOverrides(table, calcRetailRate, calcDepoRate)
	if err != nil {
		return err
	}

	return renderCalculation(cmd.OutOrStdout(), calcFormat, &output.Breakdown{
		Quantity:  quantity,
		Selection: sel,
		Rates:     table,
		Result:    vat.Compute(quantity, sel, table),
	})
}

// applyOverrides replaces stored rates with any given on the command line.
// Overrides obey the same rules as a store update; stored values are used
// as they are.
func applyOverrides(table vat.RateTable, retail, depo string) (vat.RateTable, error) {
	override := vat.RateTable{Retail: decimal.Zero, Depo: decimal.Zero}
	if retail != "" {
		r, err := decimal.NewFromString(retail)
		if err != nil {
			return table, errors.Wrap(errors.TypeInput, "--retail-rate is not a number", err)
		}
		override.Retail = r
	}
	if depo != "" {
		d, err := decimal.NewFromString(depo)
		if err != nil {
			return table, errors.Wrap(errors.TypeInput, "--depo-rate is not a number", err)
		}
		override.Depo = d
	}
	if err := rates.Validate(override); err != nil {
		return table, err
	}

	if retail != "" {
		table.Retail = override.Retail
	}
	if depo != "" {
		table.Depo = override.Depo
	}
	return table, nil
}

func renderCalculation(w io.Writer, format string, b *output.Breakdown) error {
	cfg := config.Get()
	if format == "" {
		format = cfg.Output.DefaultFormat
	}

	formatter, err := output.NewRegistry(cfg.Output.NoColor).Get(format)
	if err != nil {
		return err
	}

	logging.Debug("calculated",
		zap.String("quantity", b.Quantity),
		zap.String("rate", b.Selection.String()),
		zap.Bool("has_result", b.Result != nil))

	return formatter.Render(w, b)
}
