// Package cmd - rate store commands
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vat-calc/core/output"
	"vat-calc/core/ui"
	"vat-calc/core/vat"
	"vat-calc/internal/config"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show or change the stored retail and depo rates",
}

var ratesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored rates",
	RunE:  runRatesShow,
}

var ratesSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the stored rates",
	Long: `Replace both tax-inclusive unit rates in the rate store.

Rates are decimal numbers and must not be negative.

Example:
  vat-calc rates set --retail 113 --depo 226`,
	RunE: runRatesSet,
}

var (
	setRetail string
	setDepo   string
)

func init() {
	rootCmd.AddCommand(ratesCmd)
	ratesCmd.AddCommand(ratesShowCmd)
	ratesCmd.AddCommand(ratesSetCmd)

	ratesSetCmd.Flags().StringVar(&setRetail, "retail", "", "tax-inclusive retail unit rate [REQUIRED]")
	ratesSetCmd.Flags().StringVar(&setDepo, "depo", "", "tax-inclusive depo unit rate [REQUIRED]")
	ratesSetCmd.MarkFlagRequired("retail")
	ratesSetCmd.MarkFlagRequired("depo")
}

func runRatesShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	table, err := store.Snapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read rates: %w", err)
	}

	w := ui.NewWriter(cmd.OutOrStdout(), config.Get().Output.NoColor)
	t := w.NewTable("Rate", "Tax inclusive", "Per unit excl. VAT").AlignRight(1).AlignRight(2)
	t.AddRow("Retail", output.Amount(table.Retail), output.Amount(table.Retail.Div(vat.GrossUpDivisor)))
	t.AddRow("Depo", output.Amount(table.Depo), output.Amount(table.Depo.Div(vat.GrossUpDivisor)))
	t.Render()
	w.Println("")
	w.Info("backend: %s", store.Backend())
	return nil
}

func runRatesSet(cmd *cobra.Command, args []string) error {
	table, err := applyOverrides(vat.RateTable{}, setRetail, setDepo)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Update(cmd.Context(), table); err != nil {
		return fmt.Errorf("failed to update rates: %w", err)
	}

	w := ui.NewWriter(cmd.OutOrStdout(), config.Get().Output.NoColor)
	w.Success("rates updated: retail %s, depo %s", table.Retail, table.Depo)
	return nil
}
