// Package cmd - interactive calculator screen
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vat-calc/core/output"
	"vat-calc/core/rates"
	"vat-calc/core/session"
	"vat-calc/core/ui"
	"vat-calc/core/vat"
	"vat-calc/internal/config"
	"vat-calc/internal/logging"
)

const interactiveHelp = `Start an interactive calculator. The result is recalculated after
every change to the quantity, the selected rate or the stored rates.

Commands:
  <number>              set the quantity
  q <text>              set the quantity to any text
  rate retail|depo      switch rate
  rates <retail> <depo> store new rates
  refresh               reload rates from the store
  show                  print the current result
  help                  list commands
  quit                  leave`

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Type quantities and switch rates, recalculating as you go",
	Long:    interactiveHelp,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		return runInteractive(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), store, config.Get().Output.NoColor)
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// screen ties a session to a rate store and a terminal
type screen struct {
	store     rates.Store
	session   *session.Session
	out       *ui.Writer
	formatter output.Formatter
	w         io.Writer
	logger    *zap.Logger
}

func runInteractive(ctx context.Context, in io.Reader, out io.Writer, store rates.Store, noColor bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	table, err := store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read rates: %w", err)
	}

	s := &screen{
		store:     store,
		session:   session.New(table),
		out:       ui.NewWriter(out, noColor),
		formatter: output.NewTableFormatter(noColor),
		w:         out,
		logger:    logging.Named("interactive"),
	}
	s.session.OnChange(func(*vat.Result) { s.render() })

	s.out.Header("VAT Calculator")
	s.out.Info("retail %s, depo %s (type help for commands)",
		output.Amount(table.Retail), output.Amount(table.Depo))

	scanner := bufio.NewScanner(in)
	for {
		s.out.Print("%s", s.out.Color(ui.Bold, "> "))
		if !scanner.Scan() {
			break
		}
		if quit := s.handle(ctx, scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// handle applies one input line; it reports whether to stop
func (s *screen) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true

	case "help", "?":
		s.out.Println("%s", interactiveHelp)

	case "show":
		s.render()

	case "q", "qty", "quantity":
		s.session.SetQuantity(strings.TrimSpace(line[len(fields[0]):]))

	case "rate":
		if len(fields) != 2 {
			s.out.Warning("usage: rate retail|depo")
			return false
		}
		sel, err := vat.ParseSelection(fields[1])
		if err != nil {
			s.out.Error("%v", err)
			return false
		}
		s.session.Select(sel)

	case "rates":
		if len(fields) != 3 {
			s.out.Warning("usage: rates <retail> <depo>")
			return false
		}
		table, err := applyOverrides(vat.RateTable{}, fields[1], fields[2])
		if err != nil {
			s.out.Error("%v", err)
			return false
		}
		if err := s.store.Update(ctx, table); err != nil {
			s.out.Error("%v", err)
			return false
		}
		s.out.Success("rates stored")
		s.session.SetRates(table)

	case "refresh":
		table, err := s.store.Snapshot(ctx)
		if err != nil {
			s.out.Error("%v", err)
			return false
		}
		s.session.SetRates(table)

	default:
		if vat.ParseQuantity(fields[0]).IsZero() && !looksNumeric(fields[0]) {
			s.out.Warning("unknown command %q (type help)", fields[0])
			return false
		}
		s.session.SetQuantity(line)
	}
	return false
}

func (s *screen) render() {
	st := s.session.State()
	err := s.formatter.Render(s.w, &output.Breakdown{
		Quantity:  st.QuantityText,
		Selection: st.Selection,
		Rates:     st.Rates,
		Result:    st.Result,
	})
	if err != nil {
		s.logger.Error("render failed", zap.Error(err))
	}
}

// looksNumeric lets "0" and "-2" through as quantities
func looksNumeric(s string) bool {
	return s != "" && strings.ContainsAny(s[:1], "0123456789.-+")
}
