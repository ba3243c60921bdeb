// Package session - Screen state for the VAT calculator
// A Session is driven by UI events. Every transition that touches an input
// of the calculation recomputes the result from scratch.
package session

import (
	"vat-calc/core/vat"
)

// Listener is told about every recomputed result, including nil
type Listener func(result *vat.Result)

// State is a copy of everything the screen shows
type State struct {
	QuantityText string
	Selection    vat.Selection
	Rates        vat.RateTable
	Result       *vat.Result
}

// Session holds one user's calculator screen. It is not safe for
// concurrent use; a UI loop owns it.
type Session struct {
	quantityText string
	selection    vat.Selection
	rates        vat.RateTable
	result       *vat.Result
	listeners    []Listener
}

// New creates a session on the retail rate with no quantity
func New(rates vat.RateTable) *Session {
	return &Session{
		selection: vat.SelectionRetail,
		rates:     rates,
	}
}

// OnChange registers a listener
func (s *Session) OnChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

// SetQuantity records new quantity text
func (s *Session) SetQuantity(text string) *vat.Result {
	if text == s.quantityText {
		return s.result
	}
	s.quantityText = text
	return s.recompute()
}

// Select switches between the retail and depo rate
func (s *Session) Select(sel vat.Selection) *vat.Result {
	if sel == s.selection {
		return s.result
	}
	s.selection = sel
	return s.recompute()
}

// SetRates installs a fresh snapshot from the rate store
func (s *Session) SetRates(rates vat.RateTable) *vat.Result {
	if rates.Equal(s.rates) {
		return s.result
	}
	s.rates = rates
	return s.recompute()
}

// Result returns the current breakdown, nil when quantity is not positive
func (s *Session) Result() *vat.Result {
	return s.result
}

// State returns a copy of the screen state
func (s *Session) State() State {
	return State{
		QuantityText: s.quantityText,
		Selection:    s.selection,
		Rates:        s.rates,
		Result:       s.result,
	}
}

func (s *Session) recompute() *vat.Result {
	s.result = vat.Compute(s.quantityText, s.selection, s.rates)
	for _, l := range s.listeners {
		l(s.result)
	}
	return s.result
}
