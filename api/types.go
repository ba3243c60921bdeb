// Package api - Request and response types
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QuantityText accepts either a JSON string or a JSON number, so clients
// can forward the raw text field or a parsed value.
type QuantityText string

// UnmarshalJSON implements json.Unmarshaler
func (q *QuantityText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = QuantityText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity must be a string or number")
	}
	*q = QuantityText(n.String())
	return nil
}

// CalculateRequest is the body of POST /calculate
type CalculateRequest struct {
	// Quantity is the user's text; anything non-numeric reads as zero
	Quantity QuantityText `json:"quantity"`

	// Rate is "retail" or "depo"; empty means retail
	Rate string `json:"rate"`
}

// RatesRequest is the body of PUT /rates
type RatesRequest struct {
	Retail string `json:"retail" binding:"required"`
	Depo   string `json:"depo" binding:"required"`
}

// ErrorBody is the error envelope
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
