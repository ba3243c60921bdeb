package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vat-calc/core/output"
	"vat-calc/core/vat"
	"vat-calc/internal/errors"
)

// handleCalculate handles POST /calculate
func (s *Server) handleCalculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.Wrap(errors.TypeInput, "invalid request body", err))
		return
	}

	sel := vat.SelectionRetail
	if req.Rate != "" {
		parsed, err := vat.ParseSelection(req.Rate)
		if err != nil {
			s.writeError(c, err)
			return
		}
		sel = parsed
	}

	table, err := s.store.Snapshot(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	result := vat.Compute(string(req.Quantity), sel, table)

	outcome := "result"
	if result == nil {
		outcome = "empty"
	}
	s.metrics.calculations.WithLabelValues(string(sel), outcome).Inc()

	c.JSON(http.StatusOK, output.Document(&output.Breakdown{
		Quantity:  string(req.Quantity),
		Selection: sel,
		Rates:     table,
		Result:    result,
	}))
}

// handleGetRates handles GET /rates
func (s *Server) handleGetRates(c *gin.Context) {
	table, err := s.store.Snapshot(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, output.RatesFor(table))
}

// handlePutRates handles PUT /rates
func (s *Server) handlePutRates(c *gin.Context) {
	var req RatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.rateUpdates.WithLabelValues("rejected").Inc()
		s.writeError(c, errors.Wrap(errors.TypeInput, "retail and depo are required", err))
		return
	}

	table, err := parseRates(req.Retail, req.Depo)
	if err != nil {
		s.metrics.rateUpdates.WithLabelValues("rejected").Inc()
		s.writeError(c, err)
		return
	}

	if err := s.store.Update(c.Request.Context(), table); err != nil {
		outcome := "failed"
		if errors.IsType(err, errors.TypeInput) {
			outcome = "rejected"
		}
		s.metrics.rateUpdates.WithLabelValues(outcome).Inc()
		s.writeError(c, err)
		return
	}

	s.metrics.rateUpdates.WithLabelValues("applied").Inc()
	s.logger.Info("rates replaced via api",
		zap.String("request_id", c.GetString("request_id")),
		zap.String("retail", table.Retail.String()),
		zap.String("depo", table.Depo.String()))

	c.JSON(http.StatusOK, output.RatesFor(table))
}

// handleHealth handles GET /health
func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":  "healthy",
		"version": s.version,
		"backend": s.store.Backend(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := s.store.Snapshot(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["error"] = err.Error()
	}

	c.JSON(status, body)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":     s.version,
		"engine":      "vat-calc",
		"api_version": "v1",
	})
}

// parseRates reads decimal strings from a request
func parseRates(retail, depo string) (vat.RateTable, error) {
	r, err := decimal.NewFromString(retail)
	if err != nil {
		return vat.RateTable{}, errors.Wrap(errors.TypeInput, "retail rate is not a number", err)
	}
	d, err := decimal.NewFromString(depo)
	if err != nil {
		return vat.RateTable{}, errors.Wrap(errors.TypeInput, "depo rate is not a number", err)
	}
	return vat.RateTable{Retail: r, Depo: d}, nil
}

func (s *Server) writeError(c *gin.Context, err error) {
	errType := errors.TypeOf(err)

	status := http.StatusInternalServerError
	switch errType {
	case errors.TypeInput:
		status = http.StatusBadRequest
	case errors.TypeStorage:
		status = http.StatusServiceUnavailable
	}

	requestID := c.GetString("request_id")
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("request_id", requestID), zap.Error(err))
	}

	c.AbortWithStatusJSON(status, ErrorBody{Error: ErrorDetail{
		Code:      string(errType),
		Message:   err.Error(),
		RequestID: requestID,
	}})
}
