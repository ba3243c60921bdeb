// Package rates - The shared retail/depo rate store
// The calculator never reads a store directly; callers take a Snapshot and
// pass the resulting vat.RateTable in.
package rates

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"vat-calc/core/vat"
	"vat-calc/internal/config"
	"vat-calc/internal/errors"
	"vat-calc/internal/logging"
)

// Backend is a rate store backend type
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
)

// Store holds the current retail and depo rates
type Store interface {
	// Backend names the implementation
	Backend() Backend

	// Snapshot returns a copy of the current rates
	Snapshot(ctx context.Context) (vat.RateTable, error)

	// Update replaces both rates
	Update(ctx context.Context, table vat.RateTable) error

	// Close releases any held resources
	Close() error
}

// Validate rejects tables that must never be written to a store.
// Reads are not validated; the calculator passes whatever it is given.
func Validate(table vat.RateTable) error {
	if table.Retail.IsNegative() {
		return errors.Newf(errors.TypeInput, "retail rate must not be negative: %s", table.Retail)
	}
	if table.Depo.IsNegative() {
		return errors.Newf(errors.TypeInput, "depo rate must not be negative: %s", table.Depo)
	}
	return nil
}

// Open creates the store named by cfg.Backend
func Open(cfg config.RatesConfig) (Store, error) {
	logger := logging.Named("rates")

	var (
		store Store
		err   error
	)
	switch Backend(strings.ToLower(cfg.Backend)) {
	case BackendMemory, "":
		store = NewMemoryStore(vat.RateTable{Retail: cfg.Retail, Depo: cfg.Depo})
	case BackendFile:
		store = NewFileStore(cfg.File)
	case BackendRedis:
		store, err = NewRedisStore(cfg.Redis)
	default:
		return nil, errors.Config("unknown rate store backend", nil).WithContext("backend", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("rate store opened", zap.String("backend", string(store.Backend())))
	return store, nil
}
