package rates

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap"

	"vat-calc/core/vat"
	"vat-calc/internal/errors"
	"vat-calc/internal/logging"
)

// rateFile is the HCL layout:
//
//	retail_rate = 113
//	depo_rate   = 226
//	updated_at  = "2026-01-02T15:04:05Z"
type rateFile struct {
	Retail    hcl.Expression `hcl:"retail_rate"`
	Depo      hcl.Expression `hcl:"depo_rate"`
	UpdatedAt *string        `hcl:"updated_at,optional"`
}

// FileStore keeps rates in an HCL file
type FileStore struct {
	mu     sync.Mutex
	path   string
	now    func() time.Time
	logger *zap.Logger
}

// NewFileStore creates a store backed by path. The file need not exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		now:    time.Now,
		logger: logging.Named("rates.file"),
	}
}

// Backend returns BackendFile
func (s *FileStore) Backend() Backend {
	return BackendFile
}

// Path returns the rates file location
func (s *FileStore) Path() string {
	return s.path
}

// Snapshot reads the file. A missing file is an all-zero table.
func (s *FileStore) Snapshot(ctx context.Context) (vat.RateTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("rates file absent, using zero rates", zap.String("path", s.path))
			return vat.RateTable{Retail: decimal.Zero, Depo: decimal.Zero}, nil
		}
		return vat.RateTable{}, errors.Storage("read rates file", err).WithContext("path", s.path)
	}

	return decodeRateFile(s.path, src)
}

// Update rewrites the file with the new rates
func (s *FileStore) Update(ctx context.Context, table vat.RateTable) error {
	if err := Validate(table); err != nil {
		return err
	}

	src, err := encodeRateFile(table, s.now())
	if err != nil {
		return errors.Internal("encode rates file", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Storage("create rates directory", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, src, 0644); err != nil {
		return errors.Storage("write rates file", err).WithContext("path", tmp)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Storage("replace rates file", err).WithContext("path", s.path)
	}

	s.logger.Info("rates updated",
		zap.String("path", s.path),
		zap.String("retail", table.Retail.String()),
		zap.String("depo", table.Depo.String()))
	return nil
}

// Close is a no-op
func (s *FileStore) Close() error {
	return nil
}

func decodeRateFile(filename string, src []byte) (vat.RateTable, error) {
	// hclsimple picks native or JSON syntax from the extension
	name := filename
	if ext := filepath.Ext(name); ext != ".hcl" && ext != ".json" {
		name += ".hcl"
	}

	var f rateFile
	if err := hclsimple.Decode(name, src, nil, &f); err != nil {
		return vat.RateTable{}, errors.Storage("parse rates file", err).WithContext("path", filename)
	}

	retail, err := exprDecimal(f.Retail)
	if err != nil {
		return vat.RateTable{}, errors.Storage("retail_rate", err).WithContext("path", filename)
	}
	depo, err := exprDecimal(f.Depo)
	if err != nil {
		return vat.RateTable{}, errors.Storage("depo_rate", err).WithContext("path", filename)
	}

	return vat.RateTable{Retail: retail, Depo: depo}, nil
}

// exprDecimal evaluates a literal number, or a string holding one, without
// going through float64.
func exprDecimal(expr hcl.Expression) (decimal.Decimal, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return decimal.Zero, diags
	}
	if !val.IsKnown() || val.IsNull() {
		return decimal.Zero, fmt.Errorf("value must be set")
	}

	switch val.Type() {
	case cty.Number:
		return decimal.NewFromString(val.AsBigFloat().Text('f', -1))
	case cty.String:
		return decimal.NewFromString(val.AsString())
	}
	return decimal.Zero, fmt.Errorf("expected a number, got %s", val.Type().FriendlyName())
}

func encodeRateFile(table vat.RateTable, at time.Time) ([]byte, error) {
	retail, err := cty.ParseNumberVal(table.Retail.String())
	if err != nil {
		return nil, err
	}
	depo, err := cty.ParseNumberVal(table.Depo.String())
	if err != nil {
		return nil, err
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	body.SetAttributeValue("retail_rate", retail)
	body.SetAttributeValue("depo_rate", depo)
	body.SetAttributeValue("updated_at", cty.StringVal(at.UTC().Format(time.RFC3339)))
	return f.Bytes(), nil
}
