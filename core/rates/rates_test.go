package rates

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"

	"vat-calc/core/vat"
	"vat-calc/internal/config"
	"vat-calc/internal/errors"
)

func table(retail, depo string) vat.RateTable {
	return vat.RateTable{
		Retail: decimal.RequireFromString(retail),
		Depo:   decimal.RequireFromString(depo),
	}
}

// roundTrip exercises the contract every backend must honour
func roundTrip(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	want := table("113", "226.45")
	if err := store.Update(ctx, want); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("Expected %s/%s, got %s/%s", want.Retail, want.Depo, got.Retail, got.Depo)
	}

	err = store.Update(ctx, table("-1", "5"))
	if !errors.IsType(err, errors.TypeInput) {
		t.Errorf("Expected input error for negative rate, got %v", err)
	}

	after, _ := store.Snapshot(ctx)
	if !after.Equal(want) {
		t.Error("Rejected update must leave rates unchanged")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(table("0", "0"))
	roundTrip(t, store)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore(table("1", "1"))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int64) {
			defer wg.Done()
			v := decimal.NewFromInt(n)
			_ = store.Update(ctx, vat.RateTable{Retail: v, Depo: v})
		}(int64(i))
		go func() {
			defer wg.Done()
			snap, _ := store.Snapshot(ctx)
			if !snap.Retail.Equal(snap.Depo) {
				t.Errorf("Torn snapshot: %s/%s", snap.Retail, snap.Depo)
			}
		}()
	}
	wg.Wait()
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "rates.hcl")
	store := NewFileStore(path)
	store.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	roundTrip(t, store)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Rates file not written: %v", err)
	}
	text := string(data)
	for _, want := range []string{"retail_rate", "226.45", `"2026-03-01T09:00:00Z"`} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in rates file:\n%s", want, text)
		}
	}
}

func TestFileStoreMissingFileIsZero(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.hcl"))

	got, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if !got.Retail.IsZero() || !got.Depo.IsZero() {
		t.Errorf("Expected zero rates, got %s/%s", got.Retail, got.Depo)
	}
}

func TestFileStoreReadsHandWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.conf")
	src := `
# set by the depot manager
retail_rate = 150.25
depo_rate   = "140.10"
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := NewFileStore(path).Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if !got.Equal(table("150.25", "140.1")) {
		t.Errorf("Unexpected rates %s/%s", got.Retail, got.Depo)
	}
}

func TestFileStoreRejectsBadFile(t *testing.T) {
	tests := map[string]string{
		"missing depo": "retail_rate = 1\n",
		"not a number": "retail_rate = 1\ndepo_rate = true\n",
		"bad syntax":   "retail_rate = = 1\n",
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rates.hcl")
			if err := os.WriteFile(path, []byte(src), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := NewFileStore(path).Snapshot(context.Background())
			if !errors.IsType(err, errors.TypeStorage) {
				t.Errorf("Expected storage error, got %v", err)
			}
		})
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStore(config.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	defer store.Close()

	empty, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot of empty hash failed: %v", err)
	}
	if !empty.Retail.IsZero() || !empty.Depo.IsZero() {
		t.Errorf("Expected zero rates, got %s/%s", empty.Retail, empty.Depo)
	}

	roundTrip(t, store)

	if got := mr.HGet(defaultRedisKey, fieldDepo); got != "226.45" {
		t.Errorf("Expected depo field 226.45, got %q", got)
	}
}

func TestRedisStoreCorruptField(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.HSet("shop:rates", fieldRetail, "lots", fieldDepo, "2")

	store, err := NewRedisStore(config.RedisConfig{Addr: mr.Addr(), Key: "shop:rates"})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, err = store.Snapshot(context.Background())
	if !errors.IsType(err, errors.TypeStorage) {
		t.Errorf("Expected storage error, got %v", err)
	}
}

func TestRedisStoreUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	store, err := NewRedisStore(config.RedisConfig{Addr: addr})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, err = store.Snapshot(context.Background())
	if !errors.IsType(err, errors.TypeStorage) {
		t.Errorf("Expected storage error, got %v", err)
	}
}

func TestOpen(t *testing.T) {
	cfg := config.Default().Rates

	cfg.Backend = "memory"
	cfg.Retail = decimal.NewFromInt(113)
	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open memory failed: %v", err)
	}
	snap, _ := store.Snapshot(context.Background())
	if !snap.Retail.Equal(decimal.NewFromInt(113)) {
		t.Errorf("Memory store not seeded from config: %s", snap.Retail)
	}

	cfg.Backend = "FILE"
	cfg.File = filepath.Join(t.TempDir(), "rates.hcl")
	store, err = Open(cfg)
	if err != nil || store.Backend() != BackendFile {
		t.Errorf("Expected file backend, got %v (%v)", store, err)
	}

	cfg.Backend = "etcd"
	if _, err := Open(cfg); !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("Expected config error for unknown backend, got %v", err)
	}
}
