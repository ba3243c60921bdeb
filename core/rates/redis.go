package rates

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"vat-calc/core/vat"
	"vat-calc/internal/config"
	"vat-calc/internal/errors"
	"vat-calc/internal/logging"
)

const (
	defaultRedisKey = "vat:rates"
	fieldRetail     = "retail"
	fieldDepo       = "depo"
)

// RedisStore keeps rates in a Redis hash so several processes share them
type RedisStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisStore connects to the configured Redis
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, errors.Config("redis address is required", nil)
	}

	key := cfg.Key
	if key == "" {
		key = defaultRedisKey
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisStore{
		client: client,
		key:    key,
		logger: logging.Named("rates.redis"),
	}, nil
}

// Backend returns BackendRedis
func (s *RedisStore) Backend() Backend {
	return BackendRedis
}

// Snapshot reads the hash. A missing hash or field reads as zero.
func (s *RedisStore) Snapshot(ctx context.Context) (vat.RateTable, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		s.logger.Error("rates read failed", zap.String("key", s.key), zap.Error(err))
		return vat.RateTable{}, errors.Storage("read rates from redis", err)
	}

	retail, err := hashDecimal(fields, fieldRetail)
	if err != nil {
		return vat.RateTable{}, errors.Storage("decode retail rate", err).WithContext("key", s.key)
	}
	depo, err := hashDecimal(fields, fieldDepo)
	if err != nil {
		return vat.RateTable{}, errors.Storage("decode depo rate", err).WithContext("key", s.key)
	}

	return vat.RateTable{Retail: retail, Depo: depo}, nil
}

// Update writes both fields in one HSET
func (s *RedisStore) Update(ctx context.Context, table vat.RateTable) error {
	if err := Validate(table); err != nil {
		return err
	}

	err := s.client.HSet(ctx, s.key,
		fieldRetail, table.Retail.String(),
		fieldDepo, table.Depo.String(),
	).Err()
	if err != nil {
		s.logger.Error("rates write failed", zap.String("key", s.key), zap.Error(err))
		return errors.Storage("write rates to redis", err)
	}

	s.logger.Info("rates updated",
		zap.String("key", s.key),
		zap.String("retail", table.Retail.String()),
		zap.String("depo", table.Depo.String()))
	return nil
}

// Close closes the client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func hashDecimal(fields map[string]string, name string) (decimal.Decimal, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
