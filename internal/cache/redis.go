package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dinoco-api/internal/config"
	"dinoco-api/internal/logging"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Store es un cache JSON sobre Redis. Un *Store nil es válido y nunca acierta,
// así los servicios funcionan igual sin Redis.
type Store struct {
	client *redis.Client
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	logging.Info().Str("addr", cfg.Addr).Msg("[redis] OK")
	return &Store{client: client}, nil
}

// NewFromClient envuelve un cliente ya creado.
func NewFromClient(c *redis.Client) *Store { return &Store{client: c} }

func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return errors.New("redis disabled")
	}
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.client.Close()
}

// =======================================================
//  Helpers JSON para usar desde los servicios
// =======================================================

// GetJSON lee una key; si existe deserializa el JSON en `dest`.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if s == nil {
		return false, nil
	}

	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serializa `value` y lo guarda con TTL.
func (s *Store) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s == nil {
		return nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, ttl).Err()
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if s == nil || len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
