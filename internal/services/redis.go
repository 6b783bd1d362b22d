package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bcibizz-gateway/internal/config"
	"bcibizz-gateway/internal/models"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// GetItem returns "" when the session or the field does not exist.
func (s *RedisStore) GetItem(ctx context.Context, sessionID, key string) (string, error) {
	value, err := s.client.HGet(ctx, fmt.Sprintf(KeySession, sessionID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session item %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) SetItem(ctx context.Context, sessionID, key, value string) error {
	sessionKey := fmt.Sprintf(KeySession, sessionID)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, sessionKey, key, value)
	// Keeps a fresh session from living forever until Expire is called.
	pipe.ExpireNX(ctx, sessionKey, TTLSession)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set session item %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) RemoveItem(ctx context.Context, sessionID, key string) error {
	if err := s.client.HDel(ctx, fmt.Sprintf(KeySession, sessionID), key).Err(); err != nil {
		return fmt.Errorf("failed to remove session item %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Expire(ctx context.Context, sessionID string, ttl time.Duration) error {
	pipe := s.client.Pipeline()
	pipe.Expire(ctx, fmt.Sprintf(KeySession, sessionID), ttl)
	pipe.Expire(ctx, fmt.Sprintf(KeyPayoutAccounts, sessionID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to extend session: %w", err)
	}
	return nil
}

func (s *RedisStore) Destroy(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx,
		fmt.Sprintf(KeySession, sessionID),
		fmt.Sprintf(KeyPayoutAccounts, sessionID),
	).Err()
}

func (s *RedisStore) AddPayoutAccount(ctx context.Context, sessionID string, account *models.PayoutAccount) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal payout account: %w", err)
	}

	key := fmt.Sprintf(KeyPayoutAccounts, sessionID)
	if err := s.client.HSet(ctx, key, account.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to save payout account: %w", err)
	}

	ttl, err := s.client.TTL(ctx, fmt.Sprintf(KeySession, sessionID)).Result()
	if err == nil && ttl > 0 {
		s.client.Expire(ctx, key, ttl)
	}

	return nil
}

func (s *RedisStore) PayoutAccounts(ctx context.Context, sessionID string) ([]*models.PayoutAccount, error) {
	values, err := s.client.HGetAll(ctx, fmt.Sprintf(KeyPayoutAccounts, sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get payout accounts: %w", err)
	}

	accounts := make([]*models.PayoutAccount, 0, len(values))
	for _, raw := range values {
		var account models.PayoutAccount
		if err := json.Unmarshal([]byte(raw), &account); err != nil {
			continue
		}
		accounts = append(accounts, &account)
	}

	sortPayoutAccounts(accounts)
	return accounts, nil
}

func (s *RedisStore) CheckRateLimit(ctx context.Context, sessionID, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, sessionID, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	if count == 1 {
		s.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
