package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mfournier/cubetag/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefix for Redis
	accountKeyPrefix = "account:"
)

// ErrAccountNotFound is returned when an account is not found
var ErrAccountNotFound = errors.New("account not found")

// Config holds configuration for the Redis account repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed account repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// GetAccount retrieves an account by handle from Redis
func (r *redisRepository) GetAccount(ctx context.Context, input *GetAccountInput) (*models.Account, error) {
	if input == nil || input.Handle == "" {
		return nil, errors.New("input and handle cannot be empty")
	}

	accountKey := fmt.Sprintf("%s%s", accountKeyPrefix, input.Handle)
	accountJSON, err := r.client.Get(ctx, accountKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	var account models.Account
	if err := json.Unmarshal([]byte(accountJSON), &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}

// GetOrCreateAccount retrieves an account by handle, creating an empty record
// with zeroed counters if none exists yet
func (r *redisRepository) GetOrCreateAccount(ctx context.Context, input *GetOrCreateAccountInput) (*models.Account, error) {
	if input == nil || input.Handle == "" {
		return nil, errors.New("input and handle cannot be empty")
	}

	existing, err := r.GetAccount(ctx, &GetAccountInput{Handle: input.Handle})
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	account := &models.Account{
		Handle:    input.Handle,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := r.SaveAccount(ctx, &SaveAccountInput{Account: account}); err != nil {
		return nil, err
	}

	return account, nil
}

// SaveAccount persists an account to Redis
func (r *redisRepository) SaveAccount(ctx context.Context, input *SaveAccountInput) error {
	if input == nil || input.Account == nil {
		return errors.New("input and account cannot be nil")
	}

	account := input.Account

	// Ensure the account has a handle
	if account.Handle == "" {
		return errors.New("account handle cannot be empty")
	}

	accountJSON, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	accountKey := fmt.Sprintf("%s%s", accountKeyPrefix, account.Handle)
	if err := r.client.Set(ctx, accountKey, accountJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}

	return nil
}
