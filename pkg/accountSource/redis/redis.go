package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Layr-Labs/demo-wallets-go/pkg/accountSource"
	"github.com/Layr-Labs/demo-wallets-go/pkg/config"
	"github.com/Layr-Labs/demo-wallets-go/pkg/types"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Key layout
const (
	keyPrefixAccount     = "wallets:account:"
	keyAccountIndex      = "wallets:accounts:index" // list, preserves USERS order
	keySchemaVersion     = "wallets:metadata:schema_version"
	currentSchemaVersion = "v1"

	connectTimeout = 5 * time.Second
)

// RedisAccountSource reads the account table from Redis so several processes can share it
type RedisAccountSource struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	mu        sync.RWMutex
	closed    bool
}

var _ accountSource.IWritableAccountSource = (*RedisAccountSource)(nil)

func NewRedisAccountSource(cfg *config.RedisConfig, logger *zap.Logger) (*RedisAccountSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rs := &RedisAccountSource{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rs.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Infow("Redis account source initialized", "address", cfg.Address, "db", cfg.DB, "key_prefix", cfg.KeyPrefix)
	return rs, nil
}

func (r *RedisAccountSource) prefixKey(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return r.keyPrefix + key
}

func (r *RedisAccountSource) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	existingVersion, err := r.client.Get(ctx, schemaKey).Result()
	if err == redis.Nil {
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if existingVersion != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existingVersion, currentSchemaVersion)
	}
	return nil
}

func (r *RedisAccountSource) LoadAccounts(ctx context.Context) ([]*types.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("account source is closed")
	}

	names, err := r.client.LRange(ctx, r.prefixKey(keyAccountIndex), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read account index: %w", err)
	}

	accounts := make([]*types.Account, 0, len(names))
	if len(names) == 0 {
		return accounts, nil
	}

	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, r.prefixKey(keyPrefixAccount+name))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("account %s is indexed but missing", names[i])
		}
		var acct types.Account
		if err := json.Unmarshal([]byte(raw), &acct); err != nil {
			return nil, errors.Wrapf(err, "failed to decode account %s", names[i])
		}
		accounts = append(accounts, &acct)
	}

	return accounts, nil
}

// StoreAccounts replaces the stored account set inside a MULTI/EXEC block
func (r *RedisAccountSource) StoreAccounts(ctx context.Context, accounts []*types.Account) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("account source is closed")
	}

	indexKey := r.prefixKey(keyAccountIndex)
	previous, err := r.client.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to read account index: %w", err)
	}

	names := make([]interface{}, 0, len(accounts))
	payloads := make(map[string][]byte, len(accounts))
	for i, acct := range accounts {
		if acct == nil {
			return fmt.Errorf("account at index %d is nil", i)
		}
		data, err := json.Marshal(acct)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal account %s", acct.Name)
		}
		names = append(names, acct.Name)
		payloads[acct.Name] = data
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, name := range previous {
			pipe.Del(ctx, r.prefixKey(keyPrefixAccount+name))
		}
		pipe.Del(ctx, indexKey)
		for name, data := range payloads {
			pipe.Set(ctx, r.prefixKey(keyPrefixAccount+name), data, 0)
		}
		if len(names) > 0 {
			pipe.RPush(ctx, indexKey, names...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store accounts: %w", err)
	}
	return nil
}

func (r *RedisAccountSource) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	return r.client.Close()
}
