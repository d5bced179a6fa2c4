package redis

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Layr-Labs/airdrop-claimer-go/pkg/persistence"
	"github.com/Layr-Labs/airdrop-claimer-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Key prefixes for namespacing in Redis
const (
	keyPrefixTransaction = "claimer:tx:"
	keyPrefixClaim       = "claimer:claim:"
	keyTrackerState      = "claimer:tracker:main"
	keySchemaVersion     = "claimer:metadata:schema_version"
	currentSchemaVersion = "v1"

	// Key set for listing operations (Redis doesn't support prefix iteration natively)
	keySetTransactions = "claimer:tx:index"
)

// RedisPersistence is a persistence implementation using Redis, suitable when
// several claimer processes share one tracker view.
type RedisPersistence struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	mu        sync.RWMutex
	closed    bool
}

// RedisConfig holds the configuration for connecting to Redis
type RedisConfig struct {
	// Address is the Redis server address (host:port)
	Address string
	// Password is the optional Redis password
	Password string
	// DB is the Redis database number (0-15)
	DB int
	// KeyPrefix is an optional custom prefix for all keys, e.g. "bsc:" gives
	// keys like "bsc:claimer:tx:0x...".
	KeyPrefix string
}

// NewRedisPersistence creates a new Redis-backed persistence layer.
func NewRedisPersistence(cfg *RedisConfig, logger *zap.Logger) (*RedisPersistence, error) {
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rp := &RedisPersistence{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rp.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Infow("Redis persistence initialized", "address", cfg.Address, "db", cfg.DB, "key_prefix", cfg.KeyPrefix)

	return rp, nil
}

// prefixKey adds the custom key prefix (if configured) to a key
func (r *RedisPersistence) prefixKey(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return r.keyPrefix + key
}

func (r *RedisPersistence) transactionKey(hashHex string) string {
	return r.prefixKey(keyPrefixTransaction + strings.ToLower(hashHex))
}

func (r *RedisPersistence) claimKey(account common.Address) string {
	return r.prefixKey(keyPrefixClaim + strings.ToLower(account.Hex()))
}

// initSchema initializes or validates the schema version
func (r *RedisPersistence) initSchema(ctx context.Context) error {
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

// SaveTransaction persists a transaction record and indexes its hash
func (r *RedisPersistence) SaveTransaction(record *types.TransactionRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil TransactionRecord")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	ctx := context.Background()

	data, err := persistence.MarshalTransactionRecord(record)
	if err != nil {
		return fmt.Errorf("failed to marshal TransactionRecord: %w", err)
	}

	hashHex := strings.ToLower(record.Hash.Hex())
	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.transactionKey(hashHex), data, 0)
	pipe.SAdd(ctx, r.prefixKey(keySetTransactions), hashHex)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save TransactionRecord: %w", err)
	}

	return nil
}

// LoadTransaction retrieves a transaction record
func (r *RedisPersistence) LoadTransaction(hash common.Hash) (*types.TransactionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	data, err := r.client.Get(context.Background(), r.transactionKey(hash.Hex())).Bytes()
	if err == redis.Nil {
		return nil, nil // Not found is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load TransactionRecord: %w", err)
	}

	record, err := persistence.UnmarshalTransactionRecord(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal TransactionRecord: %w", err)
	}

	return record, nil
}

// ListTransactions returns all transaction records sorted by AddedAt
func (r *RedisPersistence) ListTransactions() ([]*types.TransactionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	ctx := context.Background()
	indexKey := r.prefixKey(keySetTransactions)

	hashes, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction hashes: %w", err)
	}

	records := make([]*types.TransactionRecord, 0, len(hashes))
	if len(hashes) == 0 {
		return records, nil
	}

	keys := make([]string, len(hashes))
	for i, h := range hashes {
		keys[i] = r.transactionKey(h)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch TransactionRecords: %w", err)
	}

	for i, val := range values {
		if val == nil {
			// Key was in index but doesn't exist - clean up index
			r.client.SRem(ctx, indexKey, hashes[i])
			continue
		}

		data, ok := val.(string)
		if !ok {
			r.logger.Sugar().Warnw("Unexpected value type for TransactionRecord", "key", keys[i])
			continue
		}

		record, err := persistence.UnmarshalTransactionRecord([]byte(data))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal TransactionRecord, skipping",
				"key", keys[i], "error", err)
			continue
		}

		records = append(records, record)
	}

	persistence.SortRecords(records)
	return records, nil
}

// ListPendingTransactions returns records still awaiting a receipt
func (r *RedisPersistence) ListPendingTransactions() ([]*types.TransactionRecord, error) {
	all, err := r.ListTransactions()
	if err != nil {
		return nil, err
	}
	return persistence.FilterPending(all), nil
}

// DeleteTransaction removes a transaction record and its index entry
func (r *RedisPersistence) DeleteTransaction(hash common.Hash) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	ctx := context.Background()
	hashHex := strings.ToLower(hash.Hex())

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.transactionKey(hashHex))
	pipe.SRem(ctx, r.prefixKey(keySetTransactions), hashHex)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete TransactionRecord: %w", err)
	}

	return nil
}

// SaveClaimState persists the claim lifecycle for an account
func (r *RedisPersistence) SaveClaimState(state *types.ClaimState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil ClaimState")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	data, err := persistence.MarshalClaimState(state)
	if err != nil {
		return fmt.Errorf("failed to marshal ClaimState: %w", err)
	}

	if err := r.client.Set(context.Background(), r.claimKey(state.Account), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save ClaimState: %w", err)
	}
	return nil
}

// LoadClaimState retrieves the claim lifecycle for an account
func (r *RedisPersistence) LoadClaimState(account common.Address) (*types.ClaimState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	data, err := r.client.Get(context.Background(), r.claimKey(account)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ClaimState: %w", err)
	}

	return persistence.UnmarshalClaimState(data)
}

// SaveTrackerState persists tracker operational state
func (r *RedisPersistence) SaveTrackerState(state *persistence.TrackerState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil TrackerState")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	data, err := persistence.MarshalTrackerState(state)
	if err != nil {
		return fmt.Errorf("failed to marshal TrackerState: %w", err)
	}

	if err := r.client.Set(context.Background(), r.prefixKey(keyTrackerState), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save TrackerState: %w", err)
	}
	return nil
}

// LoadTrackerState retrieves tracker operational state
func (r *RedisPersistence) LoadTrackerState() (*persistence.TrackerState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	data, err := r.client.Get(context.Background(), r.prefixKey(keyTrackerState)).Bytes()
	if err == redis.Nil {
		return nil, nil // First run
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load TrackerState: %w", err)
	}

	return persistence.UnmarshalTrackerState(data)
}

// Close shuts down the persistence layer
func (r *RedisPersistence) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil // Already closed, idempotent
	}
	r.closed = true
	r.mu.Unlock()

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	r.logger.Sugar().Info("Redis persistence closed")
	return nil
}

// HealthCheck verifies the persistence layer is operational
func (r *RedisPersistence) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	_, err := r.client.Get(ctx, r.prefixKey(keySchemaVersion)).Result()
	if err == redis.Nil {
		return fmt.Errorf("schema version not found - database may not be properly initialized")
	}
	if err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}

	return nil
}
