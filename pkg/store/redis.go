package store

import (
	"context"
	goerrors "errors"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
)

// DefaultPrefix namespaces keys in shared backends.
const DefaultPrefix = "startpage"

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to page keys as "<prefix>:page:<key>".
	Prefix string
}

// RedisStore keeps one string value per page.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and pings it.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := retry(ctx, connectAttempts, connectDelay, func() error {
		return transient(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect redis at %s", cfg.Addr)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) redisKey(key string) string {
	return s.prefix + ":page:" + key
}

// Load implements Store.
func (s *RedisStore) Load(ctx context.Context, key string) (*document.Document, error) {
	if err := errors.ValidatePageKey(key); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if goerrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(BackendRedis, err, "get", key)
	}
	return decode(BackendRedis, key, data)
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, key string, doc *document.Document) error {
	if err := errors.ValidatePageKey(key); err != nil {
		return err
	}
	data, err := encode(doc)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.redisKey(key), data, 0).Err(); err != nil {
		return storageErr(BackendRedis, err, "set", key)
	}
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
