package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/proprietary/ec-prv-url-shortener/internal/shortener"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of shortener.Repository. SetNX makes
// create-if-absent atomic per slug. Records are written without expiry.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed mapping store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "slug:",
	}
}

func (r *RedisStore) CreateIfAbsent(ctx context.Context, record *shortener.ShortURL) (shortener.CreateResult, error) {
	key := r.prefix + string(record.Slug)

	created, err := r.client.SetNX(ctx, key, record.OriginalURL, 0).Result()
	if err != nil {
		return shortener.CreateResult{}, fmt.Errorf("%w: setnx %s: %v", shortener.ErrStorageUnavailable, key, err)
	}

	if created {
		return shortener.CreateResult{Created: true}, nil
	}

	existing, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Slugs never expire, so the key cannot legitimately vanish
			// between SetNX and Get.
			return shortener.CreateResult{}, fmt.Errorf("%w: slug %q disappeared during create", shortener.ErrStorageUnavailable, record.Slug)
		}

		return shortener.CreateResult{}, fmt.Errorf("%w: get %s: %v", shortener.ErrStorageUnavailable, key, err)
	}

	return shortener.CreateResult{ExistingURL: existing}, nil
}

func (r *RedisStore) Lookup(ctx context.Context, slug shortener.Slug) (string, error) {
	url, err := r.client.Get(ctx, r.prefix+string(slug)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrNotFound
		}

		return "", fmt.Errorf("%w: get %s: %v", shortener.ErrStorageUnavailable, r.prefix+string(slug), err)
	}

	return url, nil
}

// Compile-time check.
var _ shortener.Repository = (*RedisStore)(nil)
