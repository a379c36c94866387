package store

import (
	"context"
	"time"

	"github.com/proprietary/ec-prv-url-shortener/internal/shortener"
	"github.com/redis/go-redis/v9"
)

// RedisCacheStore wraps a Repository with Redis caching for resolves.
// Creation always goes to the underlying store; the cache is write-through
// on success and best-effort throughout, so a cache outage degrades to the
// wrapped store's behavior instead of failing requests.
type RedisCacheStore struct {
	store  shortener.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheStore creates a caching decorator around store.
func NewRedisCacheStore(store shortener.Repository, client *redis.Client, ttl time.Duration) *RedisCacheStore {
	return &RedisCacheStore{
		store:  store,
		client: client,
		prefix: "cache:slug:",
		ttl:    ttl,
	}
}

func (r *RedisCacheStore) CreateIfAbsent(ctx context.Context, record *shortener.ShortURL) (shortener.CreateResult, error) {
	result, err := r.store.CreateIfAbsent(ctx, record)
	if err != nil {
		return result, err
	}

	if result.Created {
		r.cache(ctx, record.Slug, record.OriginalURL)
	}

	return result, nil
}

func (r *RedisCacheStore) Lookup(ctx context.Context, slug shortener.Slug) (string, error) {
	if url, err := r.client.Get(ctx, r.prefix+string(slug)).Result(); err == nil {
		return url, nil
	}

	url, err := r.store.Lookup(ctx, slug)
	if err != nil {
		return "", err
	}

	r.cache(ctx, slug, url)

	return url, nil
}

func (r *RedisCacheStore) cache(ctx context.Context, slug shortener.Slug, url string) {
	_ = r.client.Set(ctx, r.prefix+string(slug), url, r.ttl).Err()
}

// Compile-time check.
var _ shortener.Repository = (*RedisCacheStore)(nil)
