// Package container wires the application together with samber/do. Each
// Package function registers the providers for one concern; nothing is
// constructed until first invoked, so backends that the selected
// configuration never touches are never dialed.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/proprietary/ec-prv-url-shortener/internal/handlers"
	"github.com/proprietary/ec-prv-url-shortener/internal/hashing"
	"github.com/proprietary/ec-prv-url-shortener/internal/health"
	"github.com/proprietary/ec-prv-url-shortener/internal/middleware"
	"github.com/proprietary/ec-prv-url-shortener/internal/shortener"
	"github.com/proprietary/ec-prv-url-shortener/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Storage backend names accepted by Options.StorageBackend.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Options holds the process configuration. The HighwayHash key is not an
// option on purpose: it is secret material and comes only from the
// environment (hashing.KeyEnvVar).
type Options struct {
	Port           int    `default:"8888"                                help:"Port to listen on"                                  short:"p"`
	BaseURL        string `default:"https://prv.ec"                      help:"Public base URL shortened links are built from"     short:"b"`
	SlugLength     int    `default:"7"                                   help:"Length of generated slugs"`
	MaxRetries     int    `default:"5"                                   help:"Collision retry budget for slug derivation"`
	StorageBackend string `default:"memory"                              help:"Mapping store backend: memory, postgres or redis"   short:"s"`
	PostgresURL    string `default:"postgres://localhost:5432/shortener" help:"PostgreSQL connection string"`
	RedisAddr      string `default:"localhost:6379"                      help:"Redis server address"                               short:"r"`
	RedisCache     bool   `default:"false"                               help:"Cache resolves in Redis (postgres backend only)"`
	CacheTTL       int    `default:"3600"                                help:"Redis cache TTL in seconds"`
}

// LoggerPackage provides the process-wide zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*zap.Logger, error) {
		return zap.NewProduction()
	})
}

// redisConn owns the Redis client lifecycle so injector shutdown closes it.
type redisConn struct {
	*redis.Client
}

func (c *redisConn) Shutdown() error { return c.Close() }

// RedisPackage provides the Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redisConn, error) {
		options := do.MustInvoke[*Options](i)

		return &redisConn{redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		})}, nil
	})

	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		conn, err := do.Invoke[*redisConn](i)
		if err != nil {
			return nil, err
		}

		return conn.Client, nil
	})
}

// pgPool owns the pgx pool lifecycle so injector shutdown closes it.
type pgPool struct {
	*pgxpool.Pool
}

func (p *pgPool) Shutdown() error {
	p.Pool.Close()
	return nil
}

// PostgresPackage provides the PostgreSQL connection pool.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgPool, error) {
		options := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), options.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		return &pgPool{pool}, nil
	})

	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		pool, err := do.Invoke[*pgPool](i)
		if err != nil {
			return nil, err
		}

		return pool.Pool, nil
	})
}

// RepositoryPackage provides the mapping store selected by configuration.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		options := do.MustInvoke[*Options](i)

		switch options.StorageBackend {
		case BackendMemory:
			return store.NewMemoryStore(), nil

		case BackendRedis:
			client, err := do.Invoke[*redis.Client](i)
			if err != nil {
				return nil, err
			}

			return store.NewRedisStore(client), nil

		case BackendPostgres:
			pool, err := do.Invoke[*pgxpool.Pool](i)
			if err != nil {
				return nil, err
			}

			pg := store.NewPostgresStore(pool)
			if err := pg.Migrate(context.Background()); err != nil {
				return nil, err
			}

			if !options.RedisCache {
				return pg, nil
			}

			client, err := do.Invoke[*redis.Client](i)
			if err != nil {
				return nil, err
			}

			ttl := time.Duration(options.CacheTTL) * time.Second

			return store.NewRedisCacheStore(pg, client, ttl), nil

		default:
			return nil, fmt.Errorf("unknown storage backend %q", options.StorageBackend)
		}
	})
}

// ShortenerPackage provides the keyed hasher, slug codec, and the
// orchestrating service.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*hashing.Hasher, error) {
		key, err := hashing.KeyFromEnv()
		if err != nil {
			return nil, err
		}

		return hashing.NewHasher(key), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Codec, error) {
		options := do.MustInvoke[*Options](i)

		return shortener.NewCodec(options.SlugLength)
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		options := do.MustInvoke[*Options](i)

		repo, err := do.Invoke[shortener.Repository](i)
		if err != nil {
			return nil, err
		}

		hasher, err := do.Invoke[*hashing.Hasher](i)
		if err != nil {
			return nil, err
		}

		codec, err := do.Invoke[*shortener.Codec](i)
		if err != nil {
			return nil, err
		}

		logger := do.MustInvoke[*zap.Logger](i)

		return shortener.NewService(repo, hasher, codec, options.BaseURL, options.MaxRetries, logger), nil
	})
}

// HTTPPackage provides the router and the huma API with all routes
// registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)

		svc, err := do.Invoke[*shortener.Service](i)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("prv.ec URL Shortener", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))

		handlers.RegisterRoutes(api, handlers.NewURLHandler(svc, logger))

		checks := make(map[string]health.Checker)

		if options.StorageBackend == BackendRedis || (options.StorageBackend == BackendPostgres && options.RedisCache) {
			client, err := do.Invoke[*redis.Client](i)
			if err != nil {
				return nil, err
			}
			checks["redis"] = health.NewRedisChecker(client)
		}

		if options.StorageBackend == BackendPostgres {
			pool, err := do.Invoke[*pgxpool.Pool](i)
			if err != nil {
				return nil, err
			}
			checks["postgres"] = health.NewPostgresChecker(pool)
		}

		huma.Get(api, "/healthz", health.NewHandler(checks).Check)

		return api, nil
	})
}
