package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/proprietary/ec-prv-url-shortener/internal/shortener"
)

// PostgresStore is a durable implementation of shortener.Repository backed
// by PostgreSQL. The slug primary key plus ON CONFLICT DO NOTHING gives
// create-if-absent its per-slug atomicity.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed mapping store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the schema if it does not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS short_urls (
			slug         TEXT PRIMARY KEY,
			original_url TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`

	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("%w: create short_urls table: %v", shortener.ErrStorageUnavailable, err)
	}

	return nil
}

func (p *PostgresStore) CreateIfAbsent(ctx context.Context, record *shortener.ShortURL) (shortener.CreateResult, error) {
	insert := `
		INSERT INTO short_urls (slug, original_url, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, insert,
		string(record.Slug),
		record.OriginalURL,
		record.CreatedAt,
	)
	if err != nil {
		return shortener.CreateResult{}, fmt.Errorf("%w: insert short url: %v", shortener.ErrStorageUnavailable, err)
	}

	if tag.RowsAffected() == 1 {
		return shortener.CreateResult{Created: true}, nil
	}

	existing, err := p.Lookup(ctx, record.Slug)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			// The conflicting row vanished between insert and read.
			return shortener.CreateResult{}, fmt.Errorf("%w: slug %q disappeared during create", shortener.ErrStorageUnavailable, record.Slug)
		}

		return shortener.CreateResult{}, err
	}

	return shortener.CreateResult{ExistingURL: existing}, nil
}

func (p *PostgresStore) Lookup(ctx context.Context, slug shortener.Slug) (string, error) {
	query := `
		SELECT original_url
		FROM short_urls
		WHERE slug = $1
	`

	var originalURL string

	err := p.pool.QueryRow(ctx, query, string(slug)).Scan(&originalURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shortener.ErrNotFound
		}

		return "", fmt.Errorf("%w: select short url: %v", shortener.ErrStorageUnavailable, err)
	}

	return originalURL, nil
}

// Compile-time check.
var _ shortener.Repository = (*PostgresStore)(nil)
