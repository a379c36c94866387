package shortener

import "context"

// CreateResult reports the outcome of a CreateIfAbsent call. When Created is
// false, ExistingURL holds the URL already stored under the slug; the store
// never judges whether that constitutes a collision — the Service does.
type CreateResult struct {
	Created     bool
	ExistingURL string
}

// Repository is the persistent mapping between slugs and URLs.
//
// CreateIfAbsent must be atomic per slug: of any number of concurrent
// callers with the same slug, exactly one observes Created. Once a call
// returns Created, every subsequent Lookup for that slug observes the stored
// URL. Lookup returns ErrNotFound for unknown slugs; implementations wrap
// engine failures in ErrStorageUnavailable.
type Repository interface {
	CreateIfAbsent(ctx context.Context, record *ShortURL) (CreateResult, error)
	Lookup(ctx context.Context, slug Slug) (string, error)
}
