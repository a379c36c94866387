// Package shortener is the URL-shortening core: deterministic slug
// derivation from a keyed hash, collision handling, and the contract for the
// persistent slug-to-URL mapping. It does no transport or storage-engine
// work of its own.
package shortener

import "time"

// Slug is the short identifier appended to the service base URL.
type Slug string

// ShortURL represents a slug-to-URL record. Records are immutable after
// creation.
type ShortURL struct {
	Slug        Slug
	OriginalURL string
	CreatedAt   time.Time
}
