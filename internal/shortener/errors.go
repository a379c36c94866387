package shortener

import "errors"

var (
	// ErrInvalidURL is returned when the input to Shorten is empty, not an
	// absolute URL, uses a disallowed scheme, or exceeds the length bound.
	ErrInvalidURL = errors.New("invalid url")

	// ErrMalformedSlug is returned when a resolve candidate fails codec
	// validation. Callers surface it the same way as ErrNotFound since a
	// malformed slug cannot name an existing record.
	ErrMalformedSlug = errors.New("malformed slug")

	// ErrNotFound is returned when a valid slug has no record.
	ErrNotFound = errors.New("short url not found")

	// ErrSlugSpaceExhausted is returned when the collision retry budget is
	// exceeded. With a 64-bit digest this is not expected in practice.
	ErrSlugSpaceExhausted = errors.New("slug space exhausted")

	// ErrStorageUnavailable wraps mapping store failures. The core never
	// retries storage errors; retry policy belongs to the caller.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
