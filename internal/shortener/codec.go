package shortener

import (
	"fmt"
	"strings"
)

// Alphabet is the slug character set: case-sensitive base62. Slugs drawn
// from it are URL-path-safe without escaping.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const base = uint64(len(Alphabet))

// Slug length bounds accepted by validation. Encoding always produces the
// configured length, but validation accepts the whole range so records
// created under a different configured length keep resolving.
const (
	MinSlugLength = 6
	MaxSlugLength = 12
)

// Codec encodes digests into fixed-length base62 slugs and validates slug
// candidates parsed out of request paths. It never persists anything.
type Codec struct {
	length int
	space  uint64 // base^length, or 0 when it exceeds uint64
}

// NewCodec creates a Codec that encodes to slugs of exactly length
// characters. The length must lie within [MinSlugLength, MaxSlugLength].
func NewCodec(length int) (*Codec, error) {
	if length < MinSlugLength || length > MaxSlugLength {
		return nil, fmt.Errorf("shortener: slug length %d outside [%d, %d]", length, MinSlugLength, MaxSlugLength)
	}

	return &Codec{length: length, space: pow62(length)}, nil
}

// Length returns the configured encode length.
func (c *Codec) Length() int { return c.length }

// Encode maps a digest onto a slug of exactly the configured length. The
// digest is reduced modulo 62^length and written most-significant symbol
// first, left-padded with '0'.
func (c *Codec) Encode(digest uint64) Slug {
	if c.space != 0 {
		digest %= c.space
	}

	buf := make([]byte, c.length)
	for i := c.length - 1; i >= 0; i-- {
		buf[i] = Alphabet[digest%base]
		digest /= base
	}

	return Slug(buf)
}

// DecodeAndValidate accepts a candidate composed exclusively of the codec
// alphabet and within the slug length bounds, and rejects everything else
// with ErrMalformedSlug. A rejection is a normal negative result, not a
// failure.
func (c *Codec) DecodeAndValidate(candidate string) (Slug, error) {
	if len(candidate) < MinSlugLength || len(candidate) > MaxSlugLength {
		return "", fmt.Errorf("%w: length %d outside [%d, %d]", ErrMalformedSlug, len(candidate), MinSlugLength, MaxSlugLength)
	}

	for i := 0; i < len(candidate); i++ {
		if !strings.ContainsRune(Alphabet, rune(candidate[i])) {
			return "", fmt.Errorf("%w: character %q at position %d", ErrMalformedSlug, candidate[i], i)
		}
	}

	return Slug(candidate), nil
}

// pow62 returns 62^n, or 0 when the result does not fit in a uint64 and the
// full digest range is used unreduced.
func pow62(n int) uint64 {
	p := uint64(1)
	for i := 0; i < n; i++ {
		if p > (1<<64-1)/base {
			return 0
		}
		p *= base
	}

	return p
}
