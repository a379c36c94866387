package shortener

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxRetries bounds the collision retry loop in Shorten.
const DefaultMaxRetries = 5

// Digester produces a keyed 64-bit digest of the canonical URL bytes.
// Satisfied by hashing.Hasher.
type Digester interface {
	Sum64(p []byte) uint64
}

// Service orchestrates shortening and resolution. It derives the slug from a
// keyed digest of the canonical URL, persists through the Repository
// contract, and resolves collisions by deterministically perturbing the
// hash input.
type Service struct {
	repo       Repository
	digester   Digester
	codec      *Codec
	baseURL    string
	maxRetries int
	logger     *zap.Logger
}

// NewService creates a Service. baseURL is the public prefix shortened links
// are built from (e.g. "https://prv.ec"); a trailing slash is tolerated.
func NewService(repo Repository, digester Digester, codec *Codec, baseURL string, maxRetries int, logger *zap.Logger) *Service {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	return &Service{
		repo:       repo,
		digester:   digester,
		codec:      codec,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Shorten validates and canonicalizes rawURL, derives its slug, and creates
// the record if absent. Shortening the same URL again returns the same slug
// without creating a duplicate record. When two distinct URLs derive the
// same slug, the hash input is perturbed with a retry counter until a free
// slug is found, bounded by the retry budget.
func (s *Service) Shorten(ctx context.Context, rawURL string) (*ShortURL, error) {
	canonical, err := CanonicalURL(rawURL)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		digest := s.digester.Sum64(hashInput(canonical, attempt))
		slug := s.codec.Encode(digest)

		record := &ShortURL{
			Slug:        slug,
			OriginalURL: canonical,
			CreatedAt:   time.Now().UTC(),
		}

		result, err := s.repo.CreateIfAbsent(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("create slug mapping: %w", err)
		}

		if result.Created {
			return record, nil
		}

		if result.ExistingURL == canonical {
			// Idempotent case: the URL was already shortened.
			record.OriginalURL = result.ExistingURL
			return record, nil
		}

		s.logger.Warn("slug collision, retrying with perturbed input",
			zap.String("slug", string(slug)),
			zap.Int("attempt", attempt),
		)
	}

	return nil, fmt.Errorf("no free slug after %d retries: %w", s.maxRetries, ErrSlugSpaceExhausted)
}

// Resolve validates a slug candidate extracted from a request path and looks
// up its URL. A malformed candidate yields ErrMalformedSlug and an unknown
// slug yields ErrNotFound; callers surface both as not-found.
func (s *Service) Resolve(ctx context.Context, candidate string) (string, error) {
	slug, err := s.codec.DecodeAndValidate(strings.TrimPrefix(candidate, "/"))
	if err != nil {
		return "", err
	}

	original, err := s.repo.Lookup(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", err
		}

		return "", fmt.Errorf("lookup slug %q: %w", slug, err)
	}

	return original, nil
}

// ShortLink builds the public short URL for a slug.
func (s *Service) ShortLink(slug Slug) string {
	return s.baseURL + "/" + string(slug)
}

// hashInput returns the bytes hashed for the given retry attempt. Attempt 0
// hashes the canonical URL itself; later attempts append a NUL byte and the
// decimal attempt number. NUL cannot occur inside a canonical URL, so a
// perturbed input never aliases another URL's canonical form.
func hashInput(canonical string, attempt int) []byte {
	if attempt == 0 {
		return []byte(canonical)
	}

	buf := make([]byte, 0, len(canonical)+4)
	buf = append(buf, canonical...)
	buf = append(buf, 0)
	buf = strconv.AppendInt(buf, int64(attempt), 10)

	return buf
}
