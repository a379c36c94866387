package shortener_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/proprietary/ec-prv-url-shortener/internal/hashing"
	"github.com/proprietary/ec-prv-url-shortener/internal/shortener"
	"github.com/proprietary/ec-prv-url-shortener/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestService(t *testing.T, repo shortener.Repository) *shortener.Service {
	t.Helper()

	key, err := hashing.KeyFromHex(testKeyHex)
	require.NoError(t, err)

	codec, err := shortener.NewCodec(7)
	require.NoError(t, err)

	return shortener.NewService(repo, hashing.NewHasher(key), codec, "https://prv.ec", 0, zap.NewNop())
}

// mapDigester returns scripted digests keyed by the exact hash input,
// making collisions reproducible in tests.
type mapDigester map[string]uint64

func (m mapDigester) Sum64(p []byte) uint64 { return m[string(p)] }

// constDigester collides on every input.
type constDigester uint64

func (d constDigester) Sum64([]byte) uint64 { return uint64(d) }

func newScriptedService(t *testing.T, repo shortener.Repository, d shortener.Digester) *shortener.Service {
	t.Helper()

	codec, err := shortener.NewCodec(7)
	require.NoError(t, err)

	return shortener.NewService(repo, d, codec, "https://prv.ec", 3, zap.NewNop())
}

func TestServiceShorten(t *testing.T) {
	t.Run("shortens a valid url", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryStore())

		record, err := svc.Shorten(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.Len(t, string(record.Slug), 7)
		assert.Equal(t, "https://example.com/a", record.OriginalURL)
		assert.Equal(t, "https://prv.ec/"+string(record.Slug), svc.ShortLink(record.Slug))
	})

	t.Run("is idempotent for the same url", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryStore())

		first, err := svc.Shorten(context.Background(), "https://example.com/a")
		require.NoError(t, err)

		second, err := svc.Shorten(context.Background(), "https://example.com/a")
		require.NoError(t, err)

		assert.Equal(t, first.Slug, second.Slug)
	})

	t.Run("equivalent spellings share a slug", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryStore())

		first, err := svc.Shorten(context.Background(), "https://example.com/path")
		require.NoError(t, err)

		second, err := svc.Shorten(context.Background(), "HTTPS://EXAMPLE.COM:443/path/")
		require.NoError(t, err)

		assert.Equal(t, first.Slug, second.Slug)
	})

	t.Run("distinct urls get distinct slugs", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryStore())

		first, err := svc.Shorten(context.Background(), "https://example.com/a")
		require.NoError(t, err)

		second, err := svc.Shorten(context.Background(), "https://example.com/b")
		require.NoError(t, err)

		assert.NotEqual(t, first.Slug, second.Slug)
	})

	t.Run("rejects invalid urls", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryStore())

		for _, input := range []string{"", "not a url", "ftp://example.com/f", "/relative"} {
			_, err := svc.Shorten(context.Background(), input)

			assert.ErrorIs(t, err, shortener.ErrInvalidURL, "input %q", input)
		}
	})
}

func TestServiceShorten_Collisions(t *testing.T) {
	urlA := "https://a.example/x"
	urlB := "https://b.example/y"

	digester := mapDigester{
		urlA:            7,
		urlB:            7, // raw digest collides with urlA
		urlB + "\x001": 9, // first perturbed retry resolves it
	}

	t.Run("colliding urls end up with independent slugs", func(t *testing.T) {
		repo := store.NewMemoryStore()
		svc := newScriptedService(t, repo, digester)

		recordA, err := svc.Shorten(context.Background(), urlA)
		require.NoError(t, err)

		recordB, err := svc.Shorten(context.Background(), urlB)
		require.NoError(t, err)

		assert.NotEqual(t, recordA.Slug, recordB.Slug)

		gotA, err := svc.Resolve(context.Background(), string(recordA.Slug))
		require.NoError(t, err)
		assert.Equal(t, urlA, gotA)

		gotB, err := svc.Resolve(context.Background(), string(recordB.Slug))
		require.NoError(t, err)
		assert.Equal(t, urlB, gotB)
	})

	t.Run("re-shortening after a collision is still idempotent", func(t *testing.T) {
		repo := store.NewMemoryStore()
		svc := newScriptedService(t, repo, digester)

		_, err := svc.Shorten(context.Background(), urlA)
		require.NoError(t, err)

		first, err := svc.Shorten(context.Background(), urlB)
		require.NoError(t, err)

		second, err := svc.Shorten(context.Background(), urlB)
		require.NoError(t, err)

		assert.Equal(t, first.Slug, second.Slug)
	})

	t.Run("exhausted retry budget fails", func(t *testing.T) {
		repo := store.NewMemoryStore()
		svc := newScriptedService(t, repo, constDigester(7))

		_, err := svc.Shorten(context.Background(), urlA)
		require.NoError(t, err)

		_, err = svc.Shorten(context.Background(), urlB)

		assert.ErrorIs(t, err, shortener.ErrSlugSpaceExhausted)
	})
}

func TestServiceResolve(t *testing.T) {
	t.Run("round-trips a shortened url", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryStore())

		record, err := svc.Shorten(context.Background(), "https://example.com/a?q=1")
		require.NoError(t, err)

		got, err := svc.Resolve(context.Background(), string(record.Slug))

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a?q=1", got)
	})

	t.Run("accepts a leading slash from the request path", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryStore())

		record, err := svc.Shorten(context.Background(), "https://example.com/a")
		require.NoError(t, err)

		got, err := svc.Resolve(context.Background(), "/"+string(record.Slug))

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a", got)
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryStore())

		_, err := svc.Resolve(context.Background(), "zzzzzzz")

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("malformed slug is rejected", func(t *testing.T) {
		svc := newTestService(t, store.NewMemoryStore())

		_, err := svc.Resolve(context.Background(), "#bad!")

		assert.ErrorIs(t, err, shortener.ErrMalformedSlug)
	})
}

func TestServiceShorten_Concurrent(t *testing.T) {
	svc := newTestService(t, store.NewMemoryStore())

	const workers = 32

	slugs := make([]shortener.Slug, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			record, err := svc.Shorten(context.Background(), "https://example.com/contended")
			if err != nil {
				t.Error(err)
				return
			}
			slugs[i] = record.Slug
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Equal(t, slugs[0], slugs[i])
	}

	got, err := svc.Resolve(context.Background(), string(slugs[0]))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/contended", got)
}

func TestHashInputPerturbationIsDistinct(t *testing.T) {
	// The perturbation byte can never appear in a canonical URL, so retry
	// inputs cannot alias an unrelated URL.
	canonical, err := shortener.CanonicalURL("https://example.com/a")
	require.NoError(t, err)

	assert.False(t, bytes.ContainsRune([]byte(canonical), 0))
}
