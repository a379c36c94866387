// Package hashing computes keyed digests of canonical URL bytes using
// HighwayHash. The same key and input always produce the same digest, and
// without the key the digests are not predictable by third parties.
package hashing

import "github.com/minio/highwayhash"

// Hasher produces 64-bit keyed digests. It is stateless apart from the
// immutable key and safe for concurrent use.
type Hasher struct {
	key Key
}

// NewHasher creates a Hasher bound to the given key.
func NewHasher(key Key) *Hasher {
	return &Hasher{key: key}
}

// Sum64 returns the keyed 64-bit digest of p.
func (h *Hasher) Sum64(p []byte) uint64 {
	return highwayhash.Sum64(p, h.key.b[:])
}
