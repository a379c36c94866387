package hashing

import (
	"encoding/hex"
	"fmt"
	"os"
)

// KeyEnvVar is the environment variable the HighwayHash key is read from at
// startup. The value must be 64 hex characters (a 256-bit key).
const KeyEnvVar = "EC_PRV_URL_SHORTENER__HIGHWAYHASH_KEY"

// KeySize is the key length in bytes required by HighwayHash.
const KeySize = 32

// Key is the secret 256-bit key used to derive slugs from URLs. It is loaded
// once at startup and shared read-only by all request workers. The raw bytes
// are deliberately unexported and excluded from formatted output so the key
// never ends up in logs or serialized state.
type Key struct {
	b [KeySize]byte
}

// KeyFromHex parses a 64-character hex string into a Key.
func KeyFromHex(s string) (Key, error) {
	var k Key

	raw, err := hex.DecodeString(s)
	if err != nil {
		return k, fmt.Errorf("hashing: key is not valid hex: %w", err)
	}

	if len(raw) != KeySize {
		return k, fmt.Errorf("hashing: key must be %d bytes, got %d", KeySize, len(raw))
	}

	copy(k.b[:], raw)

	return k, nil
}

// KeyFromEnv loads the key from KeyEnvVar. It fails when the variable is
// unset or malformed so the process refuses to start without a usable key.
func KeyFromEnv() (Key, error) {
	v := os.Getenv(KeyEnvVar)
	if v == "" {
		return Key{}, fmt.Errorf("hashing: environment variable %s is not set", KeyEnvVar)
	}

	return KeyFromHex(v)
}

// String implements fmt.Stringer without revealing key material.
func (Key) String() string { return "hashing.Key(redacted)" }

// GoString implements fmt.GoStringer without revealing key material.
func (Key) GoString() string { return "hashing.Key(redacted)" }
