package shortener

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxURLLength bounds the accepted input URL size.
const MaxURLLength = 8192

// CanonicalURL validates rawURL and reduces it to the canonical form that is
// hashed and stored. Two spellings of the same URL shorten to the same slug
// exactly when they canonicalize identically, so the rules here are fixed:
//   - scheme must be http or https, host must be present
//   - scheme and host are lowercased
//   - default ports (:80 for http, :443 for https) are removed
//   - a trailing slash is removed from the path (the root "/" is kept)
//   - the fragment is dropped, the query is kept verbatim
//
// Returns ErrInvalidURL for anything that fails validation.
func CanonicalURL(rawURL string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	if len(rawURL) > MaxURLLength {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidURL, MaxURLLength)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q is not allowed", ErrInvalidURL, u.Scheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	if strings.HasSuffix(u.Host, ":80") && u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	} else if strings.HasSuffix(u.Host, ":443") && u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	if len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	u.Fragment = ""

	return u.String(), nil
}
