package shortener_test

import (
	"strings"
	"testing"

	"github.com/proprietary/ec-prv-url-shortener/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases host",
			input:    "https://EXAMPLE.COM/path",
			expected: "https://example.com/path",
		},
		{
			name:     "lowercases scheme",
			input:    "HTTPS://example.com/path",
			expected: "https://example.com/path",
		},
		{
			name:     "removes trailing slash",
			input:    "https://example.com/path/",
			expected: "https://example.com/path",
		},
		{
			name:     "keeps root slash",
			input:    "https://example.com/",
			expected: "https://example.com/",
		},
		{
			name:     "removes default https port",
			input:    "https://example.com:443/path",
			expected: "https://example.com/path",
		},
		{
			name:     "removes default http port",
			input:    "http://example.com:80/path",
			expected: "http://example.com/path",
		},
		{
			name:     "keeps non-default port",
			input:    "https://example.com:8080/path",
			expected: "https://example.com:8080/path",
		},
		{
			name:     "removes fragment",
			input:    "https://example.com/path#section",
			expected: "https://example.com/path",
		},
		{
			name:     "preserves query string",
			input:    "https://example.com/path?foo=bar",
			expected: "https://example.com/path?foo=bar",
		},
		{
			name:     "combined",
			input:    "HTTPS://EXAMPLE.COM:443/path/?foo=bar#section",
			expected: "https://example.com/path?foo=bar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := shortener.CanonicalURL(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCanonicalURL_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"unparseable", "://invalid"},
		{"relative url", "/just/a/path"},
		{"missing scheme", "example.com/path"},
		{"disallowed scheme", "ftp://example.com/file"},
		{"javascript scheme", "javascript:alert(1)"},
		{"missing host", "https:///path"},
		{"oversized", "https://example.com/" + strings.Repeat("a", shortener.MaxURLLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := shortener.CanonicalURL(tt.input)

			assert.ErrorIs(t, err, shortener.ErrInvalidURL)
		})
	}
}
