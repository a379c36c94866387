package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the URL shortener operations.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short URL",
		Description: "Derives a deterministic slug for the URL and returns the shortened link. Shortening the same URL again returns the same slug.",
		Tags:        []string{"URLs"},
	}, urlHandler.ShortenURL)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{slug}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the URL associated with the slug.",
		Tags:        []string{"URLs"},
	}, urlHandler.RedirectToURL)
}
