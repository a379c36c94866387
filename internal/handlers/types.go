package handlers

// ShortenRequest is the request body for shortening a URL.
type ShortenRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url"`
	}
}

// ShortenResponse is the response for a successfully shortened URL.
type ShortenResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Slug        string `doc:"The slug"                     example:"aB3xQ9z"                           json:"slug"`
		ShortURL    string `doc:"The full short URL"           example:"https://prv.ec/aB3xQ9z"            json:"shortUrl"`
		OriginalURL string `doc:"The canonicalized target URL" example:"https://example.com/very/long/path" json:"originalUrl"`
	}
}

// RedirectRequest is the request for resolving a slug.
type RedirectRequest struct {
	Slug string `doc:"The slug" example:"aB3xQ9z" path:"slug"`
}

// RedirectResponse redirects to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}
