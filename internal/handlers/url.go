// Package handlers terminates the HTTP API and maps the shortening core's
// error taxonomy onto HTTP status codes. All shortening logic lives in
// internal/shortener; nothing here touches storage directly.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/proprietary/ec-prv-url-shortener/internal/shortener"
	"go.uber.org/zap"
)

// URLHandler handles shorten and redirect operations.
type URLHandler struct {
	svc    *shortener.Service
	logger *zap.Logger
}

// NewURLHandler creates a URL handler around the shortening service.
func NewURLHandler(svc *shortener.Service, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		svc:    svc,
		logger: logger,
	}
}

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata used for access logging.
type RequestMeta struct {
	RequestID string
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

func (h *URLHandler) ShortenURL(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	record, err := h.svc.Shorten(ctx, req.Body.URL)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrInvalidURL):
			return nil, huma.Error400BadRequest("invalid url")
		case errors.Is(err, shortener.ErrStorageUnavailable):
			return nil, huma.Error503ServiceUnavailable("storage unavailable")
		default:
			meta := RequestMetaFromContext(ctx)
			h.logger.Error("shorten failed",
				zap.String("request_id", meta.RequestID),
				zap.Error(err),
			)

			return nil, huma.Error500InternalServerError("failed to shorten url")
		}
	}

	shortLink := h.svc.ShortLink(record.Slug)

	meta := RequestMetaFromContext(ctx)
	h.logger.Info("short url created",
		zap.String("slug", string(record.Slug)),
		zap.String("request_id", meta.RequestID),
		zap.String("client_ip", meta.ClientIP),
	)

	resp := &ShortenResponse{}
	resp.Headers.Location = shortLink
	resp.Body.Slug = string(record.Slug)
	resp.Body.ShortURL = shortLink
	resp.Body.OriginalURL = record.OriginalURL

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	original, err := h.svc.Resolve(ctx, req.Slug)
	if err != nil {
		switch {
		case errors.Is(err, shortener.ErrMalformedSlug), errors.Is(err, shortener.ErrNotFound):
			// A malformed slug is indistinguishable from a missing one.
			return nil, huma.Error404NotFound("short url not found")
		case errors.Is(err, shortener.ErrStorageUnavailable):
			return nil, huma.Error503ServiceUnavailable("storage unavailable")
		default:
			return nil, huma.Error500InternalServerError("failed to resolve slug")
		}
	}

	meta := RequestMetaFromContext(ctx)
	h.logger.Info("redirect",
		zap.String("slug", req.Slug),
		zap.String("request_id", meta.RequestID),
		zap.String("client_ip", meta.ClientIP),
		zap.String("referrer", meta.Referrer),
	)

	resp := &RedirectResponse{
		Status: http.StatusMovedPermanently,
	}
	resp.Headers.Location = original

	return resp, nil
}
