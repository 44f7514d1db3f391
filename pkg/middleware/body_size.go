package middleware

import (
	"net/http"

	apperrors "sitekit/pkg/errors"
	httputil "sitekit/pkg/http"
)

// MaxRequestSize caps request bodies at limit bytes. Requests that declare a
// larger Content-Length are refused up front; others fail on read.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				_ = httputil.WriteError(w, apperrors.PayloadTooLarge(limit))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
