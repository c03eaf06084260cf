package middleware

import "net/http"

// DefaultMaxBodyBytes caps JSON request bodies (1 MiB).
const DefaultMaxBodyBytes = 1 << 20

// MaxBytes limits the request body to maxBytes; reading past it fails and the
// handler answers 413. Spreadsheet uploads get their own, larger limit.
func MaxBytes(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
