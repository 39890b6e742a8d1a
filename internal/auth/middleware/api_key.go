package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// APIKeyMiddleware guards trigger endpoints with a shared key
//
// The key is accepted from the X-API-Key header or as an "Authorization: Bearer <key>" header,
// which is what external cron services usually send. An empty apiKey disables the check.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			providedKey := r.Header.Get("X-API-Key")
			if providedKey == "" {
				providedKey, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			}

			if providedKey == "" || subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"error":"invalid or missing API key"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
