package middleware

import (
	"net/http"
	"slices"
	"strings"
)

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposeHeaders  []string
}

// CORS allows credentialed requests from the configured origins. The matching origin is
// echoed back since browsers reject "*" together with credentials.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	allowMethods := strings.Join(defaultIfEmpty(cfg.AllowedMethods, []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}), ", ")
	allowHeaders := strings.Join(defaultIfEmpty(cfg.AllowedHeaders, []string{"Content-Type", "X-Request-ID"}), ", ")
	exposeHeaders := strings.Join(defaultIfEmpty(cfg.ExposeHeaders, []string{"X-Total-Count", "X-Request-ID"}), ", ")
	anyOrigin := slices.Contains(cfg.AllowedOrigins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && (anyOrigin || slices.Contains(cfg.AllowedOrigins, origin)) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", allowMethods)
				h.Set("Access-Control-Allow-Headers", allowHeaders)
				h.Set("Access-Control-Expose-Headers", exposeHeaders)
				h.Add("Vary", "Origin")

				if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders sets the conservative defaults an API never needs to relax.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cross-Origin-Resource-Policy", "same-origin")

		next.ServeHTTP(w, r)
	})
}

func defaultIfEmpty(in, fallback []string) []string {
	if len(in) == 0 {
		return fallback
	}

	return in
}
