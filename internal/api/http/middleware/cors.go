package middleware

import (
	"net/http"
	"slices"
	"strings"
)

const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type, X-Request-Id"
)

// CORS answers preflight requests and sets CORS headers for allowed origins.
// An origin list containing "*" allows any origin.
type CORS struct {
	origins  []string
	allowAll bool
}

// NewCORS creates a CORS middleware for the given origins.
func NewCORS(origins []string) *CORS {
	return &CORS{origins: origins, allowAll: slices.Contains(origins, "*")}
}

func (c *CORS) allowed(origin string) bool {
	if c.allowAll {
		return true
	}
	return slices.ContainsFunc(c.origins, func(o string) bool {
		return strings.EqualFold(o, origin)
	})
}

// Handle applies the policy.
func (c *CORS) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" || !c.allowed(origin) {
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
