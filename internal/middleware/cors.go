package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"media-streamer/internal/logging"
)

// CORSConfig declares which origins may call the API across domains. A
// single "*" entry allows every origin, which is the default for a service
// that sits behind a trusted reverse proxy.
type CORSConfig struct {
	AllowedOrigins []string
}

// DefaultCORSConfig allows all origins.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{AllowedOrigins: []string{"*"}}
}

type corsPolicy struct {
	allowAll bool
	allowed  map[string]bool
}

func newCORSPolicy(cfg CORSConfig) corsPolicy {
	policy := corsPolicy{allowed: make(map[string]bool)}
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			policy.allowAll = true
			continue
		}
		if normalized := normalizeOrigin(origin); normalized != "" {
			policy.allowed[normalized] = true
		}
	}
	return policy
}

// normalizeOrigin reduces an origin to lowercase scheme://host, or "" when
// it cannot be parsed.
func normalizeOrigin(origin string) string {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host)
}

func (p corsPolicy) allows(origin string) bool {
	if p.allowAll {
		return true
	}
	return p.allowed[normalizeOrigin(origin)]
}

// CORS returns a middleware that answers cross-origin requests according to
// the configured policy, including preflights. Requests from disallowed
// origins are rejected outright.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	policy := newCORSPolicy(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !policy.allows(origin) {
				logging.Warn("Blocked CORS origin %s for %s", origin, r.URL.Path)
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
					w.Header().Set("Access-Control-Allow-Headers", requested)
				} else {
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
