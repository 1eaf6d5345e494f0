// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/guesthouse/internal/config"
	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/metrics"
)

// Limiter names, also used as the rate limit metric label.
const (
	limitGeneral     = "general"
	limitLogin       = "login"
	limitPublicWrite = "public_write"
	limitHealth      = "health"
	limitMedia       = "media"
)

// fixedLimits are per-minute budgets that do not come from configuration.
// One gallery page loads many media files; probes poll health often.
var fixedLimits = map[string]int{
	limitPublicWrite: 30,
	limitHealth:      1000,
	limitMedia:       600,
}

// edgeMiddleware is the CORS handler plus one per-IP limiter per name.
type edgeMiddleware struct {
	cors     func(http.Handler) http.Handler
	limiters map[string]func(http.Handler) http.Handler
}

func newEdgeMiddleware(sec config.SecurityConfig) *edgeMiddleware {
	general, window, login := sec.RateLimitRequests, sec.RateLimitWindow, sec.LoginRateLimit
	if general <= 0 {
		general = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	if login <= 0 {
		login = 5
	}

	e := &edgeMiddleware{
		cors:     corsHandler(sec.CORSOrigins),
		limiters: make(map[string]func(http.Handler) http.Handler, len(fixedLimits)+2),
	}
	e.add(limitGeneral, general, window)
	e.add(limitLogin, login, time.Minute)
	for name, n := range fixedLimits {
		e.add(name, n, time.Minute)
	}
	return e
}

func (e *edgeMiddleware) add(name string, requests int, window time.Duration) {
	e.limiters[name] = httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			rejectRateLimited(w, r, name)
		}),
	)
}

// limit returns the named limiter. Unknown names are a wiring bug.
func (e *edgeMiddleware) limit(name string) func(http.Handler) http.Handler {
	l, ok := e.limiters[name]
	if !ok {
		panic("api: unknown rate limiter " + name)
	}
	return l
}

// corsHandler allows credentials unless an origin is "*", which browsers
// refuse to combine with credentials.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	credentials := true
	for _, o := range origins {
		if o == "*" {
			credentials = false
		}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "ETag"},
		AllowCredentials: credentials,
		MaxAge:           int((24 * time.Hour).Seconds()),
	})
}

func rejectRateLimited(w http.ResponseWriter, r *http.Request, limiter string) {
	metrics.RateLimited.WithLabelValues(limiter).Inc()
	logging.Ctx(r.Context()).Warn().
		Str("limiter", limiter).
		Str("path", logging.SanitizeLogValue(r.URL.Path)).
		Msg("Rate limit exceeded")
	respondError(w, r, http.StatusTooManyRequests, ErrCodeRateLimited, "Too many requests, try again later", nil)
}

// securityHeaders sets browser hardening headers. HSTS is only sent over
// HTTPS, direct or behind a TLS-terminating proxy.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// noStore keeps admin responses, which may carry guest data, out of caches.
func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
