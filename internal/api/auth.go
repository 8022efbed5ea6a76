package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"achihouse/internal/config"

	"golang.org/x/time/rate"
)

// Permissions understood by the admin API. A key with an empty
// permission list is treated as unrestricted.
const (
	PermReadContent       = "read:content"
	PermWriteContent      = "write:content"
	PermReadReservations  = "read:reservations"
	PermWriteReservations = "write:reservations"
)

var errPermissionDenied = fmt.Errorf("permission denied")

// HTTPAuth provides API-key auth and per-key rate limiting. Public
// endpoints skip the key check but still count against the limiter.
type HTTPAuth struct {
	cfg      config.APIConfig
	clients  map[string]config.APIClientKey
	limiters sync.Map // map[string]*rate.Limiter
}

func NewHTTPAuth(cfg config.APIConfig) *HTTPAuth {
	m := make(map[string]config.APIClientKey, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		m[k.Key] = k
	}
	return &HTTPAuth{cfg: cfg, clients: m}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.Auth.Enabled && !isPublicEndpoint(r) {
			if err := a.checkAuth(r); err != nil {
				statusCode := http.StatusUnauthorized
				if err == errPermissionDenied {
					statusCode = http.StatusForbidden
				}
				writeError(w, statusCode, err.Error())
				return
			}
		}

		if err := a.checkRateLimit(r); err != nil {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isPublicEndpoint reports whether the request serves the public site:
// submitting a reservation, reading the active content lists, and the
// date-picker helper.
func isPublicEndpoint(r *http.Request) bool {
	path := r.URL.Path
	switch {
	case path == "/healthz":
		return true
	case path == "/api/v1/reservation-requests" && r.Method == http.MethodPost:
		return true
	case path == "/api/v1/reservation-requests/min-time" && r.Method == http.MethodGet:
		return true
	case (path == "/api/v1/testimonials" || path == "/api/v1/media-assets") && r.Method == http.MethodGet:
		return activeOnly(r)
	}
	return false
}

func (a *HTTPAuth) checkAuth(r *http.Request) error {
	apiKey := strings.TrimSpace(r.Header.Get(a.headerAPIKey()))
	extra := strings.TrimSpace(r.Header.Get(a.headerExtra()))
	if apiKey == "" || extra == "" {
		return fmt.Errorf("missing api key headers")
	}

	client, ok := a.clients[apiKey]
	if !ok {
		return fmt.Errorf("invalid api key")
	}
	if subtle.ConstantTimeCompare([]byte(client.Extra), []byte(extra)) != 1 {
		return fmt.Errorf("invalid extra header")
	}

	return a.checkPermissions(client, r)
}

func (a *HTTPAuth) checkPermissions(client config.APIClientKey, r *http.Request) error {
	required := requiredPermission(r)
	if required == "" || len(client.Permissions) == 0 {
		return nil
	}
	for _, p := range client.Permissions {
		if strings.TrimSpace(p) == required {
			return nil
		}
	}
	return errPermissionDenied
}

func requiredPermission(r *http.Request) string {
	path := r.URL.Path
	write := r.Method != http.MethodGet

	switch {
	case strings.HasPrefix(path, "/api/v1/reservation-requests"):
		if write {
			return PermWriteReservations
		}
		return PermReadReservations
	case strings.HasPrefix(path, "/api/v1/testimonials"),
		strings.HasPrefix(path, "/api/v1/media-assets"):
		if write {
			return PermWriteContent
		}
		return PermReadContent
	case strings.HasPrefix(path, "/api/v1/uploads/"):
		return PermWriteContent
	}
	return ""
}

func (a *HTTPAuth) checkRateLimit(r *http.Request) error {
	if a.cfg.RateLimit.RPS <= 0 {
		return nil
	}

	lim := a.getLimiter(a.clientKey(r))
	if !lim.Allow() {
		return fmt.Errorf("rate limit exceeded")
	}
	return nil
}

func (a *HTTPAuth) clientKey(r *http.Request) string {
	if apiKey := strings.TrimSpace(r.Header.Get(a.headerAPIKey())); apiKey != "" {
		return apiKey
	}
	return clientAddr(r)
}

func (a *HTTPAuth) getLimiter(key string) *rate.Limiter {
	if v, ok := a.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := a.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(a.cfg.RateLimit.RPS), burst)
	actual, loaded := a.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func (a *HTTPAuth) headerAPIKey() string {
	if h := strings.TrimSpace(a.cfg.Auth.HeaderAPIKey); h != "" {
		return h
	}
	return "x-api-key"
}

func (a *HTTPAuth) headerExtra() string {
	if h := strings.TrimSpace(a.cfg.Auth.HeaderExtra); h != "" {
		return h
	}
	return "x-api-extra"
}
