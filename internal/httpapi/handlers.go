package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"warden.dev/internal/auth"
	"warden.dev/internal/config"
	"warden.dev/internal/obs"
	"warden.dev/internal/store"
)

// ReadyProbe pings backing services for the readiness endpoint.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer. It wires the authentication gate in front of the
// router and the authorization gate in front of each protected operation.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	users      store.Store
	hasher     *auth.Hasher
	tokens     *auth.TokenService
	authorizer *auth.Authorizer

	maxBody   int64
	rateRPS   int
	rateBurst int
}

// Options collects API dependencies.
type Options struct {
	Version    string
	ReadyProbe ReadyProbe

	Users      store.Store
	Hasher     *auth.Hasher
	Tokens     *auth.TokenService
	Authorizer *auth.Authorizer

	MaxBodyBytes       int64
	RateLimitPerSecond int
	RateLimitBurst     int
}

// New constructs the API and registers all routes. Required permissions are
// fixed here, at registration time, never derived from the request.
func New(opts Options) (*API, error) {
	switch {
	case opts.Users == nil:
		return nil, errors.New("httpapi: user store is required")
	case opts.Hasher == nil:
		return nil, errors.New("httpapi: hasher is required")
	case opts.Tokens == nil:
		return nil, errors.New("httpapi: token service is required")
	case opts.Authorizer == nil:
		return nil, errors.New("httpapi: authorizer is required")
	}
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: opts.ReadyProbe,
		version:    opts.Version,
		users:      opts.Users,
		hasher:     opts.Hasher,
		tokens:     opts.Tokens,
		authorizer: opts.Authorizer,
		maxBody:    opts.MaxBodyBytes,
		rateRPS:    opts.RateLimitPerSecond,
		rateBurst:  opts.RateLimitBurst,
	}
	if a.maxBody <= 0 {
		a.maxBody = config.DefaultMaxBody
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/auth/register", a.handleRegister)
	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.Handle("/v1/auth/me", a.requireAuth(http.HandlerFunc(a.handleMe)))

	a.mux.Handle("/v1/users", a.protect(http.HandlerFunc(a.handleUsers), auth.PermReadUser))
	a.mux.HandleFunc("/v1/users/", a.handleUserScoped)
	a.mux.Handle("/v1/roles", a.protect(http.HandlerFunc(a.handleRoles), auth.PermReadRole))

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	return a, nil
}

// Handler returns the fully wrapped handler chain. The authentication gate
// sits directly in front of the router so no protected handler runs without
// a verified identity.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = MaxBodyBytes(h, a.maxBody)
	if a.rateRPS > 0 {
		h = RateLimit(h, a.rateBurst, a.rateRPS)
	}
	h = LoggingJSON(h)
	h = RequestID(h)
	h = CORS(h)
	h = SecurityHeaders(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "warden-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "warden-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func (a *API) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, a.maxBody)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
