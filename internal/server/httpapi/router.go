package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/subcheck/internal/logging"
	"github.com/gorilla/mux"
)

// Options tunes the router.
type Options struct {
	// AdminSecret signs admin bearer tokens. Empty leaves /add_token unregistered.
	AdminSecret []byte
	// CheckRateLimit is the global requests per second allowed on /check; 0 = unlimited.
	CheckRateLimit int
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// NewRouter wires the routes and middlewares around s.
func NewRouter(s TokenService, l logging.Logger, o Options) http.Handler {
	h := NewHandler(s, l)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(h.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)

	router.HandleFunc("/", h.Root).Methods(http.MethodGet)
	router.Handle("/check", RateLimit(o.CheckRateLimit)(http.HandlerFunc(h.Check))).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	if len(o.AdminSecret) > 0 {
		router.Handle("/add_token", AdminAuth(o.AdminSecret, l)(http.HandlerFunc(h.AddToken))).Methods(http.MethodPost)
	}

	if o.Metrics != nil {
		router.Handle("/metrics", o.Metrics).Methods(http.MethodGet)
	}

	return Chain(router, RequestID(), AccessLog(l), Recover(l))
}
