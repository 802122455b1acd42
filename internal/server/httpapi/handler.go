package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/subcheck/internal/common"
	"github.com/dmitrijs2005/subcheck/internal/logging"
	"github.com/dmitrijs2005/subcheck/internal/server/models"
	"github.com/dmitrijs2005/subcheck/internal/server/services"
	"github.com/dmitrijs2005/subcheck/internal/server/tokens"
)

const (
	bannerText        = "Subscription API is running! Use /check?token=<subscription_token>"
	missingTokenText  = "Missing ?token=<subscription_token>"
	maxAdminBodyBytes = 1 << 20
)

// TokenService is the part of services.TokenService used by the handlers.
type TokenService interface {
	Check(ctx context.Context, value string) (tokens.Result, error)
	Add(ctx context.Context, req services.AddTokenRequest) (*models.Token, error)
	Ping(ctx context.Context) error
}

// Handler serves the token routes.
type Handler struct {
	tokens TokenService
	logger logging.Logger
}

func NewHandler(s TokenService, l logging.Logger) *Handler {
	return &Handler{tokens: s, logger: l}
}

// Root answers with a plain-text banner.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(bannerText))
}

// Check reports whether the token given in the query string is valid.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("token")
	if value == "" {
		writeError(w, http.StatusBadRequest, missingTokenText)
		return
	}

	res, err := h.tokens.Check(r.Context(), value)
	if err != nil {
		h.logger.Error(r.Context(), "token check failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	switch res.Verdict {
	case tokens.Valid:
		writeJSON(w, http.StatusOK, validResponse{Token: value, Valid: true, Expires: formatExpires(res.Expires)})
	case tokens.NotFound:
		writeJSON(w, http.StatusNotFound, invalidResponse{Token: value, Message: res.Verdict.Message()})
	default:
		writeJSON(w, http.StatusForbidden, invalidResponse{Token: value, Message: res.Verdict.Message()})
	}
}

func formatExpires(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// AddToken creates a token from the JSON body.
func (h *Handler) AddToken(w http.ResponseWriter, r *http.Request) {
	var req services.AddTokenRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAdminBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	// the body must hold exactly one JSON value
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	tok, err := h.tokens.Add(r.Context(), req)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Reason)
		case errors.Is(err, common.ErrorAlreadyExists):
			writeError(w, http.StatusConflict, fmt.Sprintf("Token %s already exists", *req.Token))
		default:
			h.logger.Error(r.Context(), "token creation failed", "error", err)
			writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		}
		return
	}

	h.logger.Info(r.Context(), "token added by admin",
		"request_id", RequestIDFromContext(r.Context()),
		"admin", AdminFromContext(r.Context()),
		"token", tok.Token,
	)
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Token %s added.", tok.Token)})
}

// Health pings the store.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.tokens.Ping(r.Context()); err != nil {
		h.logger.Warn(r.Context(), "storage ping failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "DOWN", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "UP"})
}

// NotFound answers unknown routes with a JSON error.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
