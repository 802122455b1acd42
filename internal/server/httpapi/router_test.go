package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/subcheck/internal/common"
	"github.com/dmitrijs2005/subcheck/internal/server/auth"
	"github.com/dmitrijs2005/subcheck/internal/server/metrics"
	"github.com/dmitrijs2005/subcheck/internal/server/models"
	"github.com/dmitrijs2005/subcheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/subcheck/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("admin-secret")

// newTestAPI builds the full stack over an in-memory store whose clock is
// fixed at 2025-01-01.
func newTestAPI(t *testing.T, o Options) (http.Handler, *repomanager.MemoryRepositoryManager) {
	t.Helper()

	m := repomanager.NewMemoryRepositoryManager()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := services.NewTokenService(m, nopLogger{}, nil).WithClock(func() time.Time { return now })

	return NewRouter(svc, nopLogger{}, o), m
}

func do(h http.Handler, method, target, body string, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func adminHeader(t *testing.T) []string {
	t.Helper()
	tok, err := auth.GenerateAdminToken("ops", testSecret, time.Hour)
	require.NoError(t, err)
	return []string{common.AuthorizationHeaderName, "Bearer " + tok}
}

func TestRouter_CheckExamples(t *testing.T) {
	h, m := newTestAPI(t, Options{})

	expired := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	_, err := m.Tokens().Create(context.Background(), &models.Token{Token: "VIP-ABC", Active: true})
	require.NoError(t, err)
	_, err = m.Tokens().Create(context.Background(), &models.Token{Token: "DEMO-123", Active: true, Expires: &expired})
	require.NoError(t, err)

	rr := do(h, http.MethodGet, "/check?token=VIP-ABC", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"token":"VIP-ABC","valid":true,"expires":null}`, rr.Body.String())

	rr = do(h, http.MethodGet, "/check?token=DEMO-123", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"token":"DEMO-123","valid":false,"message":"Token expired"}`, rr.Body.String())

	rr = do(h, http.MethodGet, "/check", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing ?token=<subscription_token>", decodeBody(t, rr)["error"])

	rr = do(h, http.MethodGet, "/check?token=ghost", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_AddTokenThenCheck(t *testing.T) {
	h, _ := newTestAPI(t, Options{AdminSecret: testSecret})
	hdr := adminHeader(t)

	rr := do(h, http.MethodPost, "/add_token", `{"token":"NEW-1","expires":"2025-06-30"}`, hdr...)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"message":"Token NEW-1 added."}`, rr.Body.String())

	rr = do(h, http.MethodGet, "/check?token=NEW-1", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"token":"NEW-1","valid":true,"expires":"2025-06-30T00:00:00Z"}`, rr.Body.String())

	rr = do(h, http.MethodPost, "/add_token", `{"token":"NEW-1"}`, hdr...)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.JSONEq(t, `{"error":"Token NEW-1 already exists"}`, rr.Body.String())

	rr = do(h, http.MethodPost, "/add_token", `{"token":"OFF","active":false}`, hdr...)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = do(h, http.MethodGet, "/check?token=OFF", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Token inactive", decodeBody(t, rr)["message"])

	rr = do(h, http.MethodPost, "/add_token", `{"token":"BAD","expires":"tomorrow"}`, hdr...)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_AddTokenRequiresAdmin(t *testing.T) {
	h, m := newTestAPI(t, Options{AdminSecret: testSecret})

	other, err := auth.GenerateAdminToken("ops", []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	for name, hdr := range map[string][]string{
		"no header":    nil,
		"not bearer":   {common.AuthorizationHeaderName, "Basic abc"},
		"empty bearer": {common.AuthorizationHeaderName, "Bearer "},
		"wrong secret": {common.AuthorizationHeaderName, "Bearer " + other},
	} {
		t.Run(name, func(t *testing.T) {
			rr := do(h, http.MethodPost, "/add_token", `{"token":"X"}`, hdr...)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, rr.Body.String())
			assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
		})
	}

	_, err = m.Tokens().Find(context.Background(), "X")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRouter_AddTokenDisabledWithoutSecret(t *testing.T) {
	h, _ := newTestAPI(t, Options{})

	rr := do(h, http.MethodPost, "/add_token", `{"token":"X"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_RootHealthAndUnknown(t *testing.T) {
	h, _ := newTestAPI(t, Options{})

	rr := do(h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Subscription API is running!")

	rr = do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(h, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rr.Body.String())

	rr = do(h, http.MethodPost, "/check?token=A", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouter_Metrics(t *testing.T) {
	m := repomanager.NewMemoryRepositoryManager()
	mt := metrics.New()
	svc := services.NewTokenService(m, nopLogger{}, mt)
	h := NewRouter(svc, nopLogger{}, Options{Metrics: mt.Handler()})

	do(h, http.MethodGet, "/check?token=ghost", "")

	rr := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `subcheck_tokens_checks_total{verdict="not_found"} 1`)

	h = NewRouter(svc, nopLogger{}, Options{})
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/metrics", "").Code)
}

func TestRouter_CheckRateLimit(t *testing.T) {
	h, _ := newTestAPI(t, Options{CheckRateLimit: 2})

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/check?token=a", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/check?token=a", "").Code)

	rr := do(h, http.MethodGet, "/check?token=a", "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rr.Body.String())

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/", "").Code, "other routes are not limited")
}

func TestRouter_RequestIDHeader(t *testing.T) {
	h, _ := newTestAPI(t, Options{})

	rr := do(h, http.MethodGet, "/", "", common.RequestIDHeaderName, "abc-123")
	assert.Equal(t, "abc-123", rr.Header().Get(common.RequestIDHeaderName))

	rr = do(h, http.MethodGet, "/nowhere", "")
	assert.Len(t, rr.Header().Get(common.RequestIDHeaderName), 36)
}
