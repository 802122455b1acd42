package httpapi

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/subcheck/internal/logging"
	"github.com/dmitrijs2005/subcheck/internal/server/models"
	"github.com/dmitrijs2005/subcheck/internal/server/services"
	"github.com/dmitrijs2005/subcheck/internal/server/tokens"
	"github.com/stretchr/testify/require"
)

// ---- test logger ----

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// ---- fakes ----

type fakeTokens struct {
	checkRes tokens.Result
	checkErr error

	addResp *models.Token
	addErr  error
	addReq  services.AddTokenRequest
	added   bool

	pingErr error
}

func (f *fakeTokens) Check(ctx context.Context, value string) (tokens.Result, error) {
	res := f.checkRes
	res.Token = value
	return res, f.checkErr
}

func (f *fakeTokens) Add(ctx context.Context, req services.AddTokenRequest) (*models.Token, error) {
	f.addReq = req
	f.added = true
	return f.addResp, f.addErr
}

func (f *fakeTokens) Ping(ctx context.Context) error { return f.pingErr }

// ---- helpers ----

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}
