package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vault-dashboard/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testWallet = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"error_code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	return data
}

// serve routes a single request through a one-route engine so path params resolve.
func serve(method, route, target string, body []byte, h gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	r.Handle(method, route, h)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pg := mocks.NewMockHealthChecker(ctrl)
	pg.EXPECT().Ping(gomock.Any()).Return(nil)
	pg.EXPECT().Name().Return("postgres").AnyTimes()
	rpc := mocks.NewMockHealthChecker(ctrl)
	rpc.EXPECT().Ping(gomock.Any()).Return(errors.New("rpc node unhealthy: behind"))
	rpc.EXPECT().Name().Return("solana-rpc").AnyTimes()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(pg, rpc)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp struct {
		Status       string `json:"status"`
		Dependencies map[string]struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		} `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "healthy", resp.Dependencies["postgres"].Status)
	assert.Equal(t, "unhealthy", resp.Dependencies["solana-rpc"].Status)
	assert.Contains(t, resp.Dependencies["solana-rpc"].Error, "behind")
}

func TestDocs(t *testing.T) {
	h := NewDocsHandler([]byte("openapi: '3.0.3'\ninfo:\n  title: Vault Dashboard"))

	w := serve(http.MethodGet, "/docs", "/docs", nil, h.UI)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "/docs/openapi.yaml")

	w = serve(http.MethodGet, "/docs/openapi.yaml", "/docs/openapi.yaml", nil, h.Spec)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi")

	w = serve(http.MethodGet, "/docs/openapi.yaml", "/docs/openapi.yaml", nil, NewDocsHandler(nil).Spec)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
