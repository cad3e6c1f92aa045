package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"vault-dashboard/internal/adapter/http/middleware"
	redisStore "vault-dashboard/internal/adapter/storage/redis"
	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/ports"
	"vault-dashboard/internal/core/ports/mocks"
	"vault-dashboard/internal/service"
	"vault-dashboard/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testAccessKey = "operator-key"
	testSecretKey = "operator-secret"
)

type routerMocks struct {
	vault     *mocks.MockVaultService
	history   *mocks.MockHistoryService
	actions   *mocks.MockActionService
	dashboard *mocks.MockDashboardReader
	wallet    *mocks.MockWalletProvider
	nonces    *mocks.MockNonceStore
}

func setupRouter(t *testing.T) (*gin.Engine, routerMocks) {
	ctrl := gomock.NewController(t)
	m := routerMocks{
		vault:     mocks.NewMockVaultService(ctrl),
		history:   mocks.NewMockHistoryService(ctrl),
		actions:   mocks.NewMockActionService(ctrl),
		dashboard: mocks.NewMockDashboardReader(ctrl),
		wallet:    mocks.NewMockWalletProvider(ctrl),
		nonces:    mocks.NewMockNonceStore(ctrl),
	}

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	reg := prometheus.NewRegistry()
	router := SetupRouter(RouterDeps{
		VaultSvc:   m.vault,
		HistorySvc: m.history,
		ActionSvc:  m.actions,
		Dashboard:  m.dashboard,
		Wallet:     m.wallet,
		SigSvc:     service.NewHMACSignatureService(),
		NonceStore: m.nonces,
		Operator: middleware.OperatorCredentials{
			AccessKey: testAccessKey,
			SecretKey: testSecretKey,
		},
		RateLimitStore: redisStore.NewRateLimitStore(client),
		HealthCheckers: []ports.HealthChecker{redisStore.NewHealthCheck(client)},
		Metrics:        metrics.NewRegistry(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		OpenAPISpec:    []byte("openapi: 3.0.3\n"),
		Mode:           gin.TestMode,
		Logger:         zerolog.Nop(),
	})
	return router, m
}

func operatorRequest(method, path, body string) *http.Request {
	sig := service.NewHMACSignatureService()
	ts := time.Now().Unix()
	nonce := "nonce-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	canonical := sig.BuildCanonicalString(method, path, ts, nonce, body)

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderAccessKey, testAccessKey)
	req.Header.Set(middleware.HeaderTimestamp, strconv.FormatInt(ts, 10))
	req.Header.Set(middleware.HeaderNonce, nonce)
	req.Header.Set(middleware.HeaderSignature, sig.Sign(testSecretKey, canonical))
	return req
}

func TestRouter_PublicVaultRead(t *testing.T) {
	router, m := setupRouter(t)
	m.dashboard.EXPECT().Snapshot().Return(ports.DashboardState{Overview: testOverview()})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/vault", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "120", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "119", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	assert.Equal(t, w.Header().Get(middleware.HeaderRequestID), decode(t, w).RequestID)
}

func TestRouter_OperatorRoutesRequireSignature(t *testing.T) {
	router, _ := setupRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/wallet"},
		{http.MethodPost, "/api/v1/wallet/connect"},
		{http.MethodGet, "/api/v1/actions"},
		{http.MethodPost, "/api/v1/actions/deposit"},
		{http.MethodPost, "/api/v1/actions/withdrawals/1/process"},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
		assert.Equal(t, "SEC_001", decode(t, w).ErrorCode, route.path)
	}
}

func TestRouter_SignedDeposit(t *testing.T) {
	router, m := setupRouter(t)

	m.nonces.EXPECT().CheckAndSet(gomock.Any(), testAccessKey, gomock.Any(), gomock.Any()).Return(true, nil)
	m.actions.EXPECT().Deposit(gomock.Any(), gomock.Any()).
		Return(confirmedAction(domain.ActionKindDeposit, "dep-001"), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, operatorRequest(http.MethodPost, "/api/v1/actions/deposit", `{"reference_id":"dep-001","amount":"250.5"}`))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "dep-001", decodeData(t, w)["reference_id"])
}

func TestRouter_TamperedBody(t *testing.T) {
	router, m := setupRouter(t)

	m.nonces.EXPECT().CheckAndSet(gomock.Any(), testAccessKey, gomock.Any(), gomock.Any()).Return(true, nil)

	req := operatorRequest(http.MethodPost, "/api/v1/actions/deposit", `{"reference_id":"dep-001","amount":"1"}`)
	req.Body = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"reference_id":"dep-001","amount":"1000"}`)).Body

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SEC_002", decode(t, w).ErrorCode)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"redis"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vault_dashboard_http_request_duration_seconds")
}

func TestRouter_Docs(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestRouter_UnknownRoute(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
