package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/handlers"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	passthrough := func(c *gin.Context) { c.Next() }

	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:     handlers.NewAuthHandler(nil),
		methodHandler:   handlers.NewPaymentMethodHandler(nil),
		makerHandler:    handlers.NewMakerHandler(nil),
		orderHandler:    handlers.NewOrderHandler(nil),
		oracleHandler:   handlers.NewOracleHandler(nil),
		treasuryHandler: handlers.NewTreasuryHandler(nil),
		assetHandler:    handlers.NewAssetHandler(),
		signatureAuth:   passthrough,
		jwtAuth:         passthrough,
	})
	return r
}

func TestHealthRoute(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestMetricsRoute(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNativeAssetRoute(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/assets/native", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")
}

func TestRegisteredRouteTable(t *testing.T) {
	r := testRouter()

	expected := []string{
		"POST /api/v1/auth/login",
		"GET /api/v1/payment-methods",
		"GET /api/v1/payment-methods/:idx",
		"POST /api/v1/payment-methods",
		"GET /api/v1/makers",
		"GET /api/v1/makers/:id",
		"POST /api/v1/makers",
		"GET /api/v1/orders",
		"GET /api/v1/orders/:id",
		"POST /api/v1/orders",
		"POST /api/v1/orders/:id/confirm-payment",
		"POST /api/v1/orders/:id/cancel",
		"POST /api/v1/oracle/fulfillments",
		"GET /api/v1/admin/treasury/balance",
		"POST /api/v1/admin/treasury/withdraw",
		"POST /api/v1/admin/oracle-requests/reissue",
	}

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range expected {
		if !registered[want] {
			var got []string
			for k := range registered {
				got = append(got, k)
			}
			t.Fatalf("route %q not registered; have: %s", want, strings.Join(got, ", "))
		}
	}
}
