package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/middleware"
)

const (
	callerAddr = "0x00000000000000000000000000000000000000ab"
	ownerAddr  = "0x00000000000000000000000000000000000000cd"
)

// withCaller fakes the auth middleware for handler tests
func withCaller(address string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CallerAddressKey, address)
		c.Next()
	}
}

func withRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CallerRoleKey, role)
		c.Next()
	}
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
