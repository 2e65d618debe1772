package handlers

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
)

type oracleServiceStub struct {
	fulfillFn func(ctx context.Context, caller, requestID string, result []byte) error
	reissueFn func(ctx context.Context, requestID string) (*entities.OracleRequest, error)
}

func (s oracleServiceStub) Fulfill(ctx context.Context, caller, requestID string, result []byte) error {
	return s.fulfillFn(ctx, caller, requestID, result)
}

func (s oracleServiceStub) Reissue(ctx context.Context, requestID string) (*entities.OracleRequest, error) {
	return s.reissueFn(ctx, requestID)
}

func TestOracleHandler_Fulfill(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success decodes hex result", func(t *testing.T) {
		r := gin.New()
		h := NewOracleHandler(oracleServiceStub{
			fulfillFn: func(_ context.Context, caller, requestID string, result []byte) error {
				if caller != callerAddr {
					t.Fatalf("unexpected caller %s", caller)
				}
				if requestID != "0xabc123" {
					t.Fatalf("unexpected request id %s", requestID)
				}
				if !bytes.Equal(result, []byte{0x01}) {
					t.Fatalf("unexpected result %x", result)
				}
				return nil
			},
		})
		r.POST("/oracle/fulfillments", withCaller(callerAddr), h.Fulfill)

		w := doJSON(r, http.MethodPost, "/oracle/fulfillments", `{"requestId":"0xabc123","result":"0x01"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("empty result is allowed", func(t *testing.T) {
		r := gin.New()
		h := NewOracleHandler(oracleServiceStub{
			fulfillFn: func(_ context.Context, _, _ string, result []byte) error {
				if len(result) != 0 {
					t.Fatalf("expected empty result, got %x", result)
				}
				return nil
			},
		})
		r.POST("/oracle/fulfillments", withCaller(callerAddr), h.Fulfill)

		w := doJSON(r, http.MethodPost, "/oracle/fulfillments", `{"requestId":"0xabc123"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("unknown request maps to 404", func(t *testing.T) {
		r := gin.New()
		h := NewOracleHandler(oracleServiceStub{
			fulfillFn: func(context.Context, string, string, []byte) error {
				return domainerrors.ErrUnknownRequest
			},
		})
		r.POST("/oracle/fulfillments", withCaller(callerAddr), h.Fulfill)

		w := doJSON(r, http.MethodPost, "/oracle/fulfillments", `{"requestId":"0xdead","result":"0x01"}`)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("stranger maps to 401", func(t *testing.T) {
		r := gin.New()
		h := NewOracleHandler(oracleServiceStub{
			fulfillFn: func(context.Context, string, string, []byte) error {
				return domainerrors.ErrUnauthorized
			},
		})
		r.POST("/oracle/fulfillments", withCaller(callerAddr), h.Fulfill)

		w := doJSON(r, http.MethodPost, "/oracle/fulfillments", `{"requestId":"0xabc","result":"0x01"}`)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("invalid hex", func(t *testing.T) {
		r := gin.New()
		h := NewOracleHandler(oracleServiceStub{
			fulfillFn: func(context.Context, string, string, []byte) error {
				t.Fatal("should not be called")
				return nil
			},
		})
		r.POST("/oracle/fulfillments", withCaller(callerAddr), h.Fulfill)

		w := doJSON(r, http.MethodPost, "/oracle/fulfillments", `{"requestId":"0xabc","result":"zz"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestOracleHandler_Reissue(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	h := NewOracleHandler(oracleServiceStub{
		reissueFn: func(_ context.Context, requestID string) (*entities.OracleRequest, error) {
			if requestID != "0xold" {
				t.Fatalf("unexpected request id %s", requestID)
			}
			return &entities.OracleRequest{RequestID: "0xnew"}, nil
		},
	})
	r.POST("/admin/oracle-requests/reissue", h.Reissue)

	w := doJSON(r, http.MethodPost, "/admin/oracle-requests/reissue", `{"requestId":"0xold"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
}
