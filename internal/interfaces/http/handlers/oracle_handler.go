package handlers

import (
	"context"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/middleware"
	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/response"
)

type OracleService interface {
	Fulfill(ctx context.Context, callerAddr, requestID string, result []byte) error
	Reissue(ctx context.Context, requestID string) (*entities.OracleRequest, error)
}

// OracleHandler handles oracle fulfillment endpoints
type OracleHandler struct {
	bridge OracleService
}

// NewOracleHandler creates a new oracle handler
func NewOracleHandler(bridge OracleService) *OracleHandler {
	return &OracleHandler{bridge: bridge}
}

// FulfillInput is the oracle node's callback payload. Result is the
// hex-encoded answer bytes; empty means a negative verdict.
type FulfillInput struct {
	RequestID string `json:"requestId" binding:"required"`
	Result    string `json:"result"`
}

// Fulfill commits an oracle response into gateway state
// POST /api/v1/oracle/fulfillments
func (h *OracleHandler) Fulfill(c *gin.Context) {
	var input FulfillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	caller, ok := middleware.GetCallerAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("caller not authenticated"))
		return
	}

	result, err := hex.DecodeString(strings.TrimPrefix(input.Result, "0x"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid result encoding"))
		return
	}

	if err := h.bridge.Fulfill(c.Request.Context(), caller, input.RequestID, result); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"fulfilled": true})
}

// ReissueInput names the dead pending request to replace
type ReissueInput struct {
	RequestID string `json:"requestId" binding:"required"`
}

// Reissue replaces a provably dead pending request
// POST /api/v1/admin/oracle-requests/reissue
func (h *OracleHandler) Reissue(c *gin.Context) {
	var input ReissueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	request, err := h.bridge.Reissue(c.Request.Context(), input.RequestID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"oracleRequest": request})
}
