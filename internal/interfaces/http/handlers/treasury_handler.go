package handlers

import (
	"context"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/middleware"
	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/response"
)

type TreasuryService interface {
	FeeBalance(ctx context.Context) (*big.Int, error)
	WithdrawFeeToken(ctx context.Context, callerRole string) (*big.Int, error)
}

// TreasuryHandler handles fee-token treasury endpoints
type TreasuryHandler struct {
	treasuryUsecase TreasuryService
}

// NewTreasuryHandler creates a new treasury handler
func NewTreasuryHandler(treasuryUsecase TreasuryService) *TreasuryHandler {
	return &TreasuryHandler{treasuryUsecase: treasuryUsecase}
}

// FeeBalance returns the gateway's pooled fee-token balance
// GET /api/v1/admin/treasury/balance
func (h *TreasuryHandler) FeeBalance(c *gin.Context) {
	balance, err := h.treasuryUsecase.FeeBalance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"balance": balance.String()})
}

// Withdraw sweeps the fee-token balance to the owner
// POST /api/v1/admin/treasury/withdraw
func (h *TreasuryHandler) Withdraw(c *gin.Context) {
	role, ok := middleware.GetCallerRole(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("caller not authenticated"))
		return
	}

	withdrawn, err := h.treasuryUsecase.WithdrawFeeToken(c.Request.Context(), role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"withdrawn": withdrawn.String()})
}
