package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	domainerrors "github.com/DrZedd42/fiat-gateway/internal/domain/errors"
	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/middleware"
	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/response"
	"github.com/DrZedd42/fiat-gateway/internal/usecases"
)

type PaymentMethodService interface {
	AddMethod(ctx context.Context, callerAddr string, input *usecases.AddMethodInput) (*entities.FiatPaymentMethod, error)
	GetMethod(ctx context.Context, idx int64) (*entities.FiatPaymentMethod, error)
	ListMethods(ctx context.Context) ([]*entities.FiatPaymentMethod, error)
}

// PaymentMethodHandler handles payment method endpoints
type PaymentMethodHandler struct {
	methodUsecase PaymentMethodService
}

// NewPaymentMethodHandler creates a new payment method handler
func NewPaymentMethodHandler(methodUsecase PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodUsecase: methodUsecase}
}

// AddMethod registers a new fiat payment method
// POST /api/v1/payment-methods
func (h *PaymentMethodHandler) AddMethod(c *gin.Context) {
	var input usecases.AddMethodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	caller, ok := middleware.GetCallerAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("caller not authenticated"))
		return
	}

	method, err := h.methodUsecase.AddMethod(c.Request.Context(), caller, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"method": method})
}

// GetMethod gets a payment method by index
// GET /api/v1/payment-methods/:idx
func (h *PaymentMethodHandler) GetMethod(c *gin.Context) {
	idx, err := strconv.ParseInt(c.Param("idx"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid method index"))
		return
	}

	method, err := h.methodUsecase.GetMethod(c.Request.Context(), idx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"method": method})
}

// ListMethods lists all payment methods
// GET /api/v1/payment-methods
func (h *PaymentMethodHandler) ListMethods(c *gin.Context) {
	methods, err := h.methodUsecase.ListMethods(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"methods": methods})
}
