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

type OrderService interface {
	CreateBuyOrder(ctx context.Context, callerAddr string, input *usecases.CreateOrderInput) (*usecases.CreateOrderResult, error)
	ConfirmFiatSent(ctx context.Context, callerAddr string, orderID uint64) (*entities.OracleRequest, error)
	CancelOrder(ctx context.Context, callerAddr string, orderID uint64) error
	GetOrder(ctx context.Context, id uint64) (*entities.BuyOrder, error)
	ListOrders(ctx context.Context, taker string, limit, offset int) ([]*entities.BuyOrder, int, error)
}

// OrderHandler handles buy order endpoints
type OrderHandler struct {
	orderUsecase OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderUsecase OrderService) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase}
}

// CreateOrder creates a new buy order
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input usecases.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	caller, ok := middleware.GetCallerAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("caller not authenticated"))
		return
	}

	result, err := h.orderUsecase.CreateBuyOrder(c.Request.Context(), caller, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// ConfirmPayment records the taker's fiat payment assertion
// POST /api/v1/orders/:id/confirm-payment
func (h *OrderHandler) ConfirmPayment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid order ID"))
		return
	}

	caller, ok := middleware.GetCallerAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("caller not authenticated"))
		return
	}

	request, err := h.orderUsecase.ConfirmFiatSent(c.Request.Context(), caller, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"oracleRequest": request})
}

// CancelOrder cancels an order before settlement
// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid order ID"))
		return
	}

	caller, ok := middleware.GetCallerAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("caller not authenticated"))
		return
	}

	if err := h.orderUsecase.CancelOrder(c.Request.Context(), caller, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}

// GetOrder gets an order by ID
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid order ID"))
		return
	}

	order, err := h.orderUsecase.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"order": order})
}

// ListOrders lists orders, optionally filtered by taker
// GET /api/v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	taker := c.Query("taker")

	orders, total, err := h.orderUsecase.ListOrders(c.Request.Context(), taker, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
	})
}
