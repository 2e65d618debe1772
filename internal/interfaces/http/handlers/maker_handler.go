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

type MakerService interface {
	Register(ctx context.Context, callerAddr string, input *usecases.RegisterMakerInput) (*usecases.RegisterMakerResult, error)
	GetMaker(ctx context.Context, id uint64) (*entities.Maker, error)
	ListMakers(ctx context.Context, limit, offset int) ([]*entities.Maker, int, error)
}

// MakerHandler handles maker endpoints
type MakerHandler struct {
	makerUsecase MakerService
}

// NewMakerHandler creates a new maker handler
func NewMakerHandler(makerUsecase MakerService) *MakerHandler {
	return &MakerHandler{makerUsecase: makerUsecase}
}

// Register registers the caller as a maker
// POST /api/v1/makers
func (h *MakerHandler) Register(c *gin.Context) {
	var input usecases.RegisterMakerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	caller, ok := middleware.GetCallerAddress(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("caller not authenticated"))
		return
	}

	result, err := h.makerUsecase.Register(c.Request.Context(), caller, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// GetMaker gets a maker by ID
// GET /api/v1/makers/:id
func (h *MakerHandler) GetMaker(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid maker ID"))
		return
	}

	maker, err := h.makerUsecase.GetMaker(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"maker": maker})
}

// ListMakers lists makers with pagination
// GET /api/v1/makers
func (h *MakerHandler) ListMakers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	makers, total, err := h.makerUsecase.ListMakers(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"makers": makers,
		"total":  total,
	})
}
