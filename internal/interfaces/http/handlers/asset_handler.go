package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DrZedd42/fiat-gateway/internal/domain/entities"
	"github.com/DrZedd42/fiat-gateway/internal/interfaces/http/response"
)

// AssetHandler exposes asset address conventions
type AssetHandler struct{}

// NewAssetHandler creates a new asset handler
func NewAssetHandler() *AssetHandler {
	return &AssetHandler{}
}

// NativeAsset returns the sentinel address for the chain's native coin
// GET /api/v1/assets/native
func (h *AssetHandler) NativeAsset(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"address": entities.NativeAsset})
}
