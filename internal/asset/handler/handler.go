package handler

import (
	"net/http"
	"strconv"

	"github.com/gearstack/asset-service/internal/apperr"
	"github.com/gearstack/asset-service/internal/asset"
	"github.com/gearstack/asset-service/internal/asset/dto"
	"github.com/gearstack/asset-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssetHandler struct {
	uc     asset.UseCase
	logger logger.ZapLogger
}

func NewAssetHandler(uc asset.UseCase, log logger.ZapLogger) *AssetHandler {
	return &AssetHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *AssetHandler) Register(r *gin.RouterGroup) {
	assets := r.Group("/assets")
	{
		assets.POST("", h.CreateAsset)
		assets.GET("", h.ListAssets)
		assets.GET("/:id", h.GetAsset)
		assets.PATCH("/:id", h.UpdateAsset)
		assets.DELETE("/:id", h.DeleteAsset)
	}
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var input dto.CreateAssetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.uc.CreateAsset(c.Request.Context(), &input)
	if err != nil {
		h.fail(c, err, "failed to create asset")
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	a, err := h.uc.GetAsset(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to get asset")
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AssetHandler) ListAssets(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	assets, count, err := h.uc.ListAssets(c.Request.Context(), &dto.AssetFilters{
		AssetTypeID: c.Query("asset_type_id"),
		GroupID:     c.Query("group_id"),
		SearchQuery: c.Query("q"),
		Ungrouped:   c.Query("ungrouped") == "true",
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		h.fail(c, err, "failed to list assets")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": assets, "total": count})
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	var input dto.UpdateAssetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.ID = c.Param("id")

	a, err := h.uc.UpdateAsset(c.Request.Context(), &input)
	if err != nil {
		h.fail(c, err, "failed to update asset")
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	if err := h.uc.DeleteAsset(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "failed to delete asset")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AssetHandler) fail(c *gin.Context, err error, msg string) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
