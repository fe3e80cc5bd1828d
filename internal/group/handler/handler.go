package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gearstack/asset-service/internal/apperr"
	"github.com/gearstack/asset-service/internal/group"
	"github.com/gearstack/asset-service/internal/group/dto"
	"github.com/gearstack/asset-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GroupHandler struct {
	uc     group.UseCase
	logger logger.ZapLogger
}

func NewGroupHandler(uc group.UseCase, log logger.ZapLogger) *GroupHandler {
	return &GroupHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *GroupHandler) Register(r *gin.RouterGroup) {
	groups := r.Group("/asset-groups")
	{
		groups.POST("", h.CreateGroup)
		groups.GET("", h.ListGroups)
		groups.GET("/next-barcode", h.NextBarcode)
		groups.GET("/:id", h.GetGroup)
		groups.PATCH("/:id", h.UpdateGroup)
		groups.POST("/:id/members", h.CreateMembers)
		groups.POST("/:id/members/:assetId", h.AddMember)
		groups.POST("/:id/members/:assetId/reassign", h.ReassignMember)
	}
	r.POST("/assets/:id/convert-to-group", h.ConvertAsset)
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var input dto.CreateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.uc.CreateGroup(c.Request.Context(), &input)
	if err != nil {
		h.fail(c, err, "failed to create group")
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *GroupHandler) GetGroup(c *gin.Context) {
	g, err := h.uc.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to get group")
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GroupHandler) ListGroups(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	groups, count, err := h.uc.ListGroups(c.Request.Context(), &dto.GroupFilters{
		AssetTypeID: c.Query("asset_type_id"),
		Search:      c.Query("search"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		h.fail(c, err, "failed to list groups")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": groups, "total": count})
}

func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	var input dto.UpdateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.ID = c.Param("id")

	g, err := h.uc.UpdateGroup(c.Request.Context(), &input)
	if err != nil {
		h.fail(c, err, "failed to update group")
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GroupHandler) ConvertAsset(c *gin.Context) {
	// All fields are optional; a bare POST means "use the asset's own data".
	var input dto.ConvertAssetInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.uc.ConvertAssetToGroup(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		h.fail(c, err, "failed to convert asset to group")
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *GroupHandler) CreateMembers(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer"})
		return
	}

	// A bare POST with just the count query param is valid; the base data
	// then comes entirely from the group template.
	var input dto.CreateMembersInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assets, err := h.uc.CreateGroupMembers(c.Request.Context(), c.Param("id"), count, &input)
	if err != nil {
		h.fail(c, err, "failed to create group members")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": assets, "total": len(assets)})
}

func (h *GroupHandler) AddMember(c *gin.Context) {
	a, err := h.uc.AddAssetToGroup(c.Request.Context(), c.Param("assetId"), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to add asset to group")
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *GroupHandler) ReassignMember(c *gin.Context) {
	a, err := h.uc.ReassignAsset(c.Request.Context(), c.Param("assetId"), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to reassign asset")
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *GroupHandler) NextBarcode(c *gin.Context) {
	barcode, err := h.uc.NextGroupBarcode(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to resolve next barcode")
		return
	}
	c.JSON(http.StatusOK, gin.H{"barcode": barcode})
}

func (h *GroupHandler) fail(c *gin.Context, err error, msg string) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
