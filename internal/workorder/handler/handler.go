package handler

import (
	"net/http"
	"strconv"

	"github.com/gearstack/asset-service/internal/apperr"
	"github.com/gearstack/asset-service/internal/auth"
	"github.com/gearstack/asset-service/internal/model"
	"github.com/gearstack/asset-service/internal/workorder"
	"github.com/gearstack/asset-service/internal/workorder/dto"
	"github.com/gearstack/asset-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WorkOrderHandler struct {
	uc     workorder.UseCase
	logger logger.ZapLogger
}

func NewWorkOrderHandler(uc workorder.UseCase, log logger.ZapLogger) *WorkOrderHandler {
	return &WorkOrderHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *WorkOrderHandler) Register(r *gin.RouterGroup) {
	orders := r.Group("/work-orders")
	{
		orders.POST("", h.CreateWorkOrder)
		orders.GET("", h.ListWorkOrders)
		orders.GET("/:id", h.GetWorkOrder)
		orders.POST("/:id/transition", h.Transition)
	}
}

func (h *WorkOrderHandler) CreateWorkOrder(c *gin.Context) {
	var input dto.CreateWorkOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.OpenedBy = auth.GetUserID(c.Request.Context())

	wo, err := h.uc.CreateWorkOrder(c.Request.Context(), &input)
	if err != nil {
		h.fail(c, err, "failed to create work order")
		return
	}
	c.JSON(http.StatusCreated, wo)
}

func (h *WorkOrderHandler) GetWorkOrder(c *gin.Context) {
	wo, err := h.uc.GetWorkOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to get work order")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"work_order":          wo,
		"allowed_transitions": workorder.AllowedTransitions(wo.Status),
	})
}

func (h *WorkOrderHandler) ListWorkOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	orders, count, err := h.uc.ListWorkOrders(c.Request.Context(), &dto.WorkOrderFilters{
		AssetID:    c.Query("asset_id"),
		Status:     c.Query("status"),
		AssignedTo: c.Query("assigned_to"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		h.fail(c, err, "failed to list work orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders, "total": count})
}

func (h *WorkOrderHandler) Transition(c *gin.Context) {
	var input dto.TransitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := auth.GetUserID(c.Request.Context())
	wo, err := h.uc.TransitionWorkOrder(c.Request.Context(), c.Param("id"), model.WorkOrderStatus(input.Status), actor)
	if err != nil {
		h.fail(c, err, "failed to transition work order")
		return
	}
	c.JSON(http.StatusOK, wo)
}

func (h *WorkOrderHandler) fail(c *gin.Context, err error, msg string) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
