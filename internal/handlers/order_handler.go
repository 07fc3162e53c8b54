package handlers

import (
	"net/http"

	"printshop_backend/internal/services"
	"printshop_backend/internal/services/dto"
	"printshop_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	*BaseHandler
	orders services.OrderService
}

func NewOrderHandler(base *BaseHandler, orders services.OrderService) *OrderHandler {
	return &OrderHandler{BaseHandler: base, orders: orders}
}

func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("/:orderId", h.GetOrder)
		orders.GET("", h.ListOrders)
	}
}

// RegisterAdminRoutes mounts the status/tracking update operations; the
// payment gateway's status flow and the admin UI call these.
func (h *OrderHandler) RegisterAdminRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.PUT("/:orderId/status", h.UpdateStatus)
		orders.PUT("/:orderId/deliver", h.MarkDelivered)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(h.GetDB(c), c.Param("orderId"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		apperrors.HandleError(c, apperrors.ErrValidationFailed.WithDetails("user_id is required"))
		return
	}

	orders, err := h.orders.ListByUser(h.GetDB(c), userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateOrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), h.GetDB(c), c.Param("orderId"), &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	if err := h.orders.MarkDelivered(c.Request.Context(), h.GetDB(c), c.Param("orderId")); err != nil {
		apperrors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "delivered"})
}
