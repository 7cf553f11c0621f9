package handler

import (
	orderapp "github.com/clothstore/backend/internal/application/order"
	"github.com/gin-gonic/gin"
)

const msgOrderNotFound = "Order not found"

// OrderHandler handles order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create godoc
// @ID           createOrder
// @Summary      Place an order
// @Description  Validates the checkout, assigns a unique order number and stores the order as pending
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orderapp.CreateOrderRequest true "Checkout"
// @Success      201 {object} dto.APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Description  Newest first. status filters by pending or completed; all or empty returns every order.
// @Tags         orders
// @Produce      json
// @Param        status query string false "Status filter" Enums(all, pending, completed)
// @Success      200 {object} dto.APIResponse[[]orderapp.OrderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessList(c, orders, len(orders))
}

// Stats godoc
// @ID           getOrderStats
// @Summary      Order statistics
// @Description  Totals by status, orders placed since local midnight and revenue from completed orders
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.APIResponse[orderapp.StatisticsResponse]
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /orders/stats [get]
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.orderService.GetStatistics(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// Get godoc
// @ID           getOrder
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.APIResponse[orderapp.OrderResponse]
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", msgOrderNotFound)
	if !ok {
		return
	}

	resp, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateStatus godoc
// @ID           updateOrderStatus
// @Summary      Change an order's status
// @Description  pending to completed is the only forward transition; repeating the current status is a no-op
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orderapp.UpdateStatusRequest true "Target status"
// @Success      200 {object} dto.APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id", msgOrderNotFound)
	if !ok {
		return
	}

	var req orderapp.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.orderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// TestConnection godoc
// @ID           testOrderConnection
// @Summary      Store diagnostics
// @Description  Pings the store and returns the order count with the three most recent orders
// @Tags         orders
// @Produce      json
// @Success      200 {object} dto.APIResponse[orderapp.ConnectionReport]
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /orders/test/connection [get]
func (h *OrderHandler) TestConnection(c *gin.Context) {
	report, err := h.orderService.DiagnoseConnection(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}
