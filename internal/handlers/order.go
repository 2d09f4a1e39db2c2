// internal/handlers/order.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/babamama/storefront/internal/i18n"
	"github.com/babamama/storefront/internal/services"
	"github.com/babamama/storefront/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

type LookupOrdersRequest struct {
	Phone string `json:"phone"`
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		utils.AppErrorResponse(c, err, "order")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"order":   order,
		"message": i18n.T(lang, i18n.KeyOrderCreated),
	})
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "id"), nil)
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		utils.AppErrorResponse(c, err, "order")
		return
	}

	utils.SuccessResponse(c, order)
}

// POST /orders/lookup
func (h *OrderHandler) LookupOrders(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req LookupOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if strings.TrimSpace(req.Phone) == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderPhoneRequired), nil)
		return
	}
	if !utils.IsPlausiblePhone(req.Phone) {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationPhone), nil)
		return
	}

	result, err := h.orderService.LookupByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		utils.AppErrorResponse(c, err, "order")
		return
	}

	response := gin.H{
		"orders": result.Orders,
		"match":  result.Match,
	}
	if len(result.Orders) == 0 {
		response["message"] = i18n.T(lang, i18n.KeyOrderLookupEmpty)
	}
	utils.SuccessResponse(c, response)
}
