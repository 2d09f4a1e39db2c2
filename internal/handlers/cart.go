// internal/handlers/cart.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/babamama/storefront/internal/apperr"
	"github.com/babamama/storefront/internal/i18n"
	"github.com/babamama/storefront/internal/services"
	"github.com/babamama/storefront/internal/utils"
)

// CartSessionHeader carries the anonymous cart token in both directions.
const CartSessionHeader = "X-Cart-Session"

type CartHandler struct {
	cartService *services.CartService
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1,max=999"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=999"`
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// session returns the caller's cart token. A missing or malformed token is
// replaced by a fresh one, echoed back in the response header.
func (h *CartHandler) session(c *gin.Context) (string, bool) {
	token := strings.TrimSpace(c.GetHeader(CartSessionHeader))
	if !utils.IsCartSessionToken(token) {
		fresh, err := utils.GenerateCartSessionToken()
		if err != nil {
			utils.InternalErrorResponse(c, "")
			return "", false
		}
		token = fresh
	}
	c.Header(CartSessionHeader, token)
	return token, true
}

// existingSession is session for operations that need a cart to already exist.
func (h *CartHandler) existingSession(c *gin.Context) (string, bool) {
	token := strings.TrimSpace(c.GetHeader(CartSessionHeader))
	if !utils.IsCartSessionToken(token) {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyCartSessionMissing), nil)
		return "", false
	}
	c.Header(CartSessionHeader, token)
	return token, true
}

func (h *CartHandler) itemError(c *gin.Context, err error) {
	if apperr.IsNotFound(err) {
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(utils.GetLangFromContext(c), i18n.KeyCartItemNotFound), nil)
		return
	}
	utils.AppErrorResponse(c, err, "cart")
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, h.cartService.Summary(session))
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	session, ok := h.session(c)
	if !ok {
		return
	}

	summary, err := h.cartService.AddItem(c.Request.Context(), session, req.ProductID, req.Quantity)
	if err != nil {
		utils.AppErrorResponse(c, err, "product")
		return
	}
	utils.SuccessResponse(c, summary)
}

// PUT /cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "product_id"), nil)
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	session, ok := h.existingSession(c)
	if !ok {
		return
	}

	summary, err := h.cartService.UpdateQuantity(session, productID, req.Quantity)
	if err != nil {
		h.itemError(c, err)
		return
	}
	utils.SuccessResponse(c, summary)
}

// DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "product_id"), nil)
		return
	}

	session, ok := h.existingSession(c)
	if !ok {
		return
	}

	summary, err := h.cartService.RemoveItem(session, productID)
	if err != nil {
		h.itemError(c, err)
		return
	}
	utils.SuccessResponse(c, summary)
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	session, ok := h.existingSession(c)
	if !ok {
		return
	}
	h.cartService.Clear(session)
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyCartCleared),
	})
}

// POST /cart/checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	session, ok := h.existingSession(c)
	if !ok {
		return
	}

	order, err := h.cartService.Checkout(c.Request.Context(), session, req)
	switch {
	case errors.Is(err, services.ErrCartChanged):
		// details carry the refreshed cart so the shopper can confirm new prices
		utils.ErrorResponse(c, http.StatusConflict, "CART_CHANGED", i18n.T(lang, i18n.KeyCartChanged), h.cartService.Summary(session))
		return
	case errors.Is(err, services.ErrCheckoutInProgress):
		utils.ErrorResponse(c, http.StatusConflict, "CHECKOUT_IN_PROGRESS", i18n.T(lang, i18n.KeyCartCheckoutInProgress), nil)
		return
	case err != nil:
		utils.AppErrorResponse(c, err, "order")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"order":   order,
		"message": i18n.T(lang, i18n.KeyOrderCreated),
	})
}
