// internal/handlers/user.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/babamama/storefront/internal/i18n"
	"github.com/babamama/storefront/internal/services"
	"github.com/babamama/storefront/internal/utils"
)

// UserHandler serves the signed-in user's profile, order history and favorites.
type UserHandler struct {
	customerService *services.CustomerService
	orderService    *services.OrderService
	favoriteService *services.FavoriteService
}

type LookupEmailRequest struct {
	Phone string `json:"phone"`
}

func NewUserHandler(customerService *services.CustomerService, orderService *services.OrderService, favoriteService *services.FavoriteService) *UserHandler {
	return &UserHandler{
		customerService: customerService,
		orderService:    orderService,
		favoriteService: favoriteService,
	}
}

func identity(c *gin.Context) (services.Identity, bool) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return services.Identity{}, false
	}
	return services.Identity{
		AuthUserID: userID,
		Email:      utils.GetUserEmailFromContext(c),
		Phone:      utils.GetUserPhoneFromContext(c),
	}, true
}

// GET /me
func (h *UserHandler) GetProfile(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	customer, err := h.customerService.EnsureCustomer(c.Request.Context(), who)
	if err != nil {
		utils.AppErrorResponse(c, err, "customer")
		return
	}
	utils.SuccessResponse(c, customer)
}

// POST /me
func (h *UserHandler) CreateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	who, ok := identity(c)
	if !ok {
		return
	}

	var req services.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), who, &req)
	if err != nil {
		utils.AppErrorResponse(c, err, "customer")
		return
	}
	utils.CreatedResponse(c, customer)
}

// PUT /me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	who, ok := identity(c)
	if !ok {
		return
	}

	var req services.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), who.AuthUserID, &req)
	if err != nil {
		utils.AppErrorResponse(c, err, "customer")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"customer": customer,
		"message":  i18n.T(lang, i18n.KeyCustomerUpdated),
	})
}

// GET /me/orders
func (h *UserHandler) GetOrders(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	result, err := h.orderService.OrdersForUser(c.Request.Context(), who.AuthUserID, who.Phone)
	if err != nil {
		utils.AppErrorResponse(c, err, "order")
		return
	}
	utils.SuccessResponse(c, result)
}

// GET /me/favorites
func (h *UserHandler) GetFavorites(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	products, err := h.favoriteService.Products(c.Request.Context(), who.AuthUserID)
	if err != nil {
		utils.AppErrorResponse(c, err, "product")
		return
	}
	utils.SuccessResponse(c, gin.H{"products": products})
}

// GET /me/favorites/ids
func (h *UserHandler) GetFavoriteIDs(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	ids, err := h.favoriteService.ProductIDs(c.Request.Context(), who.AuthUserID)
	if err != nil {
		utils.AppErrorResponse(c, err, "product")
		return
	}
	utils.SuccessResponse(c, gin.H{"product_ids": ids})
}

// POST /me/favorites/:productId
func (h *UserHandler) AddFavorite(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	who, ok := identity(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "product_id"), nil)
		return
	}

	fav, err := h.favoriteService.Add(c.Request.Context(), who.AuthUserID, productID)
	if err != nil {
		utils.AppErrorResponse(c, err, "product")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"favorite": fav,
		"message":  i18n.T(lang, i18n.KeyFavoriteAdded),
	})
}

// DELETE /me/favorites/:productId
func (h *UserHandler) RemoveFavorite(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	who, ok := identity(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "product_id"), nil)
		return
	}

	if err := h.favoriteService.Remove(c.Request.Context(), who.AuthUserID, productID); err != nil {
		utils.AppErrorResponse(c, err, "product")
		return
	}
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyFavoriteRemoved)})
}

// POST /customers/lookup-email
//
// Lets the sign-in form accept a phone number: it returns the email of the
// account registered under that phone.
func (h *UserHandler) LookupEmail(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req LookupEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if strings.TrimSpace(req.Phone) == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationPhone), nil)
		return
	}

	customer, err := h.customerService.FindByPhone(c.Request.Context(), req.Phone)
	if err != nil {
		utils.AppErrorResponse(c, err, "customer")
		return
	}
	utils.SuccessResponse(c, gin.H{"email": customer.Email})
}
