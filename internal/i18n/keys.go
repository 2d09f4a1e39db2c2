// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"

	// Products
	KeyProductNotFound   = "product.not_found"
	KeyProductInactive   = "product.inactive"
	KeyProductOutOfStock = "product.out_of_stock"
	KeyProductsEmpty     = "product.empty"

	// Orders
	KeyOrderCreated       = "order.created"
	KeyOrderNotFound      = "order.not_found"
	KeyOrderLookupEmpty   = "order.lookup_empty"
	KeyOrderPhoneRequired = "order.phone_required"
	KeyOrderTotalMismatch = "order.total_mismatch"

	// Cart
	KeyCartEmpty              = "cart.empty"
	KeyCartItemNotFound       = "cart.item_not_found"
	KeyCartSessionMissing     = "cart.session_missing"
	KeyCartCleared            = "cart.cleared"
	KeyCartChanged            = "cart.changed"
	KeyCartCheckoutInProgress = "cart.checkout_in_progress"

	// Customers
	KeyCustomerNotFound = "customer.not_found"
	KeyCustomerUpdated  = "customer.updated"

	// Favorites
	KeyFavoriteAdded   = "favorite.added"
	KeyFavoriteRemoved = "favorite.removed"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationPhone    = "validation.phone"

	// System
	KeySystemStoreUnavailable = "system.store_unavailable"
	KeySystemInternalError    = "system.internal_error"
	KeySystemRateLimited      = "system.rate_limited"
)
