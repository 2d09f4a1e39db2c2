package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/babamama/storefront/internal/cart"
	"github.com/babamama/storefront/internal/config"
	"github.com/babamama/storefront/internal/handlers"
	"github.com/babamama/storefront/internal/i18n"
	"github.com/babamama/storefront/internal/models"
	"github.com/babamama/storefront/internal/phone"
	"github.com/babamama/storefront/internal/services"
	"github.com/babamama/storefront/internal/utils"
)

type APITestSuite struct {
	suite.Suite
	store  *memoryStore
	router *gin.Engine
	cancel context.CancelFunc
	ping   error
	robe   models.Product
	sac    models.Product
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func product(title, sub string, price int64, stock int) models.Product {
	p := models.Product{
		Title:             title,
		Category:          "mode",
		Subcategory:       &sub,
		FinalPrice:        price,
		StockQuantity:     stock,
		IsActive:          true,
		MinQuantityToSell: 1,
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	return p
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT:         config.JWTConfig{SecretKey: "api-test-secret"},
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
			LookupsPerMinute:  3,
			LookupBurst:       3,
		},
		Catalog: config.CatalogConfig{
			PhoneRegion:      "CI",
			DefaultListLimit: 24,
			MaxListLimit:     100,
			CartIdleTTL:      time.Hour,
		},
	}
}

func (suite *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(i18n.Initialize("fr"))
}

func (suite *APITestSuite) SetupTest() {
	suite.robe = product("Robe wax", "robes", 15000, 3)
	suite.sac = product("Sac cuir", "sacs", 42000, 0)
	suite.store = &memoryStore{products: []models.Product{suite.robe, suite.sac}}
	suite.ping = nil

	cfg := testConfig()
	customers := memoryCustomers{suite.store}
	catalogSvc := services.NewCatalogService(suite.store, nil, cfg.Catalog)
	orderSvc := services.NewOrderService(suite.store, customers, suite.store, phone.CoteDIvoire)
	svcs := &services.Services{
		Catalog:   catalogSvc,
		Orders:    orderSvc,
		Customers: services.NewCustomerService(customers, phone.CoteDIvoire),
		Favorites: services.NewFavoriteService(memoryFavorites{suite.store}, suite.store, catalogSvc),
		Carts:     services.NewCartService(catalogSvc, orderSvc, cart.MergeNone, time.Hour),
	}

	ctx, cancel := context.WithCancel(context.Background())
	suite.cancel = cancel
	suite.router = Initialize(ctx, svcs, cfg, func(context.Context) error { return suite.ping })
}

func (suite *APITestSuite) TearDownTest() {
	suite.cancel()
}

func (suite *APITestSuite) do(method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (suite *APITestSuite) bearer(userID, email, phoneNumber string) map[string]string {
	token, err := utils.GenerateJWT(userID, email, phoneNumber, time.Hour)
	suite.Require().NoError(err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func (suite *APITestSuite) TestHealth() {
	w, _ := suite.do("GET", "/health", nil, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	suite.ping = errors.New("connection refused")
	w, _ = suite.do("GET", "/health", nil, nil)
	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

func (suite *APITestSuite) TestListProductsWithFacets() {
	w, env := suite.do("GET", "/v1/products?in_stock=true&sort=price-asc&subcategory=robes,sacs", nil, nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var products []services.ProductView
	suite.Require().NoError(json.Unmarshal(env.Data, &products))
	suite.Require().Len(products, 1)
	assert.Equal(suite.T(), suite.robe.ID, products[0].ID)
	assert.True(suite.T(), products[0].InStock)
	assert.Equal(suite.T(), "1", w.Header().Get("X-Total-Count"))

	var meta struct {
		ActiveFilterCount int `json:"active_filter_count"`
		Facets            struct {
			Subcategories []string `json:"subcategories"`
		} `json:"facets"`
	}
	suite.Require().NoError(json.Unmarshal(env.Meta, &meta))
	assert.Equal(suite.T(), 2, meta.ActiveFilterCount)
	assert.Equal(suite.T(), []string{"robes", "sacs"}, meta.Facets.Subcategories)
}

func (suite *APITestSuite) TestGetProduct() {
	w, _ := suite.do("GET", "/v1/products/"+suite.robe.ID.String(), nil, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w, env := suite.do("GET", "/v1/products/not-a-uuid", nil, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.False(suite.T(), env.Success)

	w, env = suite.do("GET", "/v1/products/"+uuid.NewString(), nil, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), "NOT_FOUND", env.Error.Code)
}

func (suite *APITestSuite) TestStoreFailureIsRetryable() {
	suite.store.failing = errors.New("dial tcp: connection refused")

	w, env := suite.do("GET", "/v1/products", nil, nil)

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
	suite.Require().NotNil(env.Error)
	assert.Equal(suite.T(), "STORE_UNAVAILABLE", env.Error.Code)
	assert.Equal(suite.T(), true, env.Error.Details["retryable"])
}

func (suite *APITestSuite) TestOrderThenLookupBySpacedPhone() {
	suite.store.orders = append(suite.store.orders, models.Order{
		BaseModel:     models.BaseModel{ID: uuid.New(), CreatedAt: time.Now().UTC()},
		CustomerName:  "Awa",
		CustomerPhone: "+2250712345678",
		Status:        models.OrderStatusPending,
	})

	w, env := suite.do("POST", "/v1/orders/lookup", gin.H{"phone": "07 12 34 56 78"}, nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	var result services.LookupResult
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	assert.Equal(suite.T(), services.MatchExact, result.Match)
	assert.Len(suite.T(), result.Orders, 1)
}

func (suite *APITestSuite) TestLookupValidationAndRateLimit() {
	w, env := suite.do("POST", "/v1/orders/lookup", gin.H{"phone": "  "}, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), i18n.T("fr", i18n.KeyOrderPhoneRequired), env.Error.Message)

	for i := 0; i < 2; i++ {
		w, _ = suite.do("POST", "/v1/orders/lookup", gin.H{"phone": "0799999999"}, nil)
		assert.Equal(suite.T(), http.StatusOK, w.Code)
	}
	w, env = suite.do("POST", "/v1/orders/lookup", gin.H{"phone": "0799999999"}, nil)
	assert.Equal(suite.T(), http.StatusTooManyRequests, w.Code)
	assert.Equal(suite.T(), "RATE_LIMIT_EXCEEDED", env.Error.Code)
}

func (suite *APITestSuite) TestLookupRejectsShortPhone() {
	suite.store.orders = append(suite.store.orders, models.Order{
		BaseModel:     models.BaseModel{ID: uuid.New(), CreatedAt: time.Now().UTC()},
		CustomerName:  "Awa",
		CustomerPhone: "+2250712345678",
		Status:        models.OrderStatusPending,
	})

	for _, input := range []string{"+", "0"} {
		w, env := suite.do("POST", "/v1/orders/lookup", gin.H{"phone": input}, nil)

		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, input)
		assert.Equal(suite.T(), i18n.T("fr", i18n.KeyValidationPhone), env.Error.Message, input)
		assert.Empty(suite.T(), env.Data, input)
	}
}

func (suite *APITestSuite) TestCreateOrder() {
	w, env := suite.do("POST", "/v1/orders", gin.H{
		"customer_name":  "Awa Koné",
		"customer_phone": "07 12 34 56 78",
		"items": []gin.H{
			{"product_id": suite.robe.ID, "title": "Robe", "price": 15000, "qty": 2},
		},
		"total_amount_xof": 30000,
		"payment_method":   "wave",
	}, nil)
	suite.Require().Equal(http.StatusCreated, w.Code)
	assert.True(suite.T(), env.Success)

	w, env = suite.do("POST", "/v1/orders", gin.H{
		"customer_name":  "Awa Koné",
		"customer_phone": "07 12 34 56 78",
		"items":          []gin.H{},
	}, nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "VALIDATION_ERROR", env.Error.Code)
}

func (suite *APITestSuite) TestCartFlow() {
	w, _ := suite.do("GET", "/v1/cart", nil, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	session := w.Header().Get(handlers.CartSessionHeader)
	suite.Require().True(utils.IsCartSessionToken(session))
	headers := map[string]string{handlers.CartSessionHeader: session}

	for i := 0; i < 2; i++ {
		w, _ = suite.do("POST", "/v1/cart/items", gin.H{"product_id": suite.robe.ID, "quantity": 1}, headers)
		suite.Require().Equal(http.StatusOK, w.Code)
	}
	_, env := suite.do("GET", "/v1/cart", nil, headers)
	var summary services.CartSummary
	suite.Require().NoError(json.Unmarshal(env.Data, &summary))
	assert.Len(suite.T(), summary.Lines, 2)
	assert.Equal(suite.T(), int64(30000), summary.Total)

	w, _ = suite.do("POST", "/v1/cart/items", gin.H{"product_id": suite.sac.ID}, headers)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w, _ = suite.do("PUT", "/v1/cart/items/"+suite.sac.ID.String(), gin.H{"quantity": 2}, headers)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w, _ = suite.do("POST", "/v1/cart/checkout", gin.H{"customer_name": "Awa Koné", "customer_phone": "0712345678"}, headers)
	suite.Require().Equal(http.StatusCreated, w.Code)
	assert.Len(suite.T(), suite.store.orders, 1)

	_, env = suite.do("GET", "/v1/cart", nil, headers)
	suite.Require().NoError(json.Unmarshal(env.Data, &summary))
	assert.Empty(suite.T(), summary.Lines)
}

func (suite *APITestSuite) TestCartCheckoutAfterPriceChange() {
	w, _ := suite.do("POST", "/v1/cart/items", gin.H{"product_id": suite.robe.ID, "quantity": 1}, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	headers := map[string]string{handlers.CartSessionHeader: w.Header().Get(handlers.CartSessionHeader)}
	checkout := gin.H{"customer_name": "Awa Koné", "customer_phone": "0712345678"}

	suite.store.products[0].FinalPrice = 16000

	w, env := suite.do("POST", "/v1/cart/checkout", checkout, headers)
	suite.Require().Equal(http.StatusConflict, w.Code)
	assert.Equal(suite.T(), "CART_CHANGED", env.Error.Code)
	assert.Equal(suite.T(), i18n.T("fr", i18n.KeyCartChanged), env.Error.Message)
	assert.Equal(suite.T(), float64(16000), env.Error.Details["total_xof"])
	assert.Empty(suite.T(), suite.store.orders)

	w, _ = suite.do("POST", "/v1/cart/checkout", checkout, headers)
	suite.Require().Equal(http.StatusCreated, w.Code)
	suite.Require().Len(suite.store.orders, 1)
	assert.Equal(suite.T(), int64(16000), suite.store.orders[0].TotalAmount)
}

func (suite *APITestSuite) TestCartRequiresSessionForUpdates() {
	w, env := suite.do("DELETE", "/v1/cart", nil, nil)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), i18n.T("fr", i18n.KeyCartSessionMissing), env.Error.Message)
}

func (suite *APITestSuite) TestProfileAndFavorites() {
	w, _ := suite.do("GET", "/v1/me", nil, nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	auth := suite.bearer("user-1", "awa@example.com", "0712345678")
	w, env := suite.do("GET", "/v1/me", nil, auth)
	suite.Require().Equal(http.StatusOK, w.Code)
	var customer models.Customer
	suite.Require().NoError(json.Unmarshal(env.Data, &customer))
	assert.Equal(suite.T(), "awa@example.com", customer.Email)

	w, _ = suite.do("POST", "/v1/me/favorites/"+suite.robe.ID.String(), nil, auth)
	suite.Require().Equal(http.StatusOK, w.Code)
	w, _ = suite.do("POST", "/v1/me/favorites/"+suite.robe.ID.String(), nil, auth)
	suite.Require().Equal(http.StatusOK, w.Code)
	assert.Len(suite.T(), suite.store.favorites, 1)

	_, env = suite.do("GET", "/v1/me/favorites/ids", nil, auth)
	var ids struct {
		ProductIDs []uuid.UUID `json:"product_ids"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &ids))
	assert.Equal(suite.T(), []uuid.UUID{suite.robe.ID}, ids.ProductIDs)

	w, _ = suite.do("GET", "/v1/me/orders", nil, auth)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *APITestSuite) TestLookupEmailByPhone() {
	suite.store.customers = append(suite.store.customers, models.Customer{AuthUserID: "u1", Email: "awa@example.com", Phone: "+2250712345678"})

	w, env := suite.do("POST", "/v1/customers/lookup-email", gin.H{"phone": "07 12 34 56 78"}, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var data map[string]string
	suite.Require().NoError(json.Unmarshal(env.Data, &data))
	assert.Equal(suite.T(), "awa@example.com", data["email"])

	w, _ = suite.do("POST", "/v1/customers/lookup-email", gin.H{"phone": "0799999999"}, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func TestInitializeWithoutPing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize("fr"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := &memoryStore{}
	catalogSvc := services.NewCatalogService(st, nil, testConfig().Catalog)
	r := Initialize(ctx, &services.Services{Catalog: catalogSvc}, testConfig(), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
