// internal/services/services.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/babamama/storefront/internal/apperr"
	"github.com/babamama/storefront/internal/cart"
	"github.com/babamama/storefront/internal/config"
	"github.com/babamama/storefront/internal/models"
	"github.com/babamama/storefront/internal/phone"
	"github.com/babamama/storefront/internal/store"
)

type ProductStore interface {
	ListActive(ctx context.Context, q store.ProductQuery) ([]models.Product, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// OrderFinder is the read side the lookup reconciler needs.
type OrderFinder interface {
	FindByPhones(ctx context.Context, phones []string) ([]models.Order, error)
	FindByPhoneFragments(ctx context.Context, fragments []string) ([]models.Order, error)
}

type OrderStore interface {
	OrderFinder
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type CustomerStore interface {
	FindByAuthID(ctx context.Context, authUserID string) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindByPhones(ctx context.Context, phones []string) ([]models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	UpdateByAuthID(ctx context.Context, authUserID string, updates map[string]interface{}) (*models.Customer, error)
}

type FavoriteStore interface {
	Find(ctx context.Context, authUserID string, productID uuid.UUID) (*models.Favorite, error)
	Create(ctx context.Context, fav *models.Favorite) error
	Delete(ctx context.Context, authUserID string, productID uuid.UUID) error
	ListByUser(ctx context.Context, authUserID string) ([]models.Favorite, error)
}

// Services is the set handed to the router.
type Services struct {
	Catalog   *CatalogService
	Orders    *OrderService
	Customers *CustomerService
	Favorites *FavoriteService
	Carts     *CartService
	Media     *MediaService
}

// New wires every service over st. The phone dialect and cart merge policy come
// from the catalog settings.
func New(st *store.Store, cfg *config.Config) (*Services, error) {
	media, err := NewMediaService(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create media service: %w", err)
	}

	policy, err := cart.ParseMergePolicy(cfg.Catalog.CartMergePolicy)
	if err != nil {
		return nil, apperr.Configuration(err.Error())
	}
	dialect := phone.DefaultRegistry().Resolve(cfg.Catalog.PhoneRegion)

	catalogSvc := NewCatalogService(st.Products, media, cfg.Catalog)
	orders := NewOrderService(st.Orders, st.Customers, st.Products, dialect)

	return &Services{
		Catalog:   catalogSvc,
		Orders:    orders,
		Customers: NewCustomerService(st.Customers, dialect),
		Favorites: NewFavoriteService(st.Favorites, st.Products, catalogSvc),
		Carts:     NewCartService(catalogSvc, orders, policy, cfg.Catalog.CartIdleTTL),
		Media:     media,
	}, nil
}

func systemClock() time.Time {
	return time.Now().UTC()
}

// storeError keeps typed errors as they are and classifies anything else as a
// store failure of op.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.KindOf(err) != "" {
		return err
	}
	return apperr.Store(op, err)
}
