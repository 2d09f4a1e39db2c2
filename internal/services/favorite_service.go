// internal/services/favorite_service.go
package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/babamama/storefront/internal/apperr"
	"github.com/babamama/storefront/internal/models"
)

type FavoriteService struct {
	favorites FavoriteStore
	products  ProductStore
	catalog   *CatalogService
}

func NewFavoriteService(favorites FavoriteStore, products ProductStore, catalog *CatalogService) *FavoriteService {
	return &FavoriteService{favorites: favorites, products: products, catalog: catalog}
}

// Add is idempotent. Only active products can be favorited.
func (s *FavoriteService) Add(ctx context.Context, authUserID string, productID uuid.UUID) (*models.Favorite, error) {
	if existing, err := s.favorites.Find(ctx, authUserID, productID); err == nil {
		return existing, nil
	} else if !apperr.IsNotFound(err) {
		return nil, storeError("favorites.add", err)
	}

	if _, err := s.products.FindActiveByID(ctx, productID); err != nil {
		return nil, storeError("favorites.add", err)
	}

	fav := &models.Favorite{AuthUserID: authUserID, ProductID: productID}
	if err := s.favorites.Create(ctx, fav); err != nil {
		return nil, storeError("favorites.add", err)
	}
	return fav, nil
}

func (s *FavoriteService) Remove(ctx context.Context, authUserID string, productID uuid.UUID) error {
	return storeError("favorites.remove", s.favorites.Delete(ctx, authUserID, productID))
}

func (s *FavoriteService) IsFavorited(ctx context.Context, authUserID string, productID uuid.UUID) (bool, error) {
	_, err := s.favorites.Find(ctx, authUserID, productID)
	switch {
	case err == nil:
		return true, nil
	case apperr.IsNotFound(err):
		return false, nil
	default:
		return false, storeError("favorites.get", err)
	}
}

// ProductIDs lists favorited product ids, most recent first.
func (s *FavoriteService) ProductIDs(ctx context.Context, authUserID string) ([]uuid.UUID, error) {
	favs, err := s.favorites.ListByUser(ctx, authUserID)
	if err != nil {
		return nil, storeError("favorites.list", err)
	}
	ids := make([]uuid.UUID, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.ProductID)
	}
	return ids, nil
}

// Products lists the favorited products that are still active, most recently
// favorited first.
func (s *FavoriteService) Products(ctx context.Context, authUserID string) ([]ProductView, error) {
	ids, err := s.ProductIDs(ctx, authUserID)
	if err != nil {
		return nil, err
	}

	products, err := s.products.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, storeError("favorites.products", err)
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		if p.IsActive {
			byID[p.ID] = p
		}
	}

	views := make([]ProductView, 0, len(byID))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		if s.catalog != nil {
			views = append(views, s.catalog.view(p))
		} else {
			views = append(views, ProductView{Product: p, InStock: p.InStock()})
		}
	}
	return views, nil
}
