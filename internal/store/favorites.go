// internal/store/favorites.go
package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/babamama/storefront/internal/models"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Find(ctx context.Context, authUserID string, productID uuid.UUID) (*models.Favorite, error) {
	var fav models.Favorite
	err := withRetry(ctx, "favorites.get", func() error {
		return r.db.WithContext(ctx).
			Where("auth_user_id = ? AND product_id = ?", authUserID, productID).
			First(&fav).Error
	})
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

// Create ignores a row that already exists for the pair.
func (r *FavoriteRepository) Create(ctx context.Context, fav *models.Favorite) error {
	return withRetry(ctx, "favorites.create", func() error {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "auth_user_id"}, {Name: "product_id"}},
				DoNothing: true,
			}).
			Create(fav).Error
	})
}

func (r *FavoriteRepository) Delete(ctx context.Context, authUserID string, productID uuid.UUID) error {
	return withRetry(ctx, "favorites.delete", func() error {
		return r.db.WithContext(ctx).
			Where("auth_user_id = ? AND product_id = ?", authUserID, productID).
			Delete(&models.Favorite{}).Error
	})
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, authUserID string) ([]models.Favorite, error) {
	var favs []models.Favorite
	err := withRetry(ctx, "favorites.list", func() error {
		return r.db.WithContext(ctx).
			Where("auth_user_id = ?", authUserID).
			Order("created_at DESC").
			Find(&favs).Error
	})
	if err != nil {
		return nil, err
	}
	return favs, nil
}
