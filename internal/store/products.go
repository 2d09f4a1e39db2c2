// internal/store/products.go
package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/babamama/storefront/internal/models"
)

type ProductQuery struct {
	Category string
	Search   string
	Limit    int
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListActive returns active products, newest first.
func (r *ProductRepository) ListActive(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	var products []models.Product
	err := withRetry(ctx, "products.list", func() error {
		query := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)

		if category := strings.TrimSpace(q.Category); category != "" {
			query = query.Where("category = ?", category)
		}
		if search := strings.TrimSpace(q.Search); search != "" {
			query = query.Where(`title ILIKE ? ESCAPE '\'`, containsPattern(search))
		}
		if q.Limit > 0 {
			query = query.Limit(q.Limit)
		}

		return query.Order("created_at DESC").Find(&products).Error
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := withRetry(ctx, "products.get", func() error {
		return r.db.WithContext(ctx).
			Where("id = ? AND is_active = ?", id, true).
			First(&product).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	err := withRetry(ctx, "products.get_many", func() error {
		return r.db.WithContext(ctx).
			Where("id IN ? AND is_active = ?", ids, true).
			Find(&products).Error
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}
