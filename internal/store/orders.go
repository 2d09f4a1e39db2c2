// internal/store/orders.go
package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/babamama/storefront/internal/models"
	"github.com/babamama/storefront/internal/phone"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return withRetry(ctx, "orders.create", func() error {
		return r.db.WithContext(ctx).Create(order).Error
	})
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := withRetry(ctx, "orders.get", func() error {
		return r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByPhones matches customer_phone exactly against any of phones.
func (r *OrderRepository) FindByPhones(ctx context.Context, phones []string) ([]models.Order, error) {
	if len(phones) == 0 {
		return []models.Order{}, nil
	}
	var orders []models.Order
	err := withRetry(ctx, "orders.find_by_phone", func() error {
		return r.db.WithContext(ctx).
			Where("customer_phone IN ?", phones).
			Order("created_at DESC").
			Find(&orders).Error
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByPhoneFragments matches orders whose customer_phone contains any of
// fragments. Fragments are matched literally; fragments with fewer than
// phone.MinDigits digits are ignored.
func (r *OrderRepository) FindByPhoneFragments(ctx context.Context, fragments []string) ([]models.Order, error) {
	clauses, args := fragmentClauses("customer_phone", fragments)
	if len(clauses) == 0 {
		return []models.Order{}, nil
	}
	var orders []models.Order
	err := withRetry(ctx, "orders.find_by_phone_fragment", func() error {
		return r.db.WithContext(ctx).
			Where(strings.Join(clauses, " OR "), args...).
			Order("created_at DESC").
			Find(&orders).Error
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func fragmentClauses(column string, fragments []string) ([]string, []interface{}) {
	clauses := make([]string, 0, len(fragments))
	args := make([]interface{}, 0, len(fragments))
	for _, f := range fragments {
		if len(phone.Digits(f)) < phone.MinDigits {
			continue
		}
		clauses = append(clauses, column+` LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f))
	}
	return clauses, args
}
