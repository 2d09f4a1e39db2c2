// internal/store/customers.go
package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/babamama/storefront/internal/models"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) FindByAuthID(ctx context.Context, authUserID string) (*models.Customer, error) {
	var customer models.Customer
	err := withRetry(ctx, "customers.get", func() error {
		return r.db.WithContext(ctx).Where("auth_user_id = ?", authUserID).First(&customer).Error
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := withRetry(ctx, "customers.get_by_email", func() error {
		return r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&customer).Error
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) FindByPhones(ctx context.Context, phones []string) ([]models.Customer, error) {
	if len(phones) == 0 {
		return []models.Customer{}, nil
	}
	var customers []models.Customer
	err := withRetry(ctx, "customers.find_by_phone", func() error {
		return r.db.WithContext(ctx).Where("phone IN ?", phones).Find(&customers).Error
	})
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return withRetry(ctx, "customers.create", func() error {
		return r.db.WithContext(ctx).Create(customer).Error
	})
}

// UpdateByAuthID applies updates and returns the stored row.
func (r *CustomerRepository) UpdateByAuthID(ctx context.Context, authUserID string, updates map[string]interface{}) (*models.Customer, error) {
	var customer models.Customer
	err := withRetry(ctx, "customers.update", func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("auth_user_id = ?", authUserID).First(&customer).Error; err != nil {
				return err
			}
			if len(updates) == 0 {
				return nil
			}
			return tx.Model(&customer).Updates(updates).Error
		})
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}
