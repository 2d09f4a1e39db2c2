// internal/services/customer_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/babamama/storefront/internal/apperr"
	"github.com/babamama/storefront/internal/models"
	"github.com/babamama/storefront/internal/phone"
	"github.com/babamama/storefront/internal/utils"
)

type CustomerService struct {
	customers CustomerStore
	dialect   phone.Dialect
}

// Identity is what the auth provider tells us about the signed-in user.
type Identity struct {
	AuthUserID string
	Email      string
	Phone      string
}

type CreateCustomerRequest struct {
	Phone string `json:"phone" validate:"required,phone"`
	Name  string `json:"name,omitempty" validate:"omitempty,max=255"`
}

type UpdateCustomerRequest struct {
	Phone *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Name  *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

func NewCustomerService(customers CustomerStore, dialect phone.Dialect) *CustomerService {
	if dialect == nil {
		dialect = phone.CoteDIvoire
	}
	return &CustomerService{customers: customers, dialect: dialect}
}

func (s *CustomerService) Get(ctx context.Context, authUserID string) (*models.Customer, error) {
	customer, err := s.customers.FindByAuthID(ctx, authUserID)
	if err != nil {
		return nil, storeError("customers.get", err)
	}
	return customer, nil
}

func (s *CustomerService) Create(ctx context.Context, who Identity, req *CreateCustomerRequest) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	_, err := s.customers.FindByAuthID(ctx, who.AuthUserID)
	if err == nil {
		return nil, apperr.Validation("customers.create", "customer profile already exists")
	}
	if !apperr.IsNotFound(err) {
		return nil, storeError("customers.create", err)
	}

	customer, err := s.insert(ctx, who, req.Phone, req.Name)
	if apperr.IsValidation(err) {
		return nil, apperr.Validation("customers.create", "customer profile already exists")
	}
	return customer, err
}

func (s *CustomerService) Update(ctx context.Context, authUserID string, req *UpdateCustomerRequest) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Phone != nil {
		updates["phone"] = s.dialect.Normalize(*req.Phone)
	}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}

	customer, err := s.customers.UpdateByAuthID(ctx, authUserID, updates)
	if err != nil {
		return nil, storeError("customers.update", err)
	}
	return customer, nil
}

// EnsureCustomer returns the profile of who, creating it from the token claims
// for accounts registered before profiles existed.
func (s *CustomerService) EnsureCustomer(ctx context.Context, who Identity) (*models.Customer, error) {
	existing, err := s.customers.FindByAuthID(ctx, who.AuthUserID)
	if err == nil {
		return existing, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, storeError("customers.ensure", err)
	}

	customer, err := s.insert(ctx, who, who.Phone, "")
	if apperr.IsValidation(err) {
		// created by a concurrent request
		return s.Get(ctx, who.AuthUserID)
	}
	if err != nil {
		return nil, err
	}
	logrus.WithField("auth_user_id", who.AuthUserID).Info("Customer profile migrated from auth account")
	return customer, nil
}

// FindByPhone returns the customer registered under any variant of input.
func (s *CustomerService) FindByPhone(ctx context.Context, input string) (*models.Customer, error) {
	if strings.TrimSpace(input) == "" {
		return nil, apperr.Validation("customers.find_by_phone", "phone is required")
	}
	customers, err := s.customers.FindByPhones(ctx, s.dialect.Variants(input))
	if err != nil {
		return nil, storeError("customers.find_by_phone", err)
	}
	if len(customers) == 0 {
		return nil, apperr.NotFound("customers.find_by_phone", "no customer with this phone")
	}
	return &customers[0], nil
}

func (s *CustomerService) insert(ctx context.Context, who Identity, phoneNumber, name string) (*models.Customer, error) {
	customer := &models.Customer{
		AuthUserID: who.AuthUserID,
		Email:      strings.ToLower(strings.TrimSpace(who.Email)),
		Phone:      s.dialect.Normalize(phoneNumber),
		Name:       strings.TrimSpace(name),
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, storeError("customers.create", err)
	}
	return customer, nil
}
