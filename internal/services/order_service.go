// internal/services/order_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/babamama/storefront/internal/apperr"
	"github.com/babamama/storefront/internal/models"
	"github.com/babamama/storefront/internal/phone"
	"github.com/babamama/storefront/internal/utils"
)

type OrderService struct {
	orders    OrderStore
	customers CustomerStore
	products  ProductStore
	lookup    *OrderLookup
	dialect   phone.Dialect
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Title     string    `json:"title" validate:"max=255"`
	Price     int64     `json:"price" validate:"gte=0"`
	Qty       int       `json:"qty" validate:"required,min=1,max=999"`
}

type CreateOrderRequest struct {
	CustomerName    string             `json:"customer_name" validate:"required,min=2,max=255"`
	CustomerPhone   string             `json:"customer_phone" validate:"required,phone"`
	DeliveryAddress *string            `json:"delivery_address,omitempty" validate:"omitempty,max=1000"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount     int64              `json:"total_amount_xof" validate:"gte=0"`
	PaymentMethod   string             `json:"payment_method,omitempty" validate:"payment_method"`
}

// NewOrderService wires order persistence. products may be nil, in which case
// item prices are taken as submitted.
func NewOrderService(orders OrderStore, customers CustomerStore, products ProductStore, dialect phone.Dialect) *OrderService {
	if dialect == nil {
		dialect = phone.CoteDIvoire
	}
	return &OrderService{
		orders:    orders,
		customers: customers,
		products:  products,
		lookup:    NewOrderLookup(orders, dialect),
		dialect:   dialect,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	items := make(models.OrderItems, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Title:     strings.TrimSpace(it.Title),
			Price:     it.Price,
			Qty:       it.Qty,
		})
	}

	if s.products != nil {
		if err := s.applyCatalogPrices(ctx, items); err != nil {
			return nil, err
		}
	}

	var computed int64
	for _, it := range items {
		computed += it.Subtotal()
	}
	if req.TotalAmount != 0 && req.TotalAmount != computed {
		return nil, apperr.Validation("orders.create",
			fmt.Sprintf("total %d does not match items total %d", req.TotalAmount, computed))
	}

	method := models.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = models.PaymentMethodPending
	}

	order := &models.Order{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   s.dialect.Normalize(req.CustomerPhone),
		DeliveryAddress: trimmedOrNil(req.DeliveryAddress),
		Items:           items,
		TotalAmount:     computed,
		PaymentMethod:   method,
		Status:          models.OrderStatusPending,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, storeError("orders.create", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"items":    len(order.Items),
		"total":    order.TotalAmount,
		"payment":  order.PaymentMethod,
	}).Info("Order created")

	return order, nil
}

// applyCatalogPrices replaces submitted prices and titles with the catalog's.
func (s *OrderService) applyCatalogPrices(ctx context.Context, items models.OrderItems) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	products, err := s.products.FindActiveByIDs(ctx, ids)
	if err != nil {
		return storeError("orders.create", err)
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for i := range items {
		p, ok := byID[items[i].ProductID]
		if !ok {
			return apperr.Validation("orders.create", fmt.Sprintf("product %s is not available", items[i].ProductID))
		}
		items[i].Price = p.FinalPrice
		items[i].Title = p.Title
	}
	return nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("orders.get", err)
	}
	return order, nil
}

// LookupByPhone runs the public order tracking search.
func (s *OrderService) LookupByPhone(ctx context.Context, input string) (LookupResult, error) {
	return s.lookup.Lookup(ctx, input)
}

// OrdersForUser returns the orders placed under the signed-in customer's phone.
// fallbackPhone is used when the customer has no profile yet.
func (s *OrderService) OrdersForUser(ctx context.Context, authUserID, fallbackPhone string) (LookupResult, error) {
	phoneNumber := fallbackPhone
	customer, err := s.customers.FindByAuthID(ctx, authUserID)
	switch {
	case err == nil && strings.TrimSpace(customer.Phone) != "":
		phoneNumber = customer.Phone
	case err != nil && !apperr.IsNotFound(err):
		return LookupResult{}, storeError("orders.for_user", err)
	}

	return s.exactOrders(ctx, phoneNumber)
}

// OrdersForEmail returns the orders of the customer registered under email.
func (s *OrderService) OrdersForEmail(ctx context.Context, email string) (LookupResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return LookupResult{}, apperr.Validation("orders.for_email", "email is required")
	}
	customer, err := s.customers.FindByEmail(ctx, email)
	if apperr.IsNotFound(err) {
		return LookupResult{Orders: []models.Order{}, Match: MatchNone}, nil
	}
	if err != nil {
		return LookupResult{}, storeError("orders.for_email", err)
	}
	return s.exactOrders(ctx, customer.Phone)
}

// exactOrders matches the phone variants without the substring pass: a
// signed-in customer must never see someone else's orders.
func (s *OrderService) exactOrders(ctx context.Context, phoneNumber string) (LookupResult, error) {
	variants := s.dialect.Variants(phoneNumber)
	if len(variants) == 0 || !utils.IsPlausiblePhone(phoneNumber) {
		return LookupResult{Orders: []models.Order{}, Match: MatchNone}, nil
	}
	orders, err := s.orders.FindByPhones(ctx, variants)
	if err != nil {
		return LookupResult{}, storeError("orders.for_user", err)
	}
	if len(orders) == 0 {
		return LookupResult{Orders: []models.Order{}, Match: MatchNone}, nil
	}
	return LookupResult{Orders: newestFirst(orders), Match: MatchExact}, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
