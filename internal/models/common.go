// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at" gorm:"index:,sort:desc"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItems is stored as a jsonb array on the orders table
type OrderItems []OrderItem

func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

func (o *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("order items: unsupported scan type %T", value)
	}

	return json.Unmarshal(bytes, o)
}

// Enums
type PaymentMethod string

const (
	PaymentMethodWave    PaymentMethod = "wave"
	PaymentMethodOM      PaymentMethod = "om"
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodPending PaymentMethod = "pending"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodWave, PaymentMethodOM, PaymentMethodCash, PaymentMethodPending:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)
