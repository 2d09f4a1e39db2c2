// internal/models/order.go
package models

import "github.com/google/uuid"

type OrderItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	Price     int64     `json:"price"`
	Qty       int       `json:"qty"`
}

func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Qty)
}

type Order struct {
	BaseModel
	CustomerName    string        `json:"customer_name" gorm:"size:255;not null"`
	CustomerPhone   string        `json:"customer_phone" gorm:"size:32;not null;index"`
	DeliveryAddress *string       `json:"delivery_address" gorm:"type:text"`
	Items           OrderItems    `json:"items" gorm:"type:jsonb;not null"`
	TotalAmount     int64         `json:"total_amount_xof" gorm:"column:total_amount_xof;not null"`
	PaymentMethod   PaymentMethod `json:"payment_method" gorm:"type:varchar(20);default:'pending'"`
	Status          OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
}

// ItemsTotal recomputes the order amount from its lines.
func (o Order) ItemsTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}
