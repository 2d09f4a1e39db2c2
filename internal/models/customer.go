// internal/models/customer.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	BaseModel
	AuthUserID string `json:"auth_user_id" gorm:"size:64;not null;uniqueIndex"`
	Email      string `json:"email" gorm:"size:255;index"`
	Phone      string `json:"phone" gorm:"size:32;index"`
	Name       string `json:"name,omitempty" gorm:"size:255"`
}

type Favorite struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AuthUserID string    `json:"auth_user_id" gorm:"size:64;not null;uniqueIndex:idx_favorites_user_product"`
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_product"`
	CreatedAt  time.Time `json:"created_at"`
}
