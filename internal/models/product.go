// internal/models/product.go
package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const MaxRating = 5.0

type Product struct {
	BaseModel
	Title              string         `json:"title" gorm:"size:255;not null"`
	Description        string         `json:"description" gorm:"type:text"`
	Category           string         `json:"category" gorm:"size:100;index"`
	Subcategory        *string        `json:"subcategory" gorm:"size:100"`
	Subsubcategory     *string        `json:"subsubcategory" gorm:"size:100"`
	Images             pq.StringArray `json:"images" gorm:"type:text[]"`
	FinalPrice         int64          `json:"final_price_xof" gorm:"column:final_price_xof;not null"`
	CompareAtPrice     *int64         `json:"compare_at_price"`
	DiscountPercentage int            `json:"discount_percentage" gorm:"default:0"`
	FlashSaleEndAt     *time.Time     `json:"flash_sale_end_at"`
	FlashSaleStock     *int           `json:"flash_sale_stock"`
	Rating             float64        `json:"rating" gorm:"type:decimal(3,2);default:0"`
	Specs              pq.StringArray `json:"specs" gorm:"type:text[]"`
	IsActive           bool           `json:"is_active" gorm:"default:true;index"`
	IsNew              bool           `json:"is_new" gorm:"default:false"`
	StockQuantity      int            `json:"stock_quantity" gorm:"default:0"`
	MinQuantityToSell  int            `json:"min_quantity_to_sell" gorm:"default:1"`
}

// AfterFind parses loosely maintained rows into values the catalog can trust.
func (p *Product) AfterFind(tx *gorm.DB) error {
	p.Sanitize()
	return nil
}

func (p *Product) Sanitize() {
	if p.Rating < 0 {
		p.Rating = 0
	} else if p.Rating > MaxRating {
		p.Rating = MaxRating
	}
	if p.DiscountPercentage < 0 {
		p.DiscountPercentage = 0
	} else if p.DiscountPercentage > 100 {
		p.DiscountPercentage = 100
	}
	if p.StockQuantity < 0 {
		p.StockQuantity = 0
	}
	if p.MinQuantityToSell < 1 {
		p.MinQuantityToSell = 1
	}
	p.Subcategory = blankToNil(p.Subcategory)
	p.Subsubcategory = blankToNil(p.Subsubcategory)
}

func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// FirstImage returns the cover image or "" when the product has none.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Tags returns the non-empty subcategory and subsubcategory values.
func (p Product) Tags() []string {
	tags := make([]string, 0, 2)
	if p.Subcategory != nil && *p.Subcategory != "" {
		tags = append(tags, *p.Subcategory)
	}
	if p.Subsubcategory != nil && *p.Subsubcategory != "" {
		tags = append(tags, *p.Subsubcategory)
	}
	return tags
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
