// internal/catalog/pricing.go
package catalog

import (
	"math"
	"time"

	"github.com/babamama/storefront/internal/models"
)

// DiscountPercent prefers the stored percentage and falls back to the one implied
// by the compare-at price.
func DiscountPercent(p models.Product) int {
	if p.DiscountPercentage > 0 {
		return p.DiscountPercentage
	}
	if p.CompareAtPrice == nil || *p.CompareAtPrice <= 0 || *p.CompareAtPrice <= p.FinalPrice {
		return 0
	}
	cmp := float64(*p.CompareAtPrice)
	return int(math.Round((cmp - float64(p.FinalPrice)) / cmp * 100))
}

func OnSale(p models.Product) bool {
	return DiscountPercent(p) > 0
}

// InFlashSale reports whether the product's flash sale is still running at now
// and has stock left, when stock is tracked.
func InFlashSale(p models.Product, now time.Time) bool {
	if p.FlashSaleEndAt == nil || !p.FlashSaleEndAt.After(now) {
		return false
	}
	return p.FlashSaleStock == nil || *p.FlashSaleStock > 0
}
