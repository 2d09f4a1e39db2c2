// internal/catalog/filters.go
package catalog

import (
	"sort"
	"strings"

	"github.com/babamama/storefront/internal/models"
)

type SortOption string

const (
	SortPopular   SortOption = "popular"
	SortNewest    SortOption = "newest"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
)

// ParseSortOption maps unknown or empty values to SortPopular.
func ParseSortOption(s string) SortOption {
	switch opt := SortOption(strings.ToLower(strings.TrimSpace(s))); opt {
	case SortPopular, SortNewest, SortPriceAsc, SortPriceDesc:
		return opt
	}
	return SortPopular
}

const priceStep int64 = 1000

// DefaultPriceRange is used when there are no products to derive bounds from.
var DefaultPriceRange = PriceRange{Min: 1000, Max: 100000}

// PriceRange is inclusive on both ends.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Normalized swaps the bounds when Min > Max.
func (r PriceRange) Normalized() PriceRange {
	if r.Min > r.Max {
		return PriceRange{Min: r.Max, Max: r.Min}
	}
	return r
}

func (r PriceRange) Contains(price int64) bool {
	n := r.Normalized()
	return price >= n.Min && price <= n.Max
}

// Config is a complete filter configuration for one catalog view.
type Config struct {
	InStockOnly   bool       `json:"in_stock_only"`
	PriceRange    PriceRange `json:"price_range"`
	Subcategories []string   `json:"subcategories"`
	SortBy        SortOption `json:"sort_by"`
	PriceChip     string     `json:"price_chip,omitempty"`
}

func (c Config) clone() Config {
	out := c
	if c.Subcategories != nil {
		out.Subcategories = append([]string(nil), c.Subcategories...)
	}
	return out
}

// Apply returns the active products that satisfy cfg, in the order cfg asks for.
// The input slice and its elements are left untouched.
func Apply(products []models.Product, cfg Config) []models.Product {
	priceRange := cfg.PriceRange.Normalized()

	var selected map[string]struct{}
	if len(cfg.Subcategories) > 0 {
		selected = make(map[string]struct{}, len(cfg.Subcategories))
		for _, s := range cfg.Subcategories {
			selected[s] = struct{}{}
		}
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		if cfg.InStockOnly && p.StockQuantity <= 0 {
			continue
		}
		if !priceRange.Contains(p.FinalPrice) {
			continue
		}
		if selected != nil && !matchesAny(p, selected) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, ParseSortOption(string(cfg.SortBy)))
	return out
}

func matchesAny(p models.Product, selected map[string]struct{}) bool {
	for _, tag := range p.Tags() {
		if _, ok := selected[tag]; ok {
			return true
		}
	}
	return false
}

func sortProducts(products []models.Product, by SortOption) {
	var less func(a, b models.Product) bool
	switch by {
	case SortNewest:
		less = func(a, b models.Product) bool {
			return a.CreatedAt.After(b.CreatedAt)
		}
	case SortPriceAsc:
		less = func(a, b models.Product) bool {
			return a.FinalPrice < b.FinalPrice
		}
	case SortPriceDesc:
		less = func(a, b models.Product) bool {
			return a.FinalPrice > b.FinalPrice
		}
	default:
		less = func(a, b models.Product) bool {
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}

// PriceBounds returns the inclusive range covering every product price, widened
// to whole thousands.
func PriceBounds(products []models.Product) PriceRange {
	if len(products) == 0 {
		return DefaultPriceRange
	}

	lo, hi := products[0].FinalPrice, products[0].FinalPrice
	for _, p := range products[1:] {
		if p.FinalPrice < lo {
			lo = p.FinalPrice
		}
		if p.FinalPrice > hi {
			hi = p.FinalPrice
		}
	}

	return PriceRange{Min: floorTo(lo, priceStep), Max: ceilTo(hi, priceStep)}
}

func floorTo(v, step int64) int64 {
	q := v / step
	if v%step != 0 && v < 0 {
		q--
	}
	return q * step
}

func ceilTo(v, step int64) int64 {
	q := v / step
	if v%step != 0 && v > 0 {
		q++
	}
	return q * step
}

// SubcategoryTags lists the distinct subcategory and subsubcategory values in
// ascending order.
func SubcategoryTags(products []models.Product) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, p := range products {
		for _, tag := range p.Tags() {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}
