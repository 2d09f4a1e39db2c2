// internal/services/catalog_service.go
package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/babamama/storefront/internal/catalog"
	"github.com/babamama/storefront/internal/config"
	"github.com/babamama/storefront/internal/models"
	"github.com/babamama/storefront/internal/store"
	"github.com/babamama/storefront/internal/utils"
)

const relatedProductsLimit = 4

type CatalogService struct {
	products     ProductStore
	media        *MediaService
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

// ListRequest describes one catalog view: the store query plus the facet
// selection coming from the query string.
type ListRequest struct {
	Category      string
	Search        string
	InStockOnly   *bool
	PriceMin      *int64
	PriceMax      *int64
	PriceChip     string
	Subcategories []string
	Sort          string
	Page          int
	Limit         int
}

type ProductView struct {
	models.Product
	DiscountPercent int  `json:"discount_percent"`
	InStock         bool `json:"in_stock"`
	FlashSale       bool `json:"flash_sale"`
}

type Facets struct {
	PriceBounds   catalog.PriceRange   `json:"price_bounds"`
	Subcategories []string             `json:"subcategories"`
	PriceChips    []catalog.PriceChip  `json:"price_chips"`
	SortOptions   []catalog.SortOption `json:"sort_options"`
	Total         int                  `json:"total"`
}

type ProductList struct {
	Products          []ProductView          `json:"products"`
	Total             int                    `json:"total"`
	Pagination        utils.PaginationParams `json:"pagination"`
	Filters           catalog.Config         `json:"filters"`
	ActiveFilterCount int                    `json:"active_filter_count"`
	Facets            Facets                 `json:"facets"`
}

type ProductDetail struct {
	ProductView
	Related []ProductView `json:"related"`
}

func NewCatalogService(products ProductStore, media *MediaService, cfg config.CatalogConfig) *CatalogService {
	return &CatalogService{
		products:     products,
		media:        media,
		defaultLimit: cfg.DefaultListLimit,
		maxLimit:     cfg.MaxListLimit,
		now:          systemClock,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context, req ListRequest) (*ProductList, error) {
	products, err := s.products.ListActive(ctx, store.ProductQuery{Category: req.Category, Search: req.Search})
	if err != nil {
		return nil, storeError("products.list", err)
	}

	facets := s.facets(products)

	// A fresh filter state per view, defaulting to the full price span of the view.
	state := catalog.NewState(facets.PriceBounds)
	state.SetFilters(partialFromRequest(req, facets.PriceBounds))

	filtered := state.Filter(products)

	page := utils.NormalizePagination(req.Page, req.Limit, s.defaultLimit, s.maxLimit)
	start, end := utils.Window(len(filtered), page)

	return &ProductList{
		Products:          s.views(filtered[start:end]),
		Total:             len(filtered),
		Pagination:        page,
		Filters:           state.Config(),
		ActiveFilterCount: state.ActiveFilterCount(),
		Facets:            facets,
	}, nil
}

func partialFromRequest(req ListRequest, bounds catalog.PriceRange) catalog.Partial {
	var p catalog.Partial
	p.InStockOnly = req.InStockOnly
	if len(req.Subcategories) > 0 {
		p.Subcategories = req.Subcategories
	}
	if req.Sort != "" {
		sortBy := catalog.SortOption(req.Sort)
		p.SortBy = &sortBy
	}
	if req.PriceMin != nil || req.PriceMax != nil {
		r := bounds
		if req.PriceMin != nil {
			r.Min = *req.PriceMin
		}
		if req.PriceMax != nil {
			r.Max = *req.PriceMax
		}
		p.PriceRange = &r
	}
	if req.PriceChip != "" {
		chip := req.PriceChip
		p.PriceChip = &chip
	}
	return p
}

func (s *CatalogService) Facets(ctx context.Context, category, search string) (*Facets, error) {
	products, err := s.products.ListActive(ctx, store.ProductQuery{Category: category, Search: search})
	if err != nil {
		return nil, storeError("products.facets", err)
	}
	f := s.facets(products)
	return &f, nil
}

func (s *CatalogService) facets(products []models.Product) Facets {
	return Facets{
		PriceBounds:   catalog.PriceBounds(products),
		Subcategories: catalog.SubcategoryTags(products),
		PriceChips:    catalog.PriceChips(),
		SortOptions:   []catalog.SortOption{catalog.SortPopular, catalog.SortNewest, catalog.SortPriceAsc, catalog.SortPriceDesc},
		Total:         len(products),
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDetail, error) {
	product, err := s.products.FindActiveByID(ctx, id)
	if err != nil {
		return nil, storeError("products.get", err)
	}

	detail := &ProductDetail{ProductView: s.view(*product), Related: []ProductView{}}

	siblings, err := s.products.ListActive(ctx, store.ProductQuery{
		Category: product.Category,
		Limit:    relatedProductsLimit + 1,
	})
	if err != nil {
		return nil, storeError("products.related", err)
	}
	for _, p := range siblings {
		if p.ID == product.ID || len(detail.Related) == relatedProductsLimit {
			continue
		}
		detail.Related = append(detail.Related, s.view(p))
	}

	return detail, nil
}

// Promotions lists discounted products, biggest discount first.
func (s *CatalogService) Promotions(ctx context.Context) ([]ProductView, error) {
	products, err := s.products.ListActive(ctx, store.ProductQuery{})
	if err != nil {
		return nil, storeError("products.promotions", err)
	}

	views := make([]ProductView, 0)
	for _, p := range products {
		if catalog.OnSale(p) {
			views = append(views, s.view(p))
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].DiscountPercent > views[j].DiscountPercent
	})
	return views, nil
}

// FlashSale lists running flash sales, the one ending soonest first.
func (s *CatalogService) FlashSale(ctx context.Context) ([]ProductView, error) {
	products, err := s.products.ListActive(ctx, store.ProductQuery{})
	if err != nil {
		return nil, storeError("products.flash_sale", err)
	}

	now := s.now()
	views := make([]ProductView, 0)
	for _, p := range products {
		if catalog.InFlashSale(p, now) {
			views = append(views, s.view(p))
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].FlashSaleEndAt.Before(*views[j].FlashSaleEndAt)
	})
	return views, nil
}

// Product returns the raw active product, for callers that price from the catalog.
func (s *CatalogService) Product(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindActiveByID(ctx, id)
	if err != nil {
		return nil, storeError("products.get", err)
	}
	return product, nil
}

// ActiveProducts returns the active products among ids keyed by id.
func (s *CatalogService) ActiveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	products, err := s.products.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, storeError("products.get", err)
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func (s *CatalogService) view(p models.Product) ProductView {
	if s.media != nil {
		p = s.media.ResolveProduct(p)
	}
	return ProductView{
		Product:         p,
		DiscountPercent: catalog.DiscountPercent(p),
		InStock:         p.InStock(),
		FlashSale:       catalog.InFlashSale(p, s.now()),
	}
}

func (s *CatalogService) views(products []models.Product) []ProductView {
	out := make([]ProductView, len(products))
	for i, p := range products {
		out[i] = s.view(p)
	}
	return out
}
