// internal/services/cart_service.go
package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/babamama/storefront/internal/apperr"
	"github.com/babamama/storefront/internal/cart"
	"github.com/babamama/storefront/internal/models"
)

var (
	ErrCartChanged        = apperr.Conflict("cart.checkout", "cart prices changed, please review your cart")
	ErrCheckoutInProgress = apperr.Conflict("cart.checkout", "checkout already in progress")
)

type CartSummary struct {
	Lines       []cart.Line      `json:"lines"`
	Total       int64            `json:"total_xof"`
	ItemCount   int              `json:"item_count"`
	MergePolicy cart.MergePolicy `json:"merge_policy"`
}

type CheckoutRequest struct {
	CustomerName    string  `json:"customer_name"`
	CustomerPhone   string  `json:"customer_phone"`
	DeliveryAddress *string `json:"delivery_address,omitempty"`
	PaymentMethod   string  `json:"payment_method,omitempty"`
}

type cartEntry struct {
	cart        *cart.Cart
	lastSeen    time.Time
	checkingOut bool
}

// CartService keeps one cart per anonymous session token.
type CartService struct {
	mu      sync.Mutex
	carts   map[string]*cartEntry
	catalog *CatalogService
	orders  *OrderService
	policy  cart.MergePolicy
	idleTTL time.Duration
	now     func() time.Time
	newID   func() string
}

func NewCartService(catalog *CatalogService, orders *OrderService, policy cart.MergePolicy, idleTTL time.Duration) *CartService {
	if idleTTL <= 0 {
		idleTTL = 24 * time.Hour
	}
	return &CartService{
		carts:   make(map[string]*cartEntry),
		catalog: catalog,
		orders:  orders,
		policy:  policy,
		idleTTL: idleTTL,
		now:     systemClock,
	}
}

// entry returns the session's cart, creating it when create is set. Callers hold s.mu.
func (s *CartService) entry(session string, create bool) *cartEntry {
	e, ok := s.carts[session]
	if !ok {
		if !create {
			return nil
		}
		var opts []cart.Option
		if s.newID != nil {
			opts = append(opts, cart.WithIDGenerator(s.newID))
		}
		e = &cartEntry{cart: cart.New(s.policy, opts...)}
		s.carts[session] = e
	}
	e.lastSeen = s.now()
	return e
}

func (s *CartService) summary(e *cartEntry) *CartSummary {
	if e == nil {
		return &CartSummary{Lines: []cart.Line{}, MergePolicy: s.policy}
	}
	lines := e.cart.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return &CartSummary{
		Lines:       lines,
		Total:       e.cart.Total(),
		ItemCount:   e.cart.ItemCount(),
		MergePolicy: e.cart.Policy(),
	}
}

func (s *CartService) Summary(session string) *CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary(s.entry(session, false))
}

// AddItem prices the product from the catalog and adds it to the session's cart.
func (s *CartService) AddItem(ctx context.Context, session string, productID uuid.UUID, quantity int) (*CartSummary, error) {
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock() {
		return nil, apperr.Validation("cart.add", "product is out of stock")
	}
	if quantity < product.MinQuantityToSell {
		quantity = product.MinQuantityToSell
	}

	item := cart.Item{
		ProductID: product.ID,
		Title:     product.Title,
		ImageURL:  s.imageURL(*product),
		Price:     product.FinalPrice,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(session, true)
	e.cart.AddItem(item, quantity)
	return s.summary(e), nil
}

func (s *CartService) imageURL(p models.Product) string {
	if s.catalog != nil && s.catalog.media != nil {
		return s.catalog.media.URL(p.FirstImage())
	}
	return p.FirstImage()
}

// UpdateQuantity sets the product's quantity; below 1 removes it.
func (s *CartService) UpdateQuantity(session string, productID uuid.UUID, quantity int) (*CartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(session, false)
	if e == nil || !e.cart.UpdateQuantity(productID, quantity) {
		return nil, apperr.NotFound("cart.update", "product is not in the cart")
	}
	return s.summary(e), nil
}

func (s *CartService) RemoveItem(session string, productID uuid.UUID) (*CartSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(session, false)
	if e == nil || !e.cart.RemoveItem(productID) {
		return nil, apperr.NotFound("cart.remove", "product is not in the cart")
	}
	return s.summary(e), nil
}

func (s *CartService) Clear(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, session)
}

// Checkout places an order for the cart's content at current catalog prices.
// When a price changed or a product was retired the cart is refreshed and a
// conflict is returned instead. On success only the ordered units leave the
// cart.
func (s *CartService) Checkout(ctx context.Context, session string, req CheckoutRequest) (*models.Order, error) {
	s.mu.Lock()
	e := s.entry(session, false)
	if e == nil || e.cart.IsEmpty() {
		s.mu.Unlock()
		return nil, apperr.Validation("cart.checkout", "cart is empty")
	}
	if e.checkingOut {
		s.mu.Unlock()
		return nil, ErrCheckoutInProgress
	}
	e.checkingOut = true
	lines := e.cart.Lines()
	items := e.cart.OrderItems()
	s.mu.Unlock()

	order, err := s.placeOrder(ctx, e, lines, items, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	e.checkingOut = false
	if err != nil {
		return nil, err
	}
	e.cart.Settle(lines)
	if e.cart.IsEmpty() && s.carts[session] == e {
		delete(s.carts, session)
	}
	return order, nil
}

func (s *CartService) placeOrder(ctx context.Context, e *cartEntry, lines []cart.Line, items models.OrderItems, req CheckoutRequest) (*models.Order, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	current, err := s.catalog.ActiveProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	if s.refresh(e, lines, current) {
		return nil, ErrCartChanged
	}

	orderReq := &CreateOrderRequest{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
	}
	for _, it := range items {
		orderReq.Items = append(orderReq.Items, OrderItemRequest{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Qty:       it.Qty,
		})
		orderReq.TotalAmount += it.Subtotal()
	}
	return s.orders.CreateOrder(ctx, orderReq)
}

// refresh brings the cart in line with the catalog and reports whether any
// snapshot line was repriced or dropped.
func (s *CartService) refresh(e *cartEntry, lines []cart.Line, current map[uuid.UUID]models.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	stale := false
	for _, l := range lines {
		p, ok := current[l.ProductID]
		if !ok {
			e.cart.RemoveItem(l.ProductID)
			stale = true
			continue
		}
		if p.FinalPrice != l.Price {
			stale = true
		}
		e.cart.SetPrice(p.ID, p.Title, p.FinalPrice)
	}
	return stale
}

// EvictIdle drops carts untouched for longer than the idle TTL.
func (s *CartService) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	evicted := 0
	for session, e := range s.carts {
		if !e.checkingOut && e.lastSeen.Before(cutoff) {
			delete(s.carts, session)
			evicted++
		}
	}
	return evicted
}

// StartJanitor evicts idle carts every interval until ctx is done.
func (s *CartService) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.EvictIdle(); n > 0 {
					logrus.WithField("evicted", n).Debug("Evicted idle carts")
				}
			}
		}
	}()
}
