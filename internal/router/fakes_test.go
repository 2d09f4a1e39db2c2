package router

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/babamama/storefront/internal/apperr"
	"github.com/babamama/storefront/internal/models"
	"github.com/babamama/storefront/internal/store"
)

// memoryStore backs every service interface with in-memory slices.
type memoryStore struct {
	mu        sync.Mutex
	products  []models.Product
	orders    []models.Order
	customers []models.Customer
	favorites []models.Favorite
	failing   error
}

func (m *memoryStore) ListActive(_ context.Context, q store.ProductQuery) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	out := []models.Product{}
	for _, p := range m.products {
		if !p.IsActive || (q.Category != "" && p.Category != q.Category) {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(q.Search)) {
			continue
		}
		out = append(out, p)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (m *memoryStore) FindActiveByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ID == id && p.IsActive {
			p := p
			return &p, nil
		}
	}
	return nil, apperr.NotFound("products.get", "record not found")
}

func (m *memoryStore) FindActiveByIDs(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []models.Product{}
	for _, p := range m.products {
		if want[p.ID] && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryStore) Create(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return m.failing
	}
	order.ID = uuid.New()
	order.CreatedAt = time.Now().UTC()
	m.orders = append(m.orders, *order)
	return nil
}

func (m *memoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, apperr.NotFound("orders.get", "record not found")
}

func (m *memoryStore) FindByPhones(_ context.Context, phones []string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return nil, m.failing
	}
	out := []models.Order{}
	for _, o := range m.orders {
		for _, p := range phones {
			if o.CustomerPhone == p {
				out = append(out, o)
				break
			}
		}
	}
	return out, nil
}

func (m *memoryStore) FindByPhoneFragments(_ context.Context, fragments []string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		for _, f := range fragments {
			if f != "" && strings.Contains(o.CustomerPhone, f) {
				out = append(out, o)
				break
			}
		}
	}
	return out, nil
}

// memoryCustomers and memoryFavorites share memoryStore's data but need their
// own method sets, since Create and FindByPhones collide with the order side.
type memoryCustomers struct{ *memoryStore }

func (m memoryCustomers) FindByAuthID(_ context.Context, authUserID string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.AuthUserID == authUserID {
			c := c
			return &c, nil
		}
	}
	return nil, apperr.NotFound("customers.get", "record not found")
}

func (m memoryCustomers) FindByEmail(_ context.Context, email string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if strings.EqualFold(c.Email, email) {
			c := c
			return &c, nil
		}
	}
	return nil, apperr.NotFound("customers.get_by_email", "record not found")
}

func (m memoryCustomers) FindByPhones(_ context.Context, phones []string) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Customer{}
	for _, c := range m.customers {
		for _, p := range phones {
			if c.Phone == p {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func (m memoryCustomers) Create(_ context.Context, customer *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	customer.ID = uuid.New()
	m.customers = append(m.customers, *customer)
	return nil
}

func (m memoryCustomers) UpdateByAuthID(_ context.Context, authUserID string, updates map[string]interface{}) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.customers {
		c := &m.customers[i]
		if c.AuthUserID != authUserID {
			continue
		}
		if v, ok := updates["phone"].(string); ok {
			c.Phone = v
		}
		if v, ok := updates["name"].(string); ok {
			c.Name = v
		}
		if v, ok := updates["email"].(string); ok {
			c.Email = v
		}
		cp := *c
		return &cp, nil
	}
	return nil, apperr.NotFound("customers.update", "record not found")
}

type memoryFavorites struct{ *memoryStore }

func (m memoryFavorites) Find(_ context.Context, authUserID string, productID uuid.UUID) (*models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.favorites {
		if f.AuthUserID == authUserID && f.ProductID == productID {
			f := f
			return &f, nil
		}
	}
	return nil, apperr.NotFound("favorites.get", "record not found")
}

func (m memoryFavorites) Create(_ context.Context, fav *models.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fav.ID = uuid.New()
	fav.CreatedAt = time.Now().UTC()
	m.favorites = append(m.favorites, *fav)
	return nil
}

func (m memoryFavorites) Delete(_ context.Context, authUserID string, productID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.favorites[:0]
	for _, f := range m.favorites {
		if f.AuthUserID != authUserID || f.ProductID != productID {
			kept = append(kept, f)
		}
	}
	m.favorites = kept
	return nil
}

func (m memoryFavorites) ListByUser(_ context.Context, authUserID string) ([]models.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Favorite{}
	for i := len(m.favorites) - 1; i >= 0; i-- {
		if m.favorites[i].AuthUserID == authUserID {
			out = append(out, m.favorites[i])
		}
	}
	return out, nil
}
