package services

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

type fakeProducts struct {
	products []models.Product
	err      error
}

func (f *fakeProducts) ListActive(_ context.Context, q store.ProductQuery) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Product{}
	for _, p := range f.products {
		if !p.IsActive {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
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

func (f *fakeProducts) FindActiveByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id && p.IsActive {
			p := p
			return &p, nil
		}
	}
	return nil, apperr.NotFound("products.get", "record not found")
}

func (f *fakeProducts) FindActiveByIDs(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := []models.Product{}
	for _, p := range f.products {
		if want[p.ID] && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeOrders struct {
	mu         sync.Mutex
	orders     []models.Order
	exactErr   error
	fragErr    error
	createErr  error
	exactCalls [][]string
	fragCalls  [][]string
	onExact    func()
	onCreate   func()
}

func (f *fakeOrders) Create(_ context.Context, order *models.Order) error {
	if f.onCreate != nil {
		f.onCreate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	order.ID = uuid.New()
	order.CreatedAt = time.Now().UTC()
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			o := o
			return &o, nil
		}
	}
	return nil, apperr.NotFound("orders.get", "record not found")
}

func (f *fakeOrders) FindByPhones(_ context.Context, phones []string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exactCalls = append(f.exactCalls, phones)
	if f.onExact != nil {
		f.onExact()
	}
	if f.exactErr != nil {
		return nil, f.exactErr
	}
	set := map[string]bool{}
	for _, p := range phones {
		set[p] = true
	}
	out := []models.Order{}
	for _, o := range f.orders {
		if set[o.CustomerPhone] {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) FindByPhoneFragments(_ context.Context, fragments []string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fragCalls = append(f.fragCalls, fragments)
	if f.fragErr != nil {
		return nil, f.fragErr
	}
	out := []models.Order{}
	for _, o := range f.orders {
		for _, frag := range fragments {
			if frag != "" && strings.Contains(o.CustomerPhone, frag) {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

type fakeCustomers struct {
	byAuth    map[string]*models.Customer
	err       error
	onCreate  func()
	createErr error
}

func newFakeCustomers(customers ...models.Customer) *fakeCustomers {
	f := &fakeCustomers{byAuth: map[string]*models.Customer{}}
	for _, c := range customers {
		c := c
		f.byAuth[c.AuthUserID] = &c
	}
	return f
}

func (f *fakeCustomers) FindByAuthID(_ context.Context, authUserID string) (*models.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byAuth[authUserID]
	if !ok {
		return nil, apperr.NotFound("customers.get", "record not found")
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCustomers) FindByEmail(_ context.Context, email string) (*models.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.byAuth {
		if strings.EqualFold(c.Email, email) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("customers.get_by_email", "record not found")
}

func (f *fakeCustomers) FindByPhones(_ context.Context, phones []string) ([]models.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	set := map[string]bool{}
	for _, p := range phones {
		set[p] = true
	}
	out := []models.Customer{}
	for _, c := range f.byAuth {
		if set[c.Phone] {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCustomers) Create(_ context.Context, customer *models.Customer) error {
	if f.err != nil {
		return f.err
	}
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.createErr != nil {
		return f.createErr
	}
	customer.ID = uuid.New()
	cp := *customer
	f.byAuth[customer.AuthUserID] = &cp
	return nil
}

func (f *fakeCustomers) UpdateByAuthID(_ context.Context, authUserID string, updates map[string]interface{}) (*models.Customer, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byAuth[authUserID]
	if !ok {
		return nil, apperr.NotFound("customers.update", "record not found")
	}
	for k, v := range updates {
		switch k {
		case "phone":
			c.Phone = v.(string)
		case "name":
			c.Name = v.(string)
		case "email":
			c.Email = v.(string)
		}
	}
	cp := *c
	return &cp, nil
}

type fakeFavorites struct {
	favs    []models.Favorite
	err     error
	creates int
}

func (f *fakeFavorites) Find(_ context.Context, authUserID string, productID uuid.UUID) (*models.Favorite, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, fav := range f.favs {
		if fav.AuthUserID == authUserID && fav.ProductID == productID {
			fav := fav
			return &fav, nil
		}
	}
	return nil, apperr.NotFound("favorites.get", "record not found")
}

func (f *fakeFavorites) Create(_ context.Context, fav *models.Favorite) error {
	if f.err != nil {
		return f.err
	}
	f.creates++
	fav.ID = uuid.New()
	fav.CreatedAt = time.Now().UTC().Add(time.Duration(len(f.favs)) * time.Second)
	f.favs = append(f.favs, *fav)
	return nil
}

func (f *fakeFavorites) Delete(_ context.Context, authUserID string, productID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	kept := f.favs[:0]
	for _, fav := range f.favs {
		if fav.AuthUserID == authUserID && fav.ProductID == productID {
			continue
		}
		kept = append(kept, fav)
	}
	f.favs = kept
	return nil
}

func (f *fakeFavorites) ListByUser(_ context.Context, authUserID string) ([]models.Favorite, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Favorite{}
	for i := len(f.favs) - 1; i >= 0; i-- {
		if f.favs[i].AuthUserID == authUserID {
			out = append(out, f.favs[i])
		}
	}
	return out, nil
}

var testEpoch = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func testProduct(title string, price int64, stock int) models.Product {
	p := models.Product{
		Title:             title,
		Category:          "mode",
		FinalPrice:        price,
		StockQuantity:     stock,
		IsActive:          true,
		MinQuantityToSell: 1,
	}
	p.ID = uuid.New()
	p.CreatedAt = testEpoch
	return p
}

func testOrder(phoneNumber string, age time.Duration) models.Order {
	o := models.Order{
		CustomerName:  "Awa",
		CustomerPhone: phoneNumber,
		Status:        models.OrderStatusPending,
	}
	o.ID = uuid.New()
	o.CreatedAt = testEpoch.Add(-age)
	return o
}
