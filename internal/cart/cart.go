// internal/cart/cart.go
package cart

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/babamama/storefront/internal/models"
)

// MergePolicy decides what adding an already present product does.
type MergePolicy string

const (
	// MergeNone appends a new line on every add.
	MergeNone MergePolicy = "none"
	// MergeByProductID increments the quantity of the product's existing line.
	MergeByProductID MergePolicy = "by-product-id"
)

func ParseMergePolicy(s string) (MergePolicy, error) {
	switch p := MergePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", MergeNone:
		return MergeNone, nil
	case MergeByProductID:
		return p, nil
	default:
		return "", fmt.Errorf("unknown cart merge policy %q", s)
	}
}

type Line struct {
	LineID    string    `json:"line_id"`
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url,omitempty"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
}

func (l Line) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// Item is what a caller adds to the cart.
type Item struct {
	ProductID uuid.UUID
	Title     string
	ImageURL  string
	Price     int64
}

type Option func(*Cart)

// WithIDGenerator replaces the ULID line id generator.
func WithIDGenerator(gen func() string) Option {
	return func(c *Cart) {
		if gen != nil {
			c.newID = gen
		}
	}
}

// Cart is a list of lines owned by a single shopper. It is not safe for
// concurrent use.
type Cart struct {
	policy MergePolicy
	lines  []Line
	newID  func() string
}

func New(policy MergePolicy, opts ...Option) *Cart {
	if policy != MergeByProductID {
		policy = MergeNone
	}
	c := &Cart{
		policy: policy,
		newID:  func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cart) Policy() MergePolicy {
	return c.policy
}

// AddItem adds quantity units of item and returns the affected line. Quantities
// below 1 count as 1.
func (c *Cart) AddItem(item Item, quantity int) Line {
	if quantity < 1 {
		quantity = 1
	}

	if c.policy == MergeByProductID {
		for i := range c.lines {
			if c.lines[i].ProductID == item.ProductID {
				c.lines[i].Quantity += quantity
				return c.lines[i]
			}
		}
	}

	line := Line{
		LineID:    c.newID(),
		ProductID: item.ProductID,
		Title:     item.Title,
		ImageURL:  item.ImageURL,
		Price:     item.Price,
		Quantity:  quantity,
	}
	c.lines = append(c.lines, line)
	return line
}

// UpdateQuantity sets the quantity on every line of the product. A quantity
// below 1 removes the product.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) bool {
	if quantity < 1 {
		return c.RemoveItem(productID)
	}
	found := false
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines[i].Quantity = quantity
			found = true
		}
	}
	return found
}

// RemoveItem drops every line of the product.
func (c *Cart) RemoveItem(productID uuid.UUID) bool {
	kept := c.lines[:0]
	removed := false
	for _, l := range c.lines {
		if l.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	c.lines = kept
	return removed
}

// SetPrice applies the catalog title and price to every line of the product and
// reports whether any line's price changed.
func (c *Cart) SetPrice(productID uuid.UUID, title string, price int64) bool {
	changed := false
	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if c.lines[i].Price != price {
			c.lines[i].Price = price
			changed = true
		}
		c.lines[i].Title = title
	}
	return changed
}

// Settle takes the quantities of ordered out of the lines with the same LineID.
// Units added after ordered was taken stay in the cart.
func (c *Cart) Settle(ordered []Line) {
	taken := make(map[string]int, len(ordered))
	for _, l := range ordered {
		taken[l.LineID] += l.Quantity
	}
	kept := c.lines[:0]
	for _, l := range c.lines {
		l.Quantity -= taken[l.LineID]
		if l.Quantity > 0 {
			kept = append(kept, l)
		}
	}
	c.lines = kept
}

func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}

// OrderItems snapshots the cart for checkout.
func (c *Cart) OrderItems() models.OrderItems {
	items := make(models.OrderItems, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, models.OrderItem{
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     l.Price,
			Qty:       l.Quantity,
		})
	}
	return items
}
