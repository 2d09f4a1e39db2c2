// internal/services/order_lookup.go
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/babamama/storefront/internal/apperr"
	"github.com/babamama/storefront/internal/models"
	"github.com/babamama/storefront/internal/phone"
	"github.com/babamama/storefront/internal/utils"
)

type MatchKind string

const (
	MatchExact   MatchKind = "exact"
	MatchPartial MatchKind = "partial"
	MatchNone    MatchKind = "none"
)

type LookupResult struct {
	Orders []models.Order `json:"orders"`
	Match  MatchKind      `json:"match"`
}

// OrderLookup finds the orders placed under a phone number typed in any of the
// formats customers and staff have used over time.
type OrderLookup struct {
	finder  OrderFinder
	dialect phone.Dialect
}

func NewOrderLookup(finder OrderFinder, dialect phone.Dialect) *OrderLookup {
	if dialect == nil {
		dialect = phone.CoteDIvoire
	}
	return &OrderLookup{finder: finder, dialect: dialect}
}

// Lookup tries an exact match on every variant of input, then a substring match.
// The substring pass can return orders of a different number that contains one
// of the variants. Input with fewer than phone.MinDigits digits is rejected
// before any query.
func (l *OrderLookup) Lookup(ctx context.Context, input string) (LookupResult, error) {
	if strings.TrimSpace(input) == "" {
		return LookupResult{Orders: []models.Order{}, Match: MatchNone}, nil
	}
	if !utils.IsPlausiblePhone(input) {
		return LookupResult{}, apperr.Validation("orders.lookup", "phone number is too short")
	}
	variants := l.dialect.Variants(input)

	orders, err := l.finder.FindByPhones(ctx, variants)
	if err != nil {
		return LookupResult{}, storeError("orders.lookup", err)
	}
	if len(orders) > 0 {
		return LookupResult{Orders: newestFirst(orders), Match: MatchExact}, nil
	}

	if err := ctx.Err(); err != nil {
		return LookupResult{}, fmt.Errorf("orders.lookup: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"phone_hash": utils.HashString(l.dialect.Normalize(input))[:12],
		"variants":   len(variants),
		"region":     l.dialect.Region(),
	}).Info("No exact phone match, trying partial match")

	orders, err = l.finder.FindByPhoneFragments(ctx, variants)
	if err != nil {
		return LookupResult{}, storeError("orders.lookup", err)
	}
	if len(orders) == 0 {
		return LookupResult{Orders: []models.Order{}, Match: MatchNone}, nil
	}
	return LookupResult{Orders: newestFirst(orders), Match: MatchPartial}, nil
}

// newestFirst drops duplicate ids and orders by creation time, newest first.
func newestFirst(orders []models.Order) []models.Order {
	seen := make(map[uuid.UUID]struct{}, len(orders))
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.ID]; ok {
			continue
		}
		seen[o.ID] = struct{}{}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
