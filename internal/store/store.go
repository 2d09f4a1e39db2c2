// internal/store/store.go
package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/babamama/storefront/internal/apperr"
)

const (
	retryMax       = 3
	retryBaseDelay = 50 * time.Millisecond
	retryMaxDelay  = time.Second
)

// Store groups the repositories over one database handle.
type Store struct {
	Products  *ProductRepository
	Orders    *OrderRepository
	Customers *CustomerRepository
	Favorites *FavoriteRepository
}

func New(db *gorm.DB) *Store {
	return &Store{
		Products:  NewProductRepository(db),
		Orders:    NewOrderRepository(db),
		Customers: NewCustomerRepository(db),
		Favorites: NewFavoriteRepository(db),
	}
}

func isRetryable(err error) bool {
	return errors.Is(err, driver.ErrBadConn)
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	delay := retryBaseDelay << attempt
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	return delay
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// withRetry runs fn until it succeeds, fails permanently or retryMax attempts
// are used. Failures come back as apperr store errors, missing rows as not found.
func withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt < retryMax; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isRetryable(err) || attempt == retryMax-1 {
			break
		}
		logrus.WithFields(logrus.Fields{
			"op":      op,
			"attempt": attempt + 1,
			"error":   err,
		}).Warn("Retrying store operation")
		if sleepErr := sleepWithContext(ctx, retryDelay(attempt)); sleepErr != nil {
			err = sleepErr
			break
		}
	}
	return translate(op, err)
}

func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(op, "record not found")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Validation(op, "record already exists")
	}
	return apperr.Store(op, err)
}

// escapeLike makes s match literally inside a LIKE pattern using '\' as escape.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}
