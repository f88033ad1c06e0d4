package repositories

import (
	"context"
	"fmt"
	"math"

	"catalog/internal/models"
)

// ProductRepository defines the interface for product data access.
// Pages are 0-based at this boundary. Both list operations order by
// created_at descending, then id descending.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	ListAll(ctx context.Context, page, size int) ([]models.Product, error)
	ListByCategory(ctx context.Context, category string, page, size int) ([]models.Product, error)
}

// StoreError is returned by every repository implementation when the
// backing store fails.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// pageOffset returns the row offset for a 0-based page. ok is false when the
// page cannot hold any rows: a zero size, a negative input, or an offset
// beyond what an int can represent.
func pageOffset(page, size int) (offset int, ok bool) {
	if size <= 0 || page < 0 {
		return 0, false
	}
	if page > 0 && size > math.MaxInt/page {
		return 0, false
	}
	return page * size, true
}
