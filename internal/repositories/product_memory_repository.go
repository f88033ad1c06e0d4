package repositories

import (
	"context"
	"sort"
	"sync"

	"catalog/internal/models"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products []models.Product
	ids      map[string]struct{}
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		ids: make(map[string]struct{}),
	}
}

// Create adds a new product.
func (r *MemoryProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if _, exists := r.ids[product.ID]; exists {
		return storeErr("failed to create product", errDuplicateID(product.ID))
	}

	stored := *product
	stored.Tags = append(stored.Tags[:0:0], product.Tags...)
	r.products = append(r.products, stored)
	r.ids[product.ID] = struct{}{}
	return nil
}

// ListAll returns one page of all products, newest first.
func (r *MemoryProductRepository) ListAll(_ context.Context, page, size int) ([]models.Product, error) {
	return r.list(func(models.Product) bool { return true }, page, size), nil
}

// ListByCategory returns one page of the products in category, newest first.
func (r *MemoryProductRepository) ListByCategory(_ context.Context, category string, page, size int) ([]models.Product, error) {
	return r.list(func(p models.Product) bool { return p.Category == category }, page, size), nil
}

func (r *MemoryProductRepository) list(match func(models.Product) bool, page, size int) []models.Product {
	out := []models.Product{}
	offset, ok := pageOffset(page, size)
	if !ok {
		return out
	}

	r.mu.RLock()
	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if match(p) {
			matched = append(matched, p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt != matched[j].CreatedAt {
			return matched[i].CreatedAt > matched[j].CreatedAt
		}
		return matched[i].ID > matched[j].ID
	})

	if offset >= len(matched) {
		return out
	}
	end := len(matched)
	if size < end-offset {
		end = offset + size
	}
	return append(out, matched[offset:end]...)
}

type errDuplicateID string

func (e errDuplicateID) Error() string {
	return "product with ID " + string(e) + " already exists"
}
