package repositories

import (
	"context"

	"catalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create inserts a product, assigning an ID if none is set.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return storeErr("failed to create product", err)
	}
	return nil
}

// ListAll returns one page of all products, newest first.
func (r *GORMProductRepository) ListAll(ctx context.Context, page, size int) ([]models.Product, error) {
	return r.list(r.db.WithContext(ctx), page, size, "failed to list products")
}

// ListByCategory returns one page of the products in category, newest first.
func (r *GORMProductRepository) ListByCategory(ctx context.Context, category string, page, size int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Where("category = ?", category)
	return r.list(query, page, size, "failed to list products in category "+category)
}

func (r *GORMProductRepository) list(query *gorm.DB, page, size int, op string) ([]models.Product, error) {
	products := []models.Product{}
	offset, ok := pageOffset(page, size)
	if !ok {
		return products, nil
	}
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(size).
		Find(&products).Error
	if err != nil {
		return nil, storeErr(op, err)
	}
	return products, nil
}
