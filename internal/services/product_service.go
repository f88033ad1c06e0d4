package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"catalog/internal/metrics"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/timestamp"

	"github.com/google/uuid"
)

// CategoryAll selects every product instead of a single category.
const CategoryAll = "all"

// ProductCreatedEvent is the routing key of events published after an insert.
const ProductCreatedEvent = "product.created"

// EventPublisher publishes domain events. pkg/rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}

// ListQuery is a validated list request. Page is 1-based.
type ListQuery struct {
	Category string
	Page     int
	Max      int
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are published.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, m *metrics.Metrics) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

// WithClock replaces the clock used to stamp createdAt.
func (s *ProductService) WithClock(now func() time.Time) *ProductService {
	s.now = now
	return s
}

// CreateProduct stores a new product. Client-supplied id and createdAt are
// discarded; both are assigned here before the record reaches the store.
func (s *ProductService) CreateProduct(ctx context.Context, input models.Product) (*models.Product, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate product id: %w", err)
	}

	product := input
	product.ID = id.String()
	product.CreatedAt = timestamp.Format(s.now())
	if product.Tags == nil {
		product.Tags = []string{}
	}

	if err := s.repo.Create(ctx, &product); err != nil {
		return nil, fmt.Errorf("create product %q: %w", product.Name, err)
	}
	s.metrics.ProductsCreated.Inc()

	s.publishCreated(product)
	return &product, nil
}

func (s *ProductService) publishCreated(product models.Product) {
	if s.publisher == nil {
		slog.Debug("event publisher not configured, skipping event", "event", ProductCreatedEvent, "product_id", product.ID)
		return
	}

	event := map[string]interface{}{
		"productID": product.ID,
		"name":      product.Name,
		"category":  product.Category,
		"createdAt": product.CreatedAt,
	}
	if err := s.publisher.Publish(ProductCreatedEvent, event); err != nil {
		slog.Warn("failed to publish product event", "event", ProductCreatedEvent, "product_id", product.ID, "error", err)
	}
}

// ListProducts returns one page of products, newest first. The 1-based page
// in q is translated to the store's 0-based page.
func (s *ProductService) ListProducts(ctx context.Context, q ListQuery) ([]models.Product, error) {
	page := q.Page - 1

	var (
		products []models.Product
		err      error
	)
	if q.Category == CategoryAll {
		s.metrics.ProductLists.WithLabelValues("all").Inc()
		products, err = s.repo.ListAll(ctx, page, q.Max)
	} else {
		s.metrics.ProductLists.WithLabelValues("category").Inc()
		products, err = s.repo.ListByCategory(ctx, q.Category, page, q.Max)
	}
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}
