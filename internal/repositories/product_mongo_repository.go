package repositories

import (
	"context"
	"fmt"

	"catalog/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductRepository implements ProductRepository on a MongoDB collection.
// Documents use the product ID as _id.
type MongoProductRepository struct {
	col *mongo.Collection
}

// NewMongoProductRepository creates the repository and ensures the indexes
// backing the list queries exist.
func NewMongoProductRepository(ctx context.Context, col *mongo.Collection) (*MongoProductRepository, error) {
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product indexes: %w", err)
	}
	return &MongoProductRepository{col: col}, nil
}

// Create inserts a product, assigning an ID if none is set.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, product); err != nil {
		return storeErr("failed to create product", err)
	}
	return nil
}

// ListAll returns one page of all products, newest first.
func (r *MongoProductRepository) ListAll(ctx context.Context, page, size int) ([]models.Product, error) {
	return r.list(ctx, bson.M{}, page, size, "failed to list products")
}

// ListByCategory returns one page of the products in category, newest first.
func (r *MongoProductRepository) ListByCategory(ctx context.Context, category string, page, size int) ([]models.Product, error) {
	return r.list(ctx, bson.M{"category": category}, page, size, "failed to list products in category "+category)
}

func (r *MongoProductRepository) list(ctx context.Context, filter bson.M, page, size int, op string) ([]models.Product, error) {
	products := []models.Product{}
	// A zero limit means "no limit" to MongoDB, so empty pages never reach the driver.
	offset, ok := pageOffset(page, size)
	if !ok {
		return products, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(size))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer cur.Close(ctx)

	if err := cur.All(ctx, &products); err != nil {
		return nil, storeErr(op, err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}
