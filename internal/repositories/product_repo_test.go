package repositories_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteRepo(t *testing.T) repositories.ProductRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositories.NewGORMProductRepository(db)
}

func newMemoryRepo(t *testing.T) repositories.ProductRepository {
	return repositories.NewMemoryProductRepository()
}

func newMongoRepo(t *testing.T) repositories.ProductRepository {
	t.Helper()
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	col := client.Database("catalog_test").Collection(strings.ReplaceAll(t.Name(), "/", "_"))
	t.Cleanup(func() {
		col.Drop(context.Background())
		client.Disconnect(context.Background())
	})
	repo, err := repositories.NewMongoProductRepository(ctx, col)
	require.NoError(t, err)
	return repo
}

var backends = map[string]func(t *testing.T) repositories.ProductRepository{
	"gorm":   newSQLiteRepo,
	"memory": newMemoryRepo,
	"mongo":  newMongoRepo,
}

var base = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

func product(name, category string, offset time.Duration) *models.Product {
	return &models.Product{
		Name:      name,
		Brand:     "Thrasher",
		Tags:      []string{"sports", "cap"},
		Category:  category,
		CreatedAt: base.Add(offset).Format("2006-01-02T15:04:05Z"),
	}
}

func seed(t *testing.T, repo repositories.ProductRepository, products ...*models.Product) {
	t.Helper()
	for _, p := range products {
		require.NoError(t, repo.Create(context.Background(), p))
	}
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestProductRepository_CreateAssignsID(t *testing.T) {
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			p := product("Hat", "hats", 0)

			require.NoError(t, repo.Create(context.Background(), p))
			assert.NotEmpty(t, p.ID)

			got, err := repo.ListAll(context.Background(), 0, 10)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, p.ID, got[0].ID)
			assert.Equal(t, []string{"sports", "cap"}, []string(got[0].Tags))
			assert.Equal(t, p.CreatedAt, got[0].CreatedAt)
		})
	}
}

func TestProductRepository_CreateKeepsGivenID(t *testing.T) {
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			p := product("Hat", "hats", 0)
			p.ID = "0190a6c2-0000-7000-8000-000000000001"

			require.NoError(t, repo.Create(context.Background(), p))
			assert.Equal(t, "0190a6c2-0000-7000-8000-000000000001", p.ID)
		})
	}
}

func TestProductRepository_DuplicateIDIsStoreError(t *testing.T) {
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			first := product("Hat", "hats", 0)
			seed(t, repo, first)

			dup := product("Other hat", "hats", time.Second)
			dup.ID = first.ID
			err := repo.Create(context.Background(), dup)

			var storeErr *repositories.StoreError
			require.ErrorAs(t, err, &storeErr)
			assert.Contains(t, storeErr.Error(), "failed to create product")
		})
	}
}

func TestProductRepository_ListAllOrdersNewestFirst(t *testing.T) {
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			seed(t, repo,
				product("old", "hats", 0),
				product("newest", "apparel", 2*time.Minute),
				product("middle", "hats", time.Minute),
			)

			got, err := repo.ListAll(context.Background(), 0, 10)
			require.NoError(t, err)
			assert.Equal(t, []string{"newest", "middle", "old"}, names(got))
			for i := 1; i < len(got); i++ {
				assert.GreaterOrEqual(t, got[i-1].CreatedAt, got[i].CreatedAt)
			}
		})
	}
}

func TestProductRepository_PagesDoNotOverlap(t *testing.T) {
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			// Same second for every product: ties are broken by id.
			for i := 0; i < 7; i++ {
				seed(t, repo, product(fmt.Sprintf("Hat #%d", i), "hats", 0))
			}

			first, err := repo.ListAll(context.Background(), 0, 3)
			require.NoError(t, err)
			second, err := repo.ListAll(context.Background(), 1, 3)
			require.NoError(t, err)
			third, err := repo.ListAll(context.Background(), 2, 3)
			require.NoError(t, err)

			assert.Len(t, first, 3)
			assert.Len(t, second, 3)
			assert.Len(t, third, 1)

			seen := map[string]bool{}
			for _, page := range [][]models.Product{first, second, third} {
				for _, p := range page {
					assert.False(t, seen[p.ID], "product %s returned twice", p.ID)
					seen[p.ID] = true
				}
			}
			assert.Len(t, seen, 7)
		})
	}
}

func TestProductRepository_ListByCategoryIsExactMatch(t *testing.T) {
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			seed(t, repo,
				product("Hat #1", "hats", 0),
				product("Hat #2", "hats", time.Second),
				product("Red shirt", "apparel", 2*time.Second),
				product("Loud shirt", "Apparel", 3*time.Second),
				product("Blue shirt", "apparel", 4*time.Second),
			)

			got, err := repo.ListByCategory(context.Background(), "apparel", 0, 10)
			require.NoError(t, err)
			assert.Equal(t, []string{"Blue shirt", "Red shirt"}, names(got))
			for _, p := range got {
				assert.Equal(t, "apparel", p.Category)
			}

			got, err = repo.ListByCategory(context.Background(), "apparel", 1, 1)
			require.NoError(t, err)
			assert.Equal(t, []string{"Red shirt"}, names(got))
		})
	}
}

func TestProductRepository_ZeroSizeReturnsEmptyPage(t *testing.T) {
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			seed(t, repo, product("Hat", "hats", 0))

			got, err := repo.ListAll(context.Background(), 0, 0)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)

			got, err = repo.ListByCategory(context.Background(), "hats", 0, 0)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestProductRepository_PastTheEndIsEmpty(t *testing.T) {
	for name, newRepo := range backends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			seed(t, repo, product("Hat", "hats", 0))

			got, err := repo.ListAll(context.Background(), 5, 10)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)

			got, err = repo.ListAll(context.Background(), 1<<62, 1<<10)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestMemoryProductRepository_StoresCopies(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()
	p := product("Hat", "hats", 0)
	seed(t, repo, p)

	p.Name = "mutated"
	p.Tags[0] = "mutated"

	got, err := repo.ListAll(context.Background(), 0, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Hat", got[0].Name)
	assert.Equal(t, "sports", got[0].Tags[0])
}

func TestGORMProductRepository_ClosedDatabaseIsStoreError(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:closed?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	repo := repositories.NewGORMProductRepository(db)
	_, err = repo.ListAll(context.Background(), 0, 10)

	var storeErr *repositories.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "failed to list products", storeErr.Op)
}
