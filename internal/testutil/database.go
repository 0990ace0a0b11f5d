package testutil

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront/internal/domain"
	"storefront/internal/infrastructure/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/storefront_test?charset=utf8mb4&parseTime=true&loc=UTC"

// SetupTestDB opens the integration database and migrates the schema.
// TEST_DATABASE_DSN overrides the default local DSN; the test is skipped when
// MySQL is not reachable.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	if err := mysql.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	CleanTables(t, db)
	t.Cleanup(func() {
		CleanTables(t, db)
		_ = sqlDB.Close()
	})

	return db
}

// CleanTables empties every table, children first.
func CleanTables(t *testing.T, db *gorm.DB) {
	t.Helper()

	tables := []string{"outbox_events", "order_items", "orders", "products", "categories", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

func CreateUser(t *testing.T, db *gorm.DB, name string) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: uuid.NewString() + "@example.com",
		Role:  domain.UserRoleCustomer,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func CreateCategory(t *testing.T, db *gorm.DB, name, slug string) *domain.Category {
	t.Helper()

	category := &domain.Category{ID: uuid.NewString(), Name: name, Slug: slug}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return category
}

// CreateProduct inserts an active product. An empty categoryID creates a
// throwaway category for it.
func CreateProduct(t *testing.T, db *gorm.DB, name, price string, stock int, categoryID string) *domain.Product {
	t.Helper()

	if categoryID == "" {
		slug := uuid.NewString()
		categoryID = CreateCategory(t, db, "Category "+slug[:8], slug).ID
	}

	product := &domain.Product{
		ID:         uuid.NewString(),
		Name:       name,
		Slug:       uuid.NewString(),
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		Active:     true,
		CategoryID: categoryID,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return product
}

func ProductStock(t *testing.T, db *gorm.DB, id string) int {
	t.Helper()

	var stock int
	if err := db.Model(&domain.Product{}).Where("id = ?", id).Select("stock").Row().Scan(&stock); err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	return stock
}
