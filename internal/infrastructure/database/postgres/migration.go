// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/erp-backend/internal/domain/expense"
	"github.com/your-org/erp-backend/internal/domain/finance"
	"github.com/your-org/erp-backend/internal/domain/product"
	"github.com/your-org/erp-backend/internal/domain/query"
	"github.com/your-org/erp-backend/internal/domain/sale"
	"github.com/your-org/erp-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// User domain
		&user.User{},

		// Product domain with its purchase lots
		&product.Product{},
		&product.PurchaseLot{},

		// Sale domain
		&sale.Sale{},

		// Expense domain
		&expense.Expense{},

		// Finance snapshots
		&finance.IncomeStatement{},

		// Customer queries
		&query.CustomerQuery{},
	}

	// Run auto-migration for each model
	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_role_active ON users(role, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",
		"CREATE INDEX IF NOT EXISTS idx_products_quantity ON products(quantity)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Purchase lot indexes - the FIFO walk orders by these
		"CREATE INDEX IF NOT EXISTS idx_purchase_lots_product_date ON purchase_lots(product_id, purchase_date, id)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_lots_remaining ON purchase_lots(product_id, remaining)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_lots_purchase_date ON purchase_lots(purchase_date)",

		// Sale indexes
		"CREATE INDEX IF NOT EXISTS idx_sales_product_status ON sales(product_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_sales_status_date ON sales(status, sale_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales(sale_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_sales_customer_email ON sales(customer_email)",

		// Expense indexes
		"CREATE INDEX IF NOT EXISTS idx_expenses_category_date ON expenses(category, expense_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_expenses_expense_date ON expenses(expense_date DESC)",

		// Income statement indexes
		"CREATE INDEX IF NOT EXISTS idx_income_statements_year ON income_statements(year)",

		// Customer query indexes
		"CREATE INDEX IF NOT EXISTS idx_customer_queries_status ON customer_queries(status, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_customer_queries_email ON customer_queries(customer_email)",
		"CREATE INDEX IF NOT EXISTS idx_customer_queries_response_type ON customer_queries(response_type, updated_at DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	// Create default developer account
	if err := m.seedDeveloperUser(); err != nil {
		return fmt.Errorf("failed to seed developer user: %w", err)
	}

	// Create sample stock for development
	if err := m.seedSampleProducts(); err != nil {
		return fmt.Errorf("failed to seed sample products: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// seedDeveloperUser creates the bootstrap developer account
func (m *Migration) seedDeveloperUser() error {
	log.Println("👤 Seeding developer user...")

	var existing user.User
	result := m.db.Where("email = ?", "developer@example.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Developer#2024"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		devUser := user.User{
			Name:     "System Developer",
			Email:    "developer@example.com",
			Password: string(hashedPassword),
			Role:     user.RoleDeveloper,
			IsActive: true,
		}

		if err := m.db.Create(&devUser).Error; err != nil {
			return fmt.Errorf("failed to create developer user: %w", err)
		}

		log.Println("✅ Created developer user: developer@example.com")
	} else {
		log.Printf("⏭️ Developer user already exists with ID: %d", existing.ID)
	}

	return nil
}

// seedSampleProducts creates sample products with purchase lots for
// development environments
func (m *Migration) seedSampleProducts() error {
	log.Println("🛍️ Seeding sample products...")

	var productCount int64
	m.db.Model(&product.Product{}).Count(&productCount)
	if productCount > 0 {
		log.Println("⏭️ Products already exist")
		return nil
	}

	now := time.Now().UTC()

	samples := []struct {
		product product.Product
		lots    []product.PurchaseLot
	}{
		{
			product: product.Product{
				Name:         "Office Chair",
				Description:  "Ergonomic office chair with adjustable armrests",
				CurrentPrice: decimal.NewFromFloat(149.99),
			},
			lots: []product.PurchaseLot{
				{
					PurchaseDate: now.AddDate(0, -2, 0),
					Quantity:     20,
					UnitCost:     decimal.NewFromFloat(85.00),
					Expenses:     decimal.NewFromFloat(40.00),
					Supplier:     "Nordic Furniture Co",
					Remaining:    20,
				},
				{
					PurchaseDate: now.AddDate(0, -1, 0),
					Quantity:     15,
					UnitCost:     decimal.NewFromFloat(92.50),
					Expenses:     decimal.NewFromFloat(30.00),
					Supplier:     "Nordic Furniture Co",
					Remaining:    15,
				},
			},
		},
		{
			product: product.Product{
				Name:         "Standing Desk",
				Description:  "Electric height-adjustable standing desk",
				CurrentPrice: decimal.NewFromFloat(399.00),
			},
			lots: []product.PurchaseLot{
				{
					PurchaseDate: now.AddDate(0, -1, -15),
					Quantity:     10,
					UnitCost:     decimal.NewFromFloat(240.00),
					Expenses:     decimal.NewFromFloat(60.00),
					Supplier:     "Deskworks Ltd",
					Remaining:    10,
				},
			},
		},
	}

	for _, sample := range samples {
		p := sample.product
		if err := m.db.Create(&p).Error; err != nil {
			log.Printf("⚠️ Failed to create sample product %s: %v", p.Name, err)
			continue
		}

		total := 0
		for _, lot := range sample.lots {
			lot.ProductID = p.ID
			if err := m.db.Create(&lot).Error; err != nil {
				log.Printf("⚠️ Failed to create lot for %s: %v", p.Name, err)
				continue
			}
			total += lot.Remaining
		}

		if err := m.db.Model(&product.Product{}).Where("id = ?", p.ID).
			Update("quantity", total).Error; err != nil {
			log.Printf("⚠️ Failed to set stock for %s: %v", p.Name, err)
		}

		log.Printf("✅ Created sample product: %s (%d in stock)", p.Name, total)
	}

	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Define tables in reverse dependency order
	tables := []string{
		"customer_queries",
		"income_statements",
		"expenses",
		"sales",
		"purchase_lots",
		"products",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}

// GetTableInfo returns information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	// Get list of tables
	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	log.Println("================================")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		status := "✅"
		if count == 0 {
			status = "📭"
		}

		log.Printf("%s %-25s | %d records", status, table, count)
	}

	log.Println("================================")
	log.Printf("📈 Total records across all tables: %d", totalRecords)
	log.Printf("🗂️ Total tables: %d", len(tables))

	return nil
}

// CleanupSampleData removes seeded sample data (useful for production setup)
func (m *Migration) CleanupSampleData() error {
	log.Println("🧹 Cleaning up sample data...")

	var sampleProducts []product.Product
	m.db.Where("name IN (?)", []string{"Office Chair", "Standing Desk"}).Find(&sampleProducts)

	for _, p := range sampleProducts {
		m.db.Where("product_id = ?", p.ID).Delete(&product.PurchaseLot{})
	}

	result := m.db.Where("name IN (?)", []string{"Office Chair", "Standing Desk"}).Delete(&product.Product{})
	log.Printf("🗑️ Removed %d sample products", result.RowsAffected)

	log.Println("✅ Sample data cleanup completed")
	return nil
}

// VerifyStockIntegrity compares every product's cached quantity with the
// sum of its lot remainders and reports mismatches
func (m *Migration) VerifyStockIntegrity() error {
	log.Println("🔍 Verifying stock counter integrity...")

	rows, err := m.db.Raw(`
		SELECT p.id, p.name, p.quantity, COALESCE(SUM(l.remaining), 0) as lot_total
		FROM products p
		LEFT JOIN purchase_lots l ON l.product_id = p.id
		WHERE p.deleted_at IS NULL
		GROUP BY p.id, p.name, p.quantity
	`).Rows()
	if err != nil {
		return fmt.Errorf("integrity query failed: %w", err)
	}
	defer rows.Close()

	mismatches := 0
	for rows.Next() {
		var (
			id       uint
			name     string
			quantity int
			lotTotal int
		)
		if err := rows.Scan(&id, &name, &quantity, &lotTotal); err != nil {
			continue
		}
		if quantity != lotTotal {
			mismatches++
			log.Printf("❌ Product %d (%s): counter=%d, lots=%d", id, name, quantity, lotTotal)
		}
	}

	if mismatches == 0 {
		log.Println("✅ All stock counters match their purchase lots")
	} else {
		log.Printf("⚠️ Found %d products with mismatched stock counters", mismatches)
	}
	return nil
}
