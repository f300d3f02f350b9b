// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/pos-backend/internal/domain/audit"
	"github.com/your-org/pos-backend/internal/domain/billing"
	"github.com/your-org/pos-backend/internal/domain/customer"
	"github.com/your-org/pos-backend/internal/domain/product"
	"github.com/your-org/pos-backend/internal/domain/user"
)

// Migration handles database migrations
type Migration struct {
	db *Database
}

// NewMigration creates a new migration instance
func NewMigration(db *Database) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Models in dependency order
	models := []interface{}{
		&user.User{},
		&product.Product{},
		&customer.Customer{},
		&billing.BillSequence{},
		&billing.Bill{},
		&billing.BillItem{},
		&billing.PublicInvoiceLink{},
		&audit.Log{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.DB.AutoMigrate(model); err != nil {
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
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",
		"CREATE INDEX IF NOT EXISTS idx_products_barcode ON products(barcode)",
		"CREATE INDEX IF NOT EXISTS idx_products_low_stock ON products(quantity, min_stock)",

		// Customer indexes
		"CREATE INDEX IF NOT EXISTS idx_customers_phone ON customers(phone)",
		"CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(name)",

		// Bill indexes
		"CREATE INDEX IF NOT EXISTS idx_bills_bill_date ON bills(bill_date DESC)",
		"CREATE INDEX IF NOT EXISTS idx_bills_customer_id ON bills(customer_id)",
		"CREATE INDEX IF NOT EXISTS idx_bills_payment_mode ON bills(payment_mode)",
		"CREATE INDEX IF NOT EXISTS idx_bill_items_bill ON bill_items(bill_id)",
		"CREATE INDEX IF NOT EXISTS idx_bill_items_product ON bill_items(product_id)",

		// Public link indexes
		"CREATE INDEX IF NOT EXISTS idx_public_invoice_links_expires ON public_invoice_links(expires_at)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON audit_logs(action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs(timestamp DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.DB.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// CleanupExpiredLinks removes public invoice links past their expiry
func (m *Migration) CleanupExpiredLinks() error {
	result := m.db.DB.Exec("DELETE FROM public_invoice_links WHERE expires_at < NOW()")
	if result.Error != nil {
		return fmt.Errorf("failed to clean up expired links: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("🗑️ Removed %d expired public invoice links", result.RowsAffected)
	}
	return nil
}

// GetTableInfo returns information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	if err := m.db.DB.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	log.Println("================================")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.DB.Table(table).Count(&count)
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
