package infra

import (
	"fmt"

	"summitgear/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (partial indexes, check constraints on existing DBs, etc.).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus schema patches. Also used by the
// integration test suite against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.MembershipTier{},
		&model.Customer{},
		&model.Product{},
		&model.Branch{},
		&model.Employee{},
		&model.Supplier{},
		&model.StockBatch{},
		&model.SalesOrder{},
		&model.OrderItem{},
		&model.ReturnRequest{},
		&model.PointsTransaction{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// express. Each statement is guarded by an existence check so re-running on an
// already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one live (non-rejected) return request per order. The service
		// checks this too, but only the partial unique index closes the race
		// between two concurrent creates.
		{"one active return per order", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_return_requests_active_order') THEN
    CREATE UNIQUE INDEX uniq_return_requests_active_order
        ON return_requests (order_id)
        WHERE status <> 'Rejected';
  END IF;
END $$`},
		// Hard floor under the FIFO allocator: a concurrent writer bug can
		// never drive a batch negative.
		{"stock batch quantity floor", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stock_batches_quantity_floor') THEN
    ALTER TABLE stock_batches
      ADD CONSTRAINT chk_stock_batches_quantity_floor CHECK (quantity >= 0);
  END IF;
END $$`},
		// Covering index for the FIFO allocation scan.
		{"fifo allocation index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_stock_batches_fifo') THEN
    CREATE INDEX idx_stock_batches_fifo
        ON stock_batches (product_id, branch_id, received_date)
        WHERE status = 'InStock';
  END IF;
END $$`},
		// Ledger reads are always per customer, newest first.
		{"points ledger index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_points_transactions_customer') THEN
    CREATE INDEX idx_points_transactions_customer
        ON points_transactions (customer_id, created_at DESC);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
