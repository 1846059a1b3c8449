package infra

import (
	"fmt"

	"gravoplus/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (sequences, partial indexes, check constraints).
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

// RunMigrations applies the full schema: AutoMigrate plus SQL patches. Also
// used by integration tests against a disposable database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Employee{},
		&model.Client{},
		&model.Machine{},
		&model.Material{},
		&model.FixedService{},
		&model.Devis{},
		&model.DevisLine{},
		&model.DevisServiceItem{},
		&model.Invoice{},
		&model.Payment{},
		&model.ExpenseCategory{},
		&model.Expense{},
		&model.FinancialClosure{},
		&model.Notification{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS / existence-guard semantics so re-running
// on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// gen_random_uuid() needs pgcrypto on PostgreSQL < 13
		{"enable pgcrypto",
			`CREATE EXTENSION IF NOT EXISTS pgcrypto`},

		// Reference counters for devis (DEV-YYYY-NNNN) and invoices (FAC-YYYY-NNNN)
		{"create devis reference sequence",
			`CREATE SEQUENCE IF NOT EXISTS devis_reference_seq START 1`},
		{"create invoice reference sequence",
			`CREATE SEQUENCE IF NOT EXISTS invoice_reference_seq START 1`},

		// A payment points to exactly one of invoice/devis
		{"payment target check constraint", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_payments_single_target') THEN
    ALTER TABLE payments ADD CONSTRAINT chk_payments_single_target
      CHECK ((invoice_id IS NULL) <> (devis_id IS NULL));
  END IF;
END $$`},

		// A fixed service attaches to a devis at most once; the service toggle
		// enforces this, the index is the backstop
		{"unique devis service item", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uq_devis_service_items_devis_service') THEN
    CREATE UNIQUE INDEX uq_devis_service_items_devis_service
        ON devis_service_items (devis_id, service_id);
  END IF;
END $$`},

		// Partial index for the dashboard "unread" badge query
		{"unread notifications partial index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_notifications_unread') THEN
    CREATE INDEX idx_notifications_unread
        ON notifications (created_at)
        WHERE is_read = false;
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
