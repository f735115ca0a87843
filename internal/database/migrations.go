package database

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/rmitchellscott/bannermaster/internal/logging"
)

// RunMigrations runs any pending database migrations using gormigrate
func RunMigrations(db *gorm.DB) error {
	logging.DebugWithComponent(logging.ComponentDatabase, "Running database migrations")

	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202510180000_create_banner_records",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(GetAllModels()...)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("banner_records")
			},
		},
		{
			ID: "202510180001_index_banner_records_created_at",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_banner_records_created_at ON banner_records (created_at)").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec("DROP INDEX IF EXISTS idx_banner_records_created_at").Error
			},
		},
	})

	if err := m.Migrate(); err != nil {
		return err
	}

	logging.DebugWithComponent(logging.ComponentDatabase, "Database migrations completed")
	return nil
}
