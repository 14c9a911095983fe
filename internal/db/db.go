package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/slotwise/scheduler-api/internal/config"
	"github.com/slotwise/scheduler-api/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("failed to get sql.DB", zap.Error(err))
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Business{},
		&models.User{},
		&models.Staff{},
		&models.Service{},
		&models.ShiftTemplate{},
		&models.TimeOffPeriod{},
		&models.AvailabilityOverride{},
		&models.Client{},
		&models.Booking{},
		&models.Notification{},
	); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	migrateConstraints(db, log)

	return db
}

// migrateConstraints installs the invariants the application-level checks
// only approximate under concurrency: no two active bookings may overlap
// for one staff member, and a client holds at most one active booking per
// service. The repository maps the resulting SQLSTATEs to typed errors.
func migrateConstraints(db *gorm.DB, log *zap.Logger) {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,

		`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_staff_no_overlap`,
		`ALTER TABLE bookings ADD CONSTRAINT bookings_staff_no_overlap
			EXCLUDE USING gist (
				staff_id WITH =,
				tsrange(start_time, end_time) WITH &&
			)
			WHERE (status IN ('pending', 'confirmed') AND staff_id IS NOT NULL)`,

		`DROP INDEX IF EXISTS idx_bookings_active_client_service`,
		`CREATE UNIQUE INDEX idx_bookings_active_client_service
			ON bookings (service_id, lower(client_email))
			WHERE status IN ('pending', 'confirmed') AND client_email <> ''`,
	}

	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			log.Fatal("failed to install storage constraint",
				zap.String("stmt", stmt),
				zap.Error(err),
			)
		}
	}
}
