package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	bookingdomain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func NewDB(cfg *config.Config, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Service{},
		&models.User{},
		&models.WorkingHours{},
		&models.AvailabilityOverride{},
		&models.Booking{},
		&models.RecurringBooking{},
		&models.WaitlistEntry{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(slotIndexDDL()).Error; err != nil {
		return nil, fmt.Errorf("create %s: %w", repository.SlotIndexName, err)
	}

	logger.Info().Msg("database ready")
	return db, nil
}

// slotIndexDDL keeps a second blocking booking off an occupied start time
// even when two writers slip past the application lock.
func slotIndexDDL() string {
	released := make([]string, 0, len(bookingdomain.ReleasedStatuses))
	for _, s := range bookingdomain.ReleasedStatuses {
		released = append(released, "'"+s+"'")
	}

	return fmt.Sprintf(
		`CREATE UNIQUE INDEX IF NOT EXISTS %s ON bookings (stylist_id, date, time) WHERE status NOT IN (%s)`,
		repository.SlotIndexName,
		strings.Join(released, ", "),
	)
}
