package database

import (
	"log"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tekkenfreya/gowater-hr-management-system-sub000/config"
	"github.com/tekkenfreya/gowater-hr-management-system-sub000/models"
)

// Connect opens the postgres pool; callers decide whether a failure is fatal.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Info
	if cfg.IsProduction() {
		level = logger.Warn
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "database handle")
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Models is the full schema, in dependency order.
var Models = []any{
	&models.User{},
	&models.Attendance{},
	&models.LeaveRequest{},
	&models.Notification{},
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	log.Printf("[migrate] %d tables up to date", len(Models))
	return nil
}
