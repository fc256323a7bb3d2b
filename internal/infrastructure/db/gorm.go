package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"subsidy-intake/internal/domain/submission"
	"subsidy-intake/internal/domain/user"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Dialector picks the gorm dialector for driver.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func OpenGorm(driver, dsn string, log *logrus.Logger) (*gorm.DB, error) {
	dial, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := OpenGormWithDialector(dial, gormLogLevel(log))
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// a single writer avoids "database is locked" under concurrent requests
		sqlDB, _ := db.DB()
		sqlDB.SetMaxOpenConns(1)
	}
	log.WithField("driver", driver).Info("gorm: connected")
	return db, nil
}

// OpenGormWithDialector opens, tunes the pool and pings exactly once.
func OpenGormWithDialector(dial gorm.Dialector, level ...logger.LogLevel) (*gorm.DB, error) {
	lvl := logger.Warn
	if len(level) > 0 {
		lvl = level[0]
	}
	cfg := &gorm.Config{
		Logger:               logger.Default.LogMode(lvl),
		TranslateError:       true,
		DisableAutomaticPing: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// PrepareSQLite creates the parent directory of a file-backed database.
func PrepareSQLite(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Migrate creates or extends the schema to the current models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&user.User{}, &submission.Submission{}, &submission.BotEntry{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func gormLogLevel(log *logrus.Logger) logger.LogLevel {
	switch {
	case log == nil:
		return logger.Warn
	case log.IsLevelEnabled(logrus.DebugLevel):
		return logger.Info
	case log.IsLevelEnabled(logrus.WarnLevel):
		return logger.Warn
	default:
		return logger.Error
	}
}
