package gormrepo

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"subsidy-intake/internal/domain/submission"
	dbinfra "subsidy-intake/internal/infrastructure/db"
)

// openTestDB creates an in-memory sqlite DB with the production schema.
// One connection only: every sqlite :memory: connection is its own database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := dbinfra.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func makeSubmission(uid string, bots ...string) *submission.Submission {
	s := &submission.Submission{
		ExternalUID:  uid,
		Level:        "S2",
		MissedAmount: decimal.NewNullDecimal(decimal.RequireFromString("12.50")),
	}
	for i, b := range bots {
		s.BotEntries = append(s.BotEntries, submission.BotEntry{
			BotName: b,
			Amount:  decimal.NewFromInt(int64(i + 1)).Mul(decimal.NewFromInt(10)),
		})
	}
	return s
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
