package testhelpers

import (
	"fmt"
	"regexp"
	"testing"

	"mudskip/leaderboard/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	openSQLite = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	}
	migrateSchema = func(db *gorm.DB) error { return db.AutoMigrate(models.All()...) }
	dropTableFn   = func(db *gorm.DB, table any) error { return db.Migrator().DropTable(table) }

	unsafeDSNChars = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// SetupTestDB creates an isolated in-memory SQLite database for tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", unsafeDSNChars.ReplaceAllString(t.Name(), "_"))
	db, err := openSQLite(dsn)
	if err != nil {
		panic(fmt.Sprintf("failed to open test database: %v", err))
	}
	// one connection keeps the shared-cache database free of table locks
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { sqlDB.Close() })
	}
	if err := migrateSchema(db); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}
	return db
}

// DropUserTable removes the users table to force repository errors.
func DropUserTable(t *testing.T, db *gorm.DB) {
	t.Helper()
	DropTable(t, db, &models.User{})
}

// DropTable removes the table backing model to force repository errors.
func DropTable(t *testing.T, db *gorm.DB, model any) {
	t.Helper()
	if err := dropTableFn(db, model); err != nil {
		panic(fmt.Sprintf("failed to drop table: %v", err))
	}
}
