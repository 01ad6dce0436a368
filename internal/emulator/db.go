// Package emulator is a local stand-in for the hosted backend: the same
// REST table contract, auth endpoint, and object store the client consumes
// in production, served from a single SQLite file. It exists for development
// and tests; the hosted service's real schema and policies stay external.
package emulator

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func OpenSQLite(dbPath string) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", dbPath)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := database.AutoMigrate(&User{}, &LogRow{}, &InjuryRow{}, &PreferenceRow{}, &ObjectRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return database, nil
}

// OpenMemory opens a throwaway in-memory database for tests. The pool is
// pinned to a single connection because every sqlite connection gets its own
// private :memory: database.
func OpenMemory() (*gorm.DB, error) {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	pool, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	pool.SetMaxOpenConns(1)
	if err := database.AutoMigrate(&User{}, &LogRow{}, &InjuryRow{}, &PreferenceRow{}, &ObjectRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return database, nil
}
