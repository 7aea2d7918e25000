// Package testdb opens throwaway SQLite databases carrying the full schema,
// for repository and handler tests.
package testdb

import (
	"fmt"

	"github.com/frahmantamala/budgetwise/internal/core/datamodel"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns an in-memory database with every table migrated. A single
// connection keeps all statements on the same in-memory database.
func Open() (*gorm.DB, error) {
	return open(":memory:", 1)
}

// OpenFile returns a WAL-mode database at path that allows conns concurrent
// connections. Transactions take the write lock on BEGIN and wait for it.
func OpenFile(path string, conns int) (*gorm.DB, error) {
	return open(path+"?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate", conns)
}

func open(dsn string, conns int) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(conns)

	if err := db.AutoMigrate(datamodel.All()...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// MustOpen panics when Open fails.
func MustOpen() *gorm.DB {
	db, err := Open()
	if err != nil {
		panic(err)
	}
	return db
}
