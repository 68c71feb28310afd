// Package database owns the process-wide SQLite connection backing the
// board. One operator, one writer: a single shared handle is all the
// server needs.
package database

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the board database at the given path.
func Connect(dsn string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(dsn+"?_busy_timeout=5000"), &gorm.Config{})
	if err != nil {
		return err
	}
	return nil
}

// GetDB returns the database instance.
func GetDB() *gorm.DB {
	return DB
}
