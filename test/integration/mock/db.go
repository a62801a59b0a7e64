// Package mock provides in-process doubles for the external services the
// integration suite talks to.
package mock

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbOnce sync.Once
var archive *Db

// Db wraps the shared in-memory sqlite archive used by every scenario.
type Db struct {
	DbConn *gorm.DB
	models []any
}

// NewDb opens the shared archive connection and migrates the given models.
// The connection is a suite-wide singleton; scenarios call ClearDB to start
// from an empty archive.
func NewDb(models ...any) *Db {
	dbOnce.Do(func() {
		archive = open(models)
	})
	return archive
}

func open(models []any) *Db {
	// A single pooled connection keeps the shared in-memory database alive
	// for the whole suite.
	conn, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}
	conn.SetMaxOpenConns(1)

	gormDB, err := gorm.Open(sqlite.Dialector{Conn: conn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to open archive database: " + err.Error())
	}

	if err := gormDB.AutoMigrate(models...); err != nil {
		panic(fmt.Sprintf("failed to migrate archive models: %v", err))
	}

	return &Db{
		DbConn: gormDB,
		models: models,
	}
}

// ClearDB wipes every migrated table between scenarios.
func (d *Db) ClearDB() error {
	for _, m := range d.models {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error
		if err != nil {
			return fmt.Errorf("failed to clear table for %T: %w", m, err)
		}
	}
	return nil
}
