// Package testutil opens throwaway stores for package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bookstore/internal/models"
	pkgdb "github.com/Skotchmaster/bookstore/pkg/db"
)

// PostgresURLEnv names a scratch postgres database for the concurrency tests.
// Its tables are truncated by every test that uses it.
const PostgresURLEnv = "TEST_DATABASE_URL"

// NewDB returns a migrated in-memory database private to the test. A single
// connection keeps every statement on the same memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), pkgdb.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// NewFileDB returns a migrated file-backed sqlite database in WAL mode with
// conns open connections, so transactions from different goroutines overlap.
// Writers wait on the busy timeout instead of failing straight away.
func NewFileDB(t *testing.T, conns int) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bookstore.db")
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)"
	db, err := gorm.Open(sqlite.Open(dsn), pkgdb.GormConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	sqlDB.SetMaxIdleConns(conns)

	require.NoError(t, db.AutoMigrate(models.All()...))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// NewPostgresDB connects to TEST_DATABASE_URL, migrates it and empties every
// table. The test is skipped when the variable is unset.
func NewPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv(PostgresURLEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresURLEnv)
	}

	db, err := pkgdb.Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	require.NoError(t, db.Exec(
		"TRUNCATE users, superusers, books, book_ages, images, cart_items, reviews RESTART IDENTITY CASCADE",
	).Error)

	t.Cleanup(func() {
		_ = pkgdb.Close(db)
	})

	return db
}
