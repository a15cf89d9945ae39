// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"budgetin/internal/db"
	"budgetin/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database with the schema migrated.
// A single connection is kept so every query sees the same database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("budgetin_test_%d", dbSeq.Add(1))
	dsn := "file:" + name + "?mode=memory&cache=shared&_foreign_keys=on"
	gdb, err := db.OpenDialector(sqlite.Open(dsn), gormlogger.Silent)
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// CreateUser inserts a provider-backed user directly.
func CreateUser(t testing.TB, gdb *gorm.DB, uid, email string) *domain.User {
	t.Helper()
	u := &domain.User{FirebaseUID: &uid, Name: uid, Email: email}
	require.NoError(t, gdb.Create(u).Error)
	return u
}
