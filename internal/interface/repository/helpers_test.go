package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"napo-service/internal/infrastructure/persistence"
	"napo-service/pkg/logger"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "napo.db") + "?_pragma=foreign_keys(1)"
	db, err := persistence.Open(context.Background(), persistence.Options{
		Driver:      persistence.DriverSQLite,
		DSN:         dsn,
		PoolSize:    1,
		PoolRecycle: time.Minute,
		PoolTimeout: 5 * time.Second,
	}, logger.NewNopLogger())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.CreateTables(context.Background(), Models()...); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return db.DB()
}

func ptr[T any](v T) *T { return &v }
