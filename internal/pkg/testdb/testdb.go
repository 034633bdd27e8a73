// Package testdb 为单元测试提供迁移好的内存 SQLite 数据库.
package testdb

import (
	"context"
	_ "embed"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tcms/internal/pkg/config"
	"tcms/internal/pkg/database"
	"tcms/internal/pkg/fixtures"
)

//go:embed seed.yaml
var seedYAML []byte

// New 打开一个独立的内存库并完成迁移, 测试结束时关闭
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{
		Driver:   "sqlite",
		Database: ":memory:",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Seeded 打开新库并导入公共种子数据
func Seeded(t testing.TB) (*gorm.DB, *fixtures.Seeded) {
	t.Helper()

	db := New(t)
	f, err := fixtures.Parse(seedYAML)
	require.NoError(t, err)
	seeded, err := fixtures.Apply(context.Background(), db, f)
	require.NoError(t, err)
	return db, seeded
}
