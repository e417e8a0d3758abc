// Package dbtest はテスト用のsqlite（メモリ）DBを用意する。
package dbtest

import (
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open はテストごとに別のメモリDBを作り、マイグレーション済みで返す。
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

// SeedCategory はカテゴリを1件作る
func SeedCategory(t *testing.T, gormDB *gorm.DB, name, slug string) model.Category {
	t.Helper()

	c := model.Category{Name: name, Slug: slug}
	require.NoError(t, gormDB.Create(&c).Error)
	return c
}

// SeedProduct は在庫ありの商品を1件作る
func SeedProduct(t *testing.T, gormDB *gorm.DB, categoryID int64, slug, price string) model.Product {
	t.Helper()

	p := model.Product{
		CategoryID: categoryID,
		Title:      slug,
		Slug:       slug,
		Image:      slug + ".png",
		Size:       "M",
		Price:      decimal.RequireFromString(price),
		InStock:    true,
	}
	require.NoError(t, gormDB.Create(&p).Error)
	return p
}

// SeedCustomer はuser_idに対応する購入者を作る
func SeedCustomer(t *testing.T, gormDB *gorm.DB, userID int64) model.Customer {
	t.Helper()

	c := model.Customer{UserID: userID, Phone: "+10000000000", Address: "1 Main St"}
	require.NoError(t, gormDB.Omit("Orders").Create(&c).Error)
	return c
}
