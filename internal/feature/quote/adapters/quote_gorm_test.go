package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Yili-code/FinMind-Lab/internal/feature/quote/domain/entity"
)

// setupTestDB はテスト用のインメモリSQLiteを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&StockBasicModel{}), "failed to migrate table")
	return db
}

func TestNewQuoteRepository(t *testing.T) {
	db := setupTestDB(t)

	repo := NewQuoteRepository(db)

	assert.NotNil(t, repo)
	assert.NotNil(t, repo.db)
}

func TestQuoteGorm_UpsertOverwritesByStockCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewQuoteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, entity.Quote{StockCode: "2330", StockName: "TSMC", CurrentPrice: 1000}))
	var first StockBasicModel
	require.NoError(t, db.Where("stock_code = ?", "2330").Take(&first).Error)

	require.NoError(t, repo.Upsert(ctx, entity.Quote{StockCode: "2330", StockName: "TSMC", CurrentPrice: 1010, Change: 10}))

	var count int64
	db.Model(&StockBasicModel{}).Count(&count)
	assert.Equal(t, int64(1), count)

	got, err := repo.FindByCode(ctx, "2330")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1010.0, got.CurrentPrice)
	assert.Equal(t, 10.0, got.Change)

	var second StockBasicModel
	require.NoError(t, db.Where("stock_code = ?", "2330").Take(&second).Error)
	assert.Equal(t, first.ID, second.ID, "upsert keeps the existing row id")
}

func TestQuoteGorm_FindByCode_NotFound(t *testing.T) {
	repo := NewQuoteRepository(setupTestDB(t))

	got, err := repo.FindByCode(context.Background(), "9999")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQuoteGorm_List(t *testing.T) {
	repo := NewQuoteRepository(setupTestDB(t))
	ctx := context.Background()

	for _, code := range []string{"2454", "2330", "2317"} {
		require.NoError(t, repo.Upsert(ctx, entity.Quote{StockCode: code, StockName: "n" + code}))
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2317", got[0].StockCode)
	assert.Equal(t, "2454", got[2].StockCode)
}
