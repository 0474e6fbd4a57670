package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
)

// setupTestDB は外部キーを有効にしたインメモリSQLiteを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&GroupModel{}, &GroupMemberModel{}), "failed to migrate tables")
	return db
}

func ptr(s string) *string { return &s }

func TestGroupGorm_CreateAndDuplicateName(t *testing.T) {
	repo := NewGroupRepository(setupTestDB(t))
	ctx := context.Background()

	g, err := repo.Create(ctx, "Semiconductors", ptr("foundry and design"))
	require.NoError(t, err)
	assert.Len(t, g.ID, 36)
	assert.Equal(t, 0, g.StockCount)

	_, err = repo.Create(ctx, "Semiconductors", nil)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestGroupGorm_ListWithCounts(t *testing.T) {
	repo := NewGroupRepository(setupTestDB(t))
	ctx := context.Background()

	b, err := repo.Create(ctx, "B", nil)
	require.NoError(t, err)
	a, err := repo.Create(ctx, "A", nil)
	require.NoError(t, err)
	require.NoError(t, repo.AddStock(ctx, b.ID, "2330"))
	require.NoError(t, repo.AddStock(ctx, b.ID, "2317"))
	require.NoError(t, repo.AddStock(ctx, a.ID, "2330"))

	groups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0].Name)
	assert.Equal(t, 1, groups[0].StockCount)
	assert.Equal(t, "B", groups[1].Name)
	assert.Equal(t, 2, groups[1].StockCount)

	got, err := repo.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StockCount)
}

func TestGroupGorm_Update(t *testing.T) {
	repo := NewGroupRepository(setupTestDB(t))
	ctx := context.Background()

	g, err := repo.Create(ctx, "Old", nil)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "Taken", nil)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, g.ID, ptr("New"), ptr("desc"))
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "desc", *updated.Description)

	_, err = repo.Update(ctx, g.ID, ptr("Taken"), nil)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = repo.Update(ctx, "00000000-0000-0000-0000-000000000000", ptr("X"), nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGroupGorm_Membership(t *testing.T) {
	repo := NewGroupRepository(setupTestDB(t))
	ctx := context.Background()

	g, err := repo.Create(ctx, "Tech", nil)
	require.NoError(t, err)

	require.NoError(t, repo.AddStock(ctx, g.ID, "2454"))
	require.NoError(t, repo.AddStock(ctx, g.ID, "2330"))
	require.NoError(t, repo.AddStock(ctx, g.ID, "2330"), "adding twice is idempotent")

	codes, err := repo.Stocks(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2330", "2454"}, codes)

	require.NoError(t, repo.RemoveStock(ctx, g.ID, "2454"))
	assert.ErrorIs(t, repo.RemoveStock(ctx, g.ID, "2454"), apperr.ErrNotFound)

	assert.ErrorIs(t, repo.AddStock(ctx, "missing", "2330"), apperr.ErrNotFound)
	_, err = repo.Stocks(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGroupGorm_TickerViews(t *testing.T) {
	repo := NewGroupRepository(setupTestDB(t))
	ctx := context.Background()

	tech, err := repo.Create(ctx, "Tech", nil)
	require.NoError(t, err)
	apple, err := repo.Create(ctx, "Apple suppliers", ptr("iPhone chain"))
	require.NoError(t, err)
	require.NoError(t, repo.AddStock(ctx, tech.ID, "2330"))
	require.NoError(t, repo.AddStock(ctx, apple.ID, "2330"))
	require.NoError(t, repo.AddStock(ctx, apple.ID, "2317"))

	refs, err := repo.GroupsByStock(ctx, "2330")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "Apple suppliers", refs[0].Name)
	assert.Equal(t, "Tech", refs[1].Name)

	none, err := repo.GroupsByStock(ctx, "9999")
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := repo.StocksWithGroups(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2317", all[0].StockCode)
	assert.Equal(t, []string{"Apple suppliers"}, all[0].GroupNames)
	assert.Equal(t, "2330", all[1].StockCode)
	assert.Equal(t, []string{"Apple suppliers", "Tech"}, all[1].GroupNames)
}

func TestGroupGorm_DeleteRemovesMembers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	g, err := repo.Create(ctx, "Tech", nil)
	require.NoError(t, err)
	require.NoError(t, repo.AddStock(ctx, g.ID, "2330"))

	require.NoError(t, repo.Delete(ctx, g.ID))

	var n int64
	db.Model(&GroupMemberModel{}).Count(&n)
	assert.Equal(t, int64(0), n)
	assert.ErrorIs(t, repo.Delete(ctx, g.ID), apperr.ErrNotFound)
}

func TestGroupGorm_ForeignKeyCascade(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	g, err := repo.Create(ctx, "Tech", nil)
	require.NoError(t, err)
	require.NoError(t, repo.AddStock(ctx, g.ID, "2330"))

	// 所属銘柄を明示的に消さずにグループだけを削除する
	require.NoError(t, db.Where("id = ?", g.ID).Delete(&GroupModel{}).Error)

	var n int64
	db.Model(&GroupMemberModel{}).Count(&n)
	assert.Equal(t, int64(0), n)
}
