package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Yili-code/FinMind-Lab/internal/feature/stockgroup/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/feature/stockgroup/usecase"
	platformdb "github.com/Yili-code/FinMind-Lab/internal/platform/db"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
)

type groupGorm struct {
	db *gorm.DB
}

var _ usecase.GroupRepository = (*groupGorm)(nil)

func NewGroupRepository(db *gorm.DB) *groupGorm {
	return &groupGorm{db: db}
}

// GroupModel は stock_groups テーブルの1行です。
type GroupModel struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Name        string  `gorm:"column:group_name;size:100;not null;uniqueIndex"`
	Description *string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (GroupModel) TableName() string {
	return "stock_groups"
}

// GroupMemberModel は stock_group_members テーブルの1行です。グループの削除に連動して削除されます。
type GroupMemberModel struct {
	ID        string      `gorm:"primaryKey;size:36"`
	GroupID   string      `gorm:"size:36;not null;uniqueIndex:member_group_code,priority:1"`
	StockCode string      `gorm:"size:32;not null;uniqueIndex:member_group_code,priority:2;index"`
	Group     *GroupModel `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (GroupMemberModel) TableName() string {
	return "stock_group_members"
}

func toEntity(m GroupModel, count int) entity.Group {
	return entity.Group{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		StockCount:  count,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func (r *groupGorm) Create(ctx context.Context, name string, description *string) (*entity.Group, error) {
	m := GroupModel{ID: uuid.NewString(), Name: name, Description: description}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if platformdb.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: group name %q already exists", apperr.ErrConflict, name)
		}
		return nil, err
	}
	g := toEntity(m, 0)
	return &g, nil
}

// List は全グループを名前の昇順で、所属銘柄数とともに返します。
func (r *groupGorm) List(ctx context.Context) ([]entity.Group, error) {
	db := r.db.WithContext(ctx)
	var models []GroupModel
	if err := db.Order("group_name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	var counts []struct {
		GroupID string
		N       int
	}
	if err := db.Model(&GroupMemberModel{}).Select("group_id, COUNT(*) AS n").Group("group_id").Scan(&counts).Error; err != nil {
		return nil, err
	}
	byGroup := make(map[string]int, len(counts))
	for _, c := range counts {
		byGroup[c.GroupID] = c.N
	}

	out := make([]entity.Group, 0, len(models))
	for _, m := range models {
		out = append(out, toEntity(m, byGroup[m.ID]))
	}
	return out, nil
}

func (r *groupGorm) Get(ctx context.Context, id string) (*entity.Group, error) {
	db := r.db.WithContext(ctx)
	m, err := find(db, id)
	if err != nil {
		return nil, err
	}
	var n int64
	if err := db.Model(&GroupMemberModel{}).Where("group_id = ?", id).Count(&n).Error; err != nil {
		return nil, err
	}
	g := toEntity(*m, int(n))
	return &g, nil
}

func (r *groupGorm) Update(ctx context.Context, id string, name, description *string) (*entity.Group, error) {
	db := r.db.WithContext(ctx)
	m, err := find(db, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if name != nil {
		updates["group_name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}
	if err := db.Model(m).Updates(updates).Error; err != nil {
		if platformdb.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: group name %q already exists", apperr.ErrConflict, *name)
		}
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete はグループと所属銘柄を同一トランザクションで削除します。
func (r *groupGorm) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&GroupMemberModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&GroupModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return groupNotFound(id)
		}
		return nil
	})
}

func (r *groupGorm) AddStock(ctx context.Context, groupID, stockCode string) error {
	db := r.db.WithContext(ctx)
	if _, err := find(db, groupID); err != nil {
		return err
	}
	m := GroupMemberModel{ID: uuid.NewString(), GroupID: groupID, StockCode: stockCode}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "stock_code"}},
		DoNothing: true,
	}).Create(&m).Error
}

func (r *groupGorm) RemoveStock(ctx context.Context, groupID, stockCode string) error {
	res := r.db.WithContext(ctx).
		Where("group_id = ? AND stock_code = ?", groupID, stockCode).
		Delete(&GroupMemberModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s is not in group %s", apperr.ErrNotFound, stockCode, groupID)
	}
	return nil
}

// Stocks はグループの所属銘柄をコードの昇順で返します。
func (r *groupGorm) Stocks(ctx context.Context, groupID string) ([]string, error) {
	db := r.db.WithContext(ctx)
	if _, err := find(db, groupID); err != nil {
		return nil, err
	}
	codes := []string{}
	err := db.Model(&GroupMemberModel{}).
		Where("group_id = ?", groupID).
		Order("stock_code ASC").
		Pluck("stock_code", &codes).Error
	return codes, err
}

func (r *groupGorm) GroupsByStock(ctx context.Context, stockCode string) ([]entity.GroupRef, error) {
	var models []GroupModel
	err := r.db.WithContext(ctx).
		Joins("JOIN stock_group_members m ON m.group_id = stock_groups.id").
		Where("m.stock_code = ?", stockCode).
		Order("stock_groups.group_name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.GroupRef, 0, len(models))
	for _, m := range models {
		out = append(out, entity.GroupRef{ID: m.ID, Name: m.Name, Description: m.Description})
	}
	return out, nil
}

// StocksWithGroups は所属のある全銘柄と、そのグループ名を返します。
func (r *groupGorm) StocksWithGroups(ctx context.Context) ([]entity.StockGroups, error) {
	var rows []struct {
		StockCode string
		GroupName string
	}
	err := r.db.WithContext(ctx).
		Table("stock_group_members AS m").
		Select("m.stock_code, g.group_name").
		Joins("JOIN stock_groups g ON g.id = m.group_id").
		Order("m.stock_code ASC, g.group_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := []entity.StockGroups{}
	for _, row := range rows {
		if n := len(out); n > 0 && out[n-1].StockCode == row.StockCode {
			out[n-1].GroupNames = append(out[n-1].GroupNames, row.GroupName)
			continue
		}
		out = append(out, entity.StockGroups{StockCode: row.StockCode, GroupNames: []string{row.GroupName}})
	}
	return out, nil
}

func find(db *gorm.DB, id string) (*GroupModel, error) {
	var m GroupModel
	err := db.Where("id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, groupNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func groupNotFound(id string) error {
	return fmt.Errorf("%w: stock group %s", apperr.ErrNotFound, id)
}
