package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Yili-code/FinMind-Lab/internal/feature/bom/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/feature/bom/usecase"
	quoteadapters "github.com/Yili-code/FinMind-Lab/internal/feature/quote/adapters"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
)

type bomGorm struct {
	db *gorm.DB
}

var _ usecase.BOMRepository = (*bomGorm)(nil)

func NewBOMRepository(db *gorm.DB) *bomGorm {
	return &bomGorm{db: db}
}

// BOMModel は stock_bom テーブルの1行です。(parent_stock_code, child_stock_code) で一意です。
// 親子とも stock_basics.stock_code を参照し、銘柄の削除に追従して消えます。
type BOMModel struct {
	ID              string  `gorm:"primaryKey;size:36"`
	ParentStockCode string  `gorm:"size:32;not null;uniqueIndex:bom_parent_child,priority:1"`
	ChildStockCode  string  `gorm:"size:32;not null;uniqueIndex:bom_parent_child,priority:2;index"`
	Quantity        float64 `gorm:"not null;default:1"`
	Weight          *float64
	Unit            *string `gorm:"size:32"`
	Notes           *string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Parent *quoteadapters.StockBasicModel `gorm:"foreignKey:ParentStockCode;references:StockCode;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Child  *quoteadapters.StockBasicModel `gorm:"foreignKey:ChildStockCode;references:StockCode;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (BOMModel) TableName() string {
	return "stock_bom"
}

// edgeRow は stock_basics と結合した1行です。
type edgeRow struct {
	ID              string
	ParentStockCode string
	ParentStockName *string
	ChildStockCode  string
	ChildStockName  *string
	Quantity        float64
	Weight          *float64
	Unit            *string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r edgeRow) toEntity() entity.Edge {
	return entity.Edge{
		ID:              r.ID,
		ParentStockCode: r.ParentStockCode,
		ParentStockName: r.ParentStockName,
		ChildStockCode:  r.ChildStockCode,
		ChildStockName:  r.ChildStockName,
		Quantity:        r.Quantity,
		Weight:          r.Weight,
		Unit:            r.Unit,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}

func (r *bomGorm) StockName(ctx context.Context, stockCode string) (string, bool, error) {
	var row struct{ StockName string }
	err := r.db.WithContext(ctx).
		Table("stock_basics").
		Select("stock_name").
		Where("stock_code = ?", stockCode).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.StockName, true, nil
}

func (r *bomGorm) Children(ctx context.Context, parent string) ([]entity.Edge, error) {
	return r.edges(ctx, "b.parent_stock_code = ?", []any{parent}, "b.child_stock_code ASC")
}

func (r *bomGorm) Parents(ctx context.Context, child string) ([]entity.Edge, error) {
	return r.edges(ctx, "b.child_stock_code = ?", []any{child}, "b.parent_stock_code ASC")
}

func (r *bomGorm) edges(ctx context.Context, where string, args []any, order string) ([]entity.Edge, error) {
	var rows []edgeRow
	err := r.db.WithContext(ctx).
		Table("stock_bom AS b").
		Select("b.*, p.stock_name AS parent_stock_name, c.stock_name AS child_stock_name").
		Joins("LEFT JOIN stock_basics p ON p.stock_code = b.parent_stock_code").
		Joins("LEFT JOIN stock_basics c ON c.stock_code = b.child_stock_code").
		Where(where, args...).
		Order(order).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.Edge, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *bomGorm) Upsert(ctx context.Context, e entity.Edge) (*entity.Edge, error) {
	m := BOMModel{
		ID:              uuid.NewString(),
		ParentStockCode: e.ParentStockCode,
		ChildStockCode:  e.ChildStockCode,
		Quantity:        e.Quantity,
		Weight:          e.Weight,
		Unit:            e.Unit,
		Notes:           e.Notes,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "parent_stock_code"}, {Name: "child_stock_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "weight", "unit", "notes", "updated_at"}),
	}).Create(&m).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return nil, fmt.Errorf("%w: stock %s or %s is not registered", apperr.ErrNotFound, e.ParentStockCode, e.ChildStockCode)
	}
	if err != nil {
		return nil, err
	}
	return r.find(ctx, e.ParentStockCode, e.ChildStockCode)
}

func (r *bomGorm) Update(ctx context.Context, parent, child string, p entity.EdgePatch) (*entity.Edge, error) {
	updates := map[string]any{}
	if p.Quantity != nil {
		updates["quantity"] = *p.Quantity
	}
	if p.Weight != nil {
		updates["weight"] = *p.Weight
	}
	if p.Unit != nil {
		updates["unit"] = *p.Unit
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	res := r.db.WithContext(ctx).
		Model(&BOMModel{}).
		Where("parent_stock_code = ? AND child_stock_code = ?", parent, child).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, edgeNotFound(parent, child)
	}
	return r.find(ctx, parent, child)
}

func (r *bomGorm) Delete(ctx context.Context, parent, child string) error {
	res := r.db.WithContext(ctx).
		Where("parent_stock_code = ? AND child_stock_code = ?", parent, child).
		Delete(&BOMModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return edgeNotFound(parent, child)
	}
	return nil
}

func (r *bomGorm) find(ctx context.Context, parent, child string) (*entity.Edge, error) {
	edges, err := r.edges(ctx, "b.parent_stock_code = ? AND b.child_stock_code = ?", []any{parent, child}, "b.id ASC")
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, edgeNotFound(parent, child)
	}
	return &edges[0], nil
}

func edgeNotFound(parent, child string) error {
	return fmt.Errorf("%w: bom edge %s -> %s", apperr.ErrNotFound, parent, child)
}
