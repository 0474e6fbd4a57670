package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Yili-code/FinMind-Lab/internal/feature/quote/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/feature/quote/usecase"
)

type quoteGorm struct {
	db *gorm.DB
}

var _ usecase.QuoteRepository = (*quoteGorm)(nil)

func NewQuoteRepository(db *gorm.DB) *quoteGorm {
	return &quoteGorm{db: db}
}

// StockBasicModel は stock_basics テーブルの1行です。stock_code で一意です。
type StockBasicModel struct {
	ID            string  `gorm:"primaryKey;size:36"`
	StockCode     string  `gorm:"size:32;not null;uniqueIndex"`
	StockName     string  `gorm:"size:255;not null"`
	CurrentPrice  float64 `gorm:"not null;default:0"`
	PreviousClose float64 `gorm:"not null;default:0"`
	MarketCap     int64   `gorm:"not null;default:0"`
	Volume        int64   `gorm:"not null;default:0"`
	AverageVolume int64   `gorm:"not null;default:0"`
	PERatio       float64 `gorm:"column:pe_ratio;not null;default:0"`
	DividendYield float64 `gorm:"not null;default:0"`
	High52Week    float64 `gorm:"column:high_52_week;not null;default:0"`
	Low52Week     float64 `gorm:"column:low_52_week;not null;default:0"`
	OpenPrice     float64 `gorm:"not null;default:0"`
	HighPrice     float64 `gorm:"not null;default:0"`
	LowPrice      float64 `gorm:"not null;default:0"`
	Change        float64 `gorm:"not null;default:0"`
	ChangePercent float64 `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (StockBasicModel) TableName() string {
	return "stock_basics"
}

func toModel(q entity.Quote) StockBasicModel {
	return StockBasicModel{
		ID:            uuid.NewString(),
		StockCode:     q.StockCode,
		StockName:     q.StockName,
		CurrentPrice:  q.CurrentPrice,
		PreviousClose: q.PreviousClose,
		MarketCap:     q.MarketCap,
		Volume:        q.Volume,
		AverageVolume: q.AverageVolume,
		PERatio:       q.PERatio,
		DividendYield: q.DividendYield,
		High52Week:    q.High52Week,
		Low52Week:     q.Low52Week,
		OpenPrice:     q.Open,
		HighPrice:     q.High,
		LowPrice:      q.Low,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
	}
}

func toEntity(m StockBasicModel) entity.Quote {
	return entity.Quote{
		StockCode:     m.StockCode,
		StockName:     m.StockName,
		CurrentPrice:  m.CurrentPrice,
		PreviousClose: m.PreviousClose,
		MarketCap:     m.MarketCap,
		Volume:        m.Volume,
		AverageVolume: m.AverageVolume,
		PERatio:       m.PERatio,
		DividendYield: m.DividendYield,
		High52Week:    m.High52Week,
		Low52Week:     m.Low52Week,
		Open:          m.OpenPrice,
		High:          m.HighPrice,
		Low:           m.LowPrice,
		Change:        m.Change,
		ChangePercent: m.ChangePercent,
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

// Upsert は stock_code が既にあれば上書きし、なければ新しいIDで挿入します。
func (r *quoteGorm) Upsert(ctx context.Context, q entity.Quote) error {
	m := toModel(q)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stock_code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stock_name", "current_price", "previous_close", "market_cap", "volume", "average_volume",
			"pe_ratio", "dividend_yield", "high_52_week", "low_52_week",
			"open_price", "high_price", "low_price", "change", "change_percent", "updated_at",
		}),
	}).Create(&m).Error
}

func (r *quoteGorm) FindByCode(ctx context.Context, stockCode string) (*entity.Quote, error) {
	var m StockBasicModel
	err := r.db.WithContext(ctx).Where("stock_code = ?", stockCode).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	q := toEntity(m)
	return &q, nil
}

// List は全件を stock_code の昇順で返します。
func (r *quoteGorm) List(ctx context.Context) ([]entity.Quote, error) {
	var rows []StockBasicModel
	if err := r.db.WithContext(ctx).Order("stock_code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Quote, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
