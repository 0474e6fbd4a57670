package adapters

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/usecase"
)

// upsertBatchSize は1回の INSERT に含める行数です。
const upsertBatchSize = 500

type dailyTradeGorm struct {
	db *gorm.DB
}

var _ usecase.DailyTradeRepository = (*dailyTradeGorm)(nil)

func NewDailyTradeRepository(db *gorm.DB) *dailyTradeGorm {
	return &dailyTradeGorm{db: db}
}

// EstimateColumns は推計値の列です。DailyTradeModel に est_ 接頭辞で埋め込みます。
type EstimateColumns struct {
	InnerVolume     int64 `gorm:"not null;default:0"`
	OuterVolume     int64 `gorm:"not null;default:0"`
	ForeignInvestor int64 `gorm:"not null;default:0"`
	InvestmentTrust int64 `gorm:"not null;default:0"`
	Dealer          int64 `gorm:"not null;default:0"`
	Chips           int64 `gorm:"not null;default:0"`
	MainBuy         int64 `gorm:"not null;default:0"`
	MainSell        int64 `gorm:"not null;default:0"`
}

// DailyTradeModel は daily_trades テーブルの1行です。(stock_code, date) で一意です。
type DailyTradeModel struct {
	ID            string `gorm:"primaryKey;size:36"`
	StockCode     string `gorm:"size:32;not null;uniqueIndex:daily_code_date,priority:1"`
	Date          string `gorm:"size:10;not null;uniqueIndex:daily_code_date,priority:2"`
	StockName     string `gorm:"size:255"`
	ClosePrice    float64
	AvgPrice      float64
	PrevClose     float64
	OpenPrice     float64
	HighPrice     float64
	LowPrice      float64
	Change        float64
	ChangePercent float64
	TotalVolume   int64
	PrevVolume    int64
	MonthHigh     float64
	MonthLow      float64
	QuarterHigh   float64
	QuarterLow    float64

	Estimates EstimateColumns `gorm:"embedded;embeddedPrefix:est_"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DailyTradeModel) TableName() string {
	return "daily_trades"
}

// updateColumns は競合時に上書きする列です。id と created_at は保持します。
var updateColumns = []string{
	"stock_name", "close_price", "avg_price", "prev_close", "open_price", "high_price", "low_price",
	"change", "change_percent", "total_volume", "prev_volume",
	"month_high", "month_low", "quarter_high", "quarter_low",
	"est_inner_volume", "est_outer_volume", "est_foreign_investor", "est_investment_trust",
	"est_dealer", "est_chips", "est_main_buy", "est_main_sell",
	"updated_at",
}

func toModel(b entity.DailyBar) DailyTradeModel {
	e := b.Estimates
	return DailyTradeModel{
		ID:            uuid.NewString(),
		StockCode:     b.StockCode,
		Date:          b.Date,
		StockName:     b.StockName,
		ClosePrice:    b.ClosePrice,
		AvgPrice:      b.AvgPrice,
		PrevClose:     b.PrevClose,
		OpenPrice:     b.OpenPrice,
		HighPrice:     b.HighPrice,
		LowPrice:      b.LowPrice,
		Change:        b.Change,
		ChangePercent: b.ChangePercent,
		TotalVolume:   b.TotalVolume,
		PrevVolume:    b.PrevVolume,
		MonthHigh:     b.MonthHigh,
		MonthLow:      b.MonthLow,
		QuarterHigh:   b.QuarterHigh,
		QuarterLow:    b.QuarterLow,
		Estimates: EstimateColumns{
			InnerVolume:     e.InnerVolume,
			OuterVolume:     e.OuterVolume,
			ForeignInvestor: e.ForeignInvestor,
			InvestmentTrust: e.InvestmentTrust,
			Dealer:          e.Dealer,
			Chips:           e.Chips,
			MainBuy:         e.MainBuy,
			MainSell:        e.MainSell,
		},
	}
}

func toEntity(m DailyTradeModel) entity.DailyBar {
	e := m.Estimates
	return entity.DailyBar{
		StockCode:     m.StockCode,
		StockName:     m.StockName,
		Date:          m.Date,
		ClosePrice:    m.ClosePrice,
		AvgPrice:      m.AvgPrice,
		PrevClose:     m.PrevClose,
		OpenPrice:     m.OpenPrice,
		HighPrice:     m.HighPrice,
		LowPrice:      m.LowPrice,
		Change:        m.Change,
		ChangePercent: m.ChangePercent,
		TotalVolume:   m.TotalVolume,
		PrevVolume:    m.PrevVolume,
		MonthHigh:     m.MonthHigh,
		MonthLow:      m.MonthLow,
		QuarterHigh:   m.QuarterHigh,
		QuarterLow:    m.QuarterLow,
		Estimates: entity.Estimates{
			InnerVolume:     e.InnerVolume,
			OuterVolume:     e.OuterVolume,
			ForeignInvestor: e.ForeignInvestor,
			InvestmentTrust: e.InvestmentTrust,
			Dealer:          e.Dealer,
			Chips:           e.Chips,
			MainBuy:         e.MainBuy,
			MainSell:        e.MainSell,
		},
	}
}

// UpsertBatch は (stock_code, date) が既にあれば上書きし、なければ挿入します。
func (r *dailyTradeGorm) UpsertBatch(ctx context.Context, bars []entity.DailyBar) error {
	if len(bars) == 0 {
		return nil
	}
	ms := make([]DailyTradeModel, 0, len(bars))
	for _, b := range bars {
		ms = append(ms, toModel(b))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_code"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns(updateColumns),
	}).CreateInBatches(&ms, upsertBatchSize).Error
}

// Recent は直近 limit 件を日付の昇順で返します。
func (r *dailyTradeGorm) Recent(ctx context.Context, stockCode string, limit int) ([]entity.DailyBar, error) {
	var rows []DailyTradeModel
	q := r.db.WithContext(ctx).
		Where("stock_code = ?", stockCode).
		Order("date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.DailyBar, len(rows))
	for i, m := range rows {
		out[len(rows)-1-i] = toEntity(m)
	}
	return out, nil
}
