package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Yili-code/FinMind-Lab/internal/feature/financial/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/feature/financial/usecase"
)

type statementGorm struct {
	db *gorm.DB
}

var _ usecase.StatementRepository = (*statementGorm)(nil)

func NewStatementRepository(db *gorm.DB) *statementGorm {
	return &statementGorm{db: db}
}

// IncomeStatementModel は income_statements テーブルの1行です。(stock_code, period) で一意です。
type IncomeStatementModel struct {
	ID                     string `gorm:"primaryKey;size:36"`
	StockCode              string `gorm:"size:32;not null;uniqueIndex:income_code_period,priority:1"`
	StockName              string `gorm:"size:255"`
	Period                 string `gorm:"size:16;not null;uniqueIndex:income_code_period,priority:2"`
	Revenue                float64
	GrossProfit            float64
	GrossProfitRatio       float64
	OperatingExpenses      float64
	OperatingExpensesRatio float64
	OperatingIncome        float64
	OperatingIncomeRatio   float64
	NetIncome              float64
	OtherIncome            float64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (IncomeStatementModel) TableName() string {
	return "income_statements"
}

// BalanceSheetModel は balance_sheets テーブルの1行です。
type BalanceSheetModel struct {
	ID                      string `gorm:"primaryKey;size:36"`
	StockCode               string `gorm:"size:32;not null;uniqueIndex:balance_code_period,priority:1"`
	StockName               string `gorm:"size:255"`
	Period                  string `gorm:"size:16;not null;uniqueIndex:balance_code_period,priority:2"`
	TotalAssets             float64
	TotalAssetsRatio        float64
	ShareholdersEquity      float64
	ShareholdersEquityRatio float64
	CurrentAssets           float64
	CurrentAssetsRatio      float64
	CurrentLiabilities      float64
	CurrentLiabilitiesRatio float64
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (BalanceSheetModel) TableName() string {
	return "balance_sheets"
}

// CashFlowModel は cash_flows テーブルの1行です。
type CashFlowModel struct {
	ID                     string `gorm:"primaryKey;size:36"`
	StockCode              string `gorm:"size:32;not null;uniqueIndex:cashflow_code_period,priority:1"`
	StockName              string `gorm:"size:255"`
	Period                 string `gorm:"size:16;not null;uniqueIndex:cashflow_code_period,priority:2"`
	OperatingCashFlow      float64
	InvestingCashFlow      float64
	InvestingCashFlowRatio float64
	FinancingCashFlow      float64
	FinancingCashFlowRatio float64
	FreeCashFlow           float64
	FreeCashFlowRatio      float64
	NetCashFlow            float64
	NetCashFlowRatio       float64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (CashFlowModel) TableName() string {
	return "cash_flows"
}

// 上書き対象の列。id と created_at は既存行の値を保ちます。
var (
	incomeColumns = []string{
		"stock_name", "revenue", "gross_profit", "gross_profit_ratio", "operating_expenses",
		"operating_expenses_ratio", "operating_income", "operating_income_ratio", "net_income",
		"other_income", "updated_at",
	}
	balanceColumns = []string{
		"stock_name", "total_assets", "total_assets_ratio", "shareholders_equity",
		"shareholders_equity_ratio", "current_assets", "current_assets_ratio",
		"current_liabilities", "current_liabilities_ratio", "updated_at",
	}
	cashFlowColumns = []string{
		"stock_name", "operating_cash_flow", "investing_cash_flow", "investing_cash_flow_ratio",
		"financing_cash_flow", "financing_cash_flow_ratio", "free_cash_flow", "free_cash_flow_ratio",
		"net_cash_flow", "net_cash_flow_ratio", "updated_at",
	}
)

// upsert は (stock_code, period) が既にあれば columns を上書きし、なければ挿入します。
func upsert(db *gorm.DB, row any, columns []string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stock_code"}, {Name: "period"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(row).Error
}

func (r *statementGorm) UpsertIncome(ctx context.Context, s entity.IncomeStatement) error {
	m := IncomeStatementModel{
		ID:                     uuid.NewString(),
		StockCode:              s.StockCode,
		StockName:              s.StockName,
		Period:                 s.Period,
		Revenue:                s.Revenue,
		GrossProfit:            s.GrossProfit,
		GrossProfitRatio:       s.GrossProfitRatio,
		OperatingExpenses:      s.OperatingExpenses,
		OperatingExpensesRatio: s.OperatingExpensesRatio,
		OperatingIncome:        s.OperatingIncome,
		OperatingIncomeRatio:   s.OperatingIncomeRatio,
		NetIncome:              s.NetIncome,
		OtherIncome:            s.OtherIncome,
	}
	return upsert(r.db.WithContext(ctx), &m, incomeColumns)
}

func (r *statementGorm) UpsertBalance(ctx context.Context, s entity.BalanceSheet) error {
	m := BalanceSheetModel{
		ID:                      uuid.NewString(),
		StockCode:               s.StockCode,
		StockName:               s.StockName,
		Period:                  s.Period,
		TotalAssets:             s.TotalAssets,
		TotalAssetsRatio:        s.TotalAssetsRatio,
		ShareholdersEquity:      s.ShareholdersEquity,
		ShareholdersEquityRatio: s.ShareholdersEquityRatio,
		CurrentAssets:           s.CurrentAssets,
		CurrentAssetsRatio:      s.CurrentAssetsRatio,
		CurrentLiabilities:      s.CurrentLiabilities,
		CurrentLiabilitiesRatio: s.CurrentLiabilitiesRatio,
	}
	return upsert(r.db.WithContext(ctx), &m, balanceColumns)
}

func (r *statementGorm) UpsertCashFlow(ctx context.Context, s entity.CashFlow) error {
	m := CashFlowModel{
		ID:                     uuid.NewString(),
		StockCode:              s.StockCode,
		StockName:              s.StockName,
		Period:                 s.Period,
		OperatingCashFlow:      s.OperatingCashFlow,
		InvestingCashFlow:      s.InvestingCashFlow,
		InvestingCashFlowRatio: s.InvestingCashFlowRatio,
		FinancingCashFlow:      s.FinancingCashFlow,
		FinancingCashFlowRatio: s.FinancingCashFlowRatio,
		FreeCashFlow:           s.FreeCashFlow,
		FreeCashFlowRatio:      s.FreeCashFlowRatio,
		NetCashFlow:            s.NetCashFlow,
		NetCashFlowRatio:       s.NetCashFlowRatio,
	}
	return upsert(r.db.WithContext(ctx), &m, cashFlowColumns)
}

// SaveAll は存在する表をまとめて1トランザクションで保存します。
func (r *statementGorm) SaveAll(ctx context.Context, st entity.Statements) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := &statementGorm{db: tx}
		if st.Income != nil {
			if err := repo.UpsertIncome(ctx, *st.Income); err != nil {
				return err
			}
		}
		if st.Balance != nil {
			if err := repo.UpsertBalance(ctx, *st.Balance); err != nil {
				return err
			}
		}
		if st.CashFlow != nil {
			if err := repo.UpsertCashFlow(ctx, *st.CashFlow); err != nil {
				return err
			}
		}
		return nil
	})
}

// Latest は各表の最新期を返します。行がない表は nil です。
func (r *statementGorm) Latest(ctx context.Context, stockCode string) (entity.Statements, error) {
	var st entity.Statements
	db := r.db.WithContext(ctx)

	var inc IncomeStatementModel
	if ok, err := latest(db, stockCode, &inc); err != nil {
		return st, err
	} else if ok {
		st.Income = &entity.IncomeStatement{
			StockCode:              inc.StockCode,
			StockName:              inc.StockName,
			Period:                 inc.Period,
			Revenue:                inc.Revenue,
			GrossProfit:            inc.GrossProfit,
			GrossProfitRatio:       inc.GrossProfitRatio,
			OperatingExpenses:      inc.OperatingExpenses,
			OperatingExpensesRatio: inc.OperatingExpensesRatio,
			OperatingIncome:        inc.OperatingIncome,
			OperatingIncomeRatio:   inc.OperatingIncomeRatio,
			NetIncome:              inc.NetIncome,
			OtherIncome:            inc.OtherIncome,
		}
	}

	var bal BalanceSheetModel
	if ok, err := latest(db, stockCode, &bal); err != nil {
		return st, err
	} else if ok {
		st.Balance = &entity.BalanceSheet{
			StockCode:               bal.StockCode,
			StockName:               bal.StockName,
			Period:                  bal.Period,
			TotalAssets:             bal.TotalAssets,
			TotalAssetsRatio:        bal.TotalAssetsRatio,
			ShareholdersEquity:      bal.ShareholdersEquity,
			ShareholdersEquityRatio: bal.ShareholdersEquityRatio,
			CurrentAssets:           bal.CurrentAssets,
			CurrentAssetsRatio:      bal.CurrentAssetsRatio,
			CurrentLiabilities:      bal.CurrentLiabilities,
			CurrentLiabilitiesRatio: bal.CurrentLiabilitiesRatio,
		}
	}

	var cf CashFlowModel
	if ok, err := latest(db, stockCode, &cf); err != nil {
		return st, err
	} else if ok {
		st.CashFlow = &entity.CashFlow{
			StockCode:              cf.StockCode,
			StockName:              cf.StockName,
			Period:                 cf.Period,
			OperatingCashFlow:      cf.OperatingCashFlow,
			InvestingCashFlow:      cf.InvestingCashFlow,
			InvestingCashFlowRatio: cf.InvestingCashFlowRatio,
			FinancingCashFlow:      cf.FinancingCashFlow,
			FinancingCashFlowRatio: cf.FinancingCashFlowRatio,
			FreeCashFlow:           cf.FreeCashFlow,
			FreeCashFlowRatio:      cf.FreeCashFlowRatio,
			NetCashFlow:            cf.NetCashFlow,
			NetCashFlowRatio:       cf.NetCashFlowRatio,
		}
	}
	return st, nil
}

// latest は期間の降順で先頭の1行を dst に読み込みます。
func latest(db *gorm.DB, stockCode string, dst any) (bool, error) {
	err := db.Where("stock_code = ?", stockCode).Order("period DESC").Take(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}
