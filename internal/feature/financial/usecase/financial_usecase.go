// Package usecase は財務諸表の取得と手動登録を実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Yili-code/FinMind-Lab/internal/feature/financial/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/platform/cache"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
	"github.com/Yili-code/FinMind-Lab/internal/shared/diagnostic"
	"github.com/Yili-code/FinMind-Lab/internal/shared/symbol"
	"github.com/Yili-code/FinMind-Lab/internal/shared/tiered"
)

// periodPattern は "2025Q2" 形式の会計期間です。
var periodPattern = regexp.MustCompile(`^\d{4}Q[1-4]$`)

// StatementRepository は財務三表の読み書きを抽象化します。
type StatementRepository interface {
	// Latest は各表の最新期を返します。行がない表は nil です。
	Latest(ctx context.Context, stockCode string) (entity.Statements, error)
	SaveAll(ctx context.Context, st entity.Statements) error
	UpsertIncome(ctx context.Context, s entity.IncomeStatement) error
	UpsertBalance(ctx context.Context, s entity.BalanceSheet) error
	UpsertCashFlow(ctx context.Context, s entity.CashFlow) error
}

// FinancialProvider は上流APIから最新期の財務三表を取得します。
type FinancialProvider interface {
	Financials(ctx context.Context, symbol string) (*entity.Statements, error)
}

// TickerResolver はティッカーが解決できるかを確認し、解決できた場合は銘柄名を返します。
type TickerResolver interface {
	Resolve(ctx context.Context, ticker string) (string, bool)
}

type financialUsecase struct {
	fetcher  *tiered.Fetcher
	repo     StatementRepository // nil の場合はDB層を飛ばす
	provider FinancialProvider
	resolver TickerResolver
	ttl      time.Duration
}

// NewFinancialUsecase は financialUsecase を生成します。repo と resolver は nil でも構いません。
func NewFinancialUsecase(fetcher *tiered.Fetcher, repo StatementRepository, provider FinancialProvider, resolver TickerResolver, ttl time.Duration) *financialUsecase {
	return &financialUsecase{fetcher: fetcher, repo: repo, provider: provider, resolver: resolver, ttl: ttl}
}

// GetStatements はキャッシュ → DB → 上流API の順に最新期の財務三表を取得します。
func (u *financialUsecase) GetStatements(ctx context.Context, ticker string) (*entity.Statements, tiered.Source, error) {
	req := tiered.Request[entity.Statements]{
		Kind:   tiered.KindFinancial,
		Ticker: ticker,
		Key:    cache.Key(tiered.KindFinancial, ticker),
		TTL:    u.ttl,
		Fetch: func(ctx context.Context) (entity.Statements, bool, error) {
			st, err := u.provider.Financials(ctx, symbol.Map(ticker))
			if err != nil {
				return entity.Statements{}, false, err
			}
			st.SetStockCode(ticker)
			return *st, !st.Empty(), nil
		},
	}
	if u.repo != nil {
		req.Load = func(ctx context.Context) (entity.Statements, bool, error) {
			st, err := u.repo.Latest(ctx, ticker)
			if err != nil {
				return entity.Statements{}, false, err
			}
			return st, !st.Empty(), nil
		}
		req.Save = u.repo.SaveAll
	}

	st, src, err := tiered.Fetch(ctx, u.fetcher, req)
	if errors.Is(err, apperr.ErrNoData) {
		return nil, "", apperr.Diagnose(apperr.ErrNoData, u.diagnose(ctx, ticker))
	}
	if err != nil {
		return nil, "", err
	}
	return &st, src, nil
}

// UpsertIncome は損益計算書を手動で登録し、比率を計算し直します。
func (u *financialUsecase) UpsertIncome(ctx context.Context, ticker string, s entity.IncomeStatement) (*entity.IncomeStatement, error) {
	if err := u.writable(s.Period); err != nil {
		return nil, err
	}
	s.StockCode = ticker
	s.ComputeRatios()
	if err := u.repo.UpsertIncome(ctx, s); err != nil {
		return nil, err
	}
	u.invalidate(ctx, ticker)
	return &s, nil
}

// UpsertBalance は貸借対照表を手動で登録します。
func (u *financialUsecase) UpsertBalance(ctx context.Context, ticker string, s entity.BalanceSheet) (*entity.BalanceSheet, error) {
	if err := u.writable(s.Period); err != nil {
		return nil, err
	}
	s.StockCode = ticker
	s.ComputeRatios()
	if err := u.repo.UpsertBalance(ctx, s); err != nil {
		return nil, err
	}
	u.invalidate(ctx, ticker)
	return &s, nil
}

// UpsertCashFlow はキャッシュフロー計算書を手動で登録します。
func (u *financialUsecase) UpsertCashFlow(ctx context.Context, ticker string, s entity.CashFlow) (*entity.CashFlow, error) {
	if err := u.writable(s.Period); err != nil {
		return nil, err
	}
	s.StockCode = ticker
	s.ComputeRatios()
	if err := u.repo.UpsertCashFlow(ctx, s); err != nil {
		return nil, err
	}
	u.invalidate(ctx, ticker)
	return &s, nil
}

func (u *financialUsecase) writable(period string) error {
	if u.repo == nil {
		return apperr.Diagnose(apperr.ErrUnavailable, "database is not available")
	}
	if !periodPattern.MatchString(period) {
		return fmt.Errorf("%w: period must look like 2025Q2, got %q", apperr.ErrValidation, period)
	}
	return nil
}

func (u *financialUsecase) invalidate(ctx context.Context, ticker string) {
	u.fetcher.Invalidate(ctx, cache.Key(tiered.KindFinancial, ticker))
}

func (u *financialUsecase) diagnose(ctx context.Context, ticker string) string {
	if u.resolver == nil {
		return diagnostic.NoFinancials(ticker, "", false)
	}
	name, ok := u.resolver.Resolve(ctx, ticker)
	return diagnostic.NoFinancials(ticker, name, ok)
}
