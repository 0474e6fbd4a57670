// Package usecase は日足の取得・指標計算・取り込みのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/platform/cache"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
	"github.com/Yili-code/FinMind-Lab/internal/shared/diagnostic"
	"github.com/Yili-code/FinMind-Lab/internal/shared/marketdata"
	"github.com/Yili-code/FinMind-Lab/internal/shared/symbol"
	"github.com/Yili-code/FinMind-Lab/internal/shared/tiered"
)

const (
	// DefaultDays は日足の既定の取得日数です。
	DefaultDays = 5
	// MaxDays は日足の最大取得日数です。
	MaxDays = 2000
	// DefaultIndicatorDays は指標計算の既定の取得日数です。
	DefaultIndicatorDays = 60
)

// DailyTradeRepository は daily_trades の読み書きを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type DailyTradeRepository interface {
	// Recent は直近 limit 件を日付の昇順で返します。
	Recent(ctx context.Context, stockCode string, limit int) ([]entity.DailyBar, error)
	UpsertBatch(ctx context.Context, bars []entity.DailyBar) error
}

// HistoryProvider は上流APIから価格系列を取得します。symbol は変換済みのシンボルです。
type HistoryProvider interface {
	History(ctx context.Context, symbol string, start, end time.Time, interval string) (*marketdata.Series, error)
}

// TickerResolver はティッカーが解決できるかを確認し、解決できた場合は銘柄名を返します。
type TickerResolver interface {
	Resolve(ctx context.Context, ticker string) (string, bool)
}

// DailyResult は日足の取得結果です。空の場合は Warning に原因の説明が入ります。
type DailyResult struct {
	Bars    []entity.DailyBar
	Source  tiered.Source
	Warning string
}

// IndicatorResult は指標計算の結果です。
type IndicatorResult struct {
	Rows       []entity.IndicatorRow
	Indicators []string
	Source     tiered.Source
	Warning    string
}

type dailyUsecase struct {
	fetcher  *tiered.Fetcher
	repo     DailyTradeRepository // nil の場合はDB層を飛ばす
	provider HistoryProvider
	resolver TickerResolver
	ttl      time.Duration
	now      func() time.Time
}

// NewDailyUsecase は dailyUsecase を生成します。repo は nil でも構いません。
func NewDailyUsecase(fetcher *tiered.Fetcher, repo DailyTradeRepository, provider HistoryProvider, resolver TickerResolver, ttl time.Duration) *dailyUsecase {
	return &dailyUsecase{
		fetcher:  fetcher,
		repo:     repo,
		provider: provider,
		resolver: resolver,
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetDaily は直近 days 日分の日足を日付の昇順で返します。
// 上流から空結果しか得られない場合はエラーにせず、ティッカーの解決可否に応じた警告を付けて返します。
// days は上流では暦日の範囲、DBでは件数の上限として扱います。
func (u *dailyUsecase) GetDaily(ctx context.Context, ticker string, days int) (*DailyResult, error) {
	if days <= 0 || days > MaxDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", apperr.ErrValidation, MaxDays)
	}

	req := tiered.Request[[]entity.DailyBar]{
		Kind:   tiered.KindDailyTrade,
		Ticker: ticker,
		Key:    cache.Key(tiered.KindDailyTrade, ticker, strconv.Itoa(days)),
		TTL:    u.ttl,
		Fetch: func(ctx context.Context) ([]entity.DailyBar, bool, error) {
			end := u.now()
			series, err := u.provider.History(ctx, symbol.Map(ticker), end.AddDate(0, 0, -days), end, "1d")
			if err != nil {
				return nil, false, err
			}
			bars := entity.BuildDailyBars(ticker, series.Name, series.Candles, series.Location())
			return bars, len(bars) > 0, nil
		},
	}
	if u.repo != nil {
		req.Load = func(ctx context.Context) ([]entity.DailyBar, bool, error) {
			bars, err := u.repo.Recent(ctx, ticker, days)
			return bars, len(bars) > 0, err
		}
		req.Save = u.repo.UpsertBatch
	}

	bars, src, err := tiered.Fetch(ctx, u.fetcher, req)
	if errors.Is(err, apperr.ErrNoData) {
		return &DailyResult{Bars: []entity.DailyBar{}, Warning: u.diagnose(ctx, ticker)}, nil
	}
	if err != nil {
		return nil, err
	}
	return &DailyResult{Bars: bars, Source: src}, nil
}

// GetIndicators は日足に移動平均とRSIを付けて返します。list は "MA5,MA20,RSI14" 形式です。
func (u *dailyUsecase) GetIndicators(ctx context.Context, ticker string, days int, list string) (*IndicatorResult, error) {
	inds, err := entity.ParseIndicators(list)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	daily, err := u.GetDaily(ctx, ticker, days)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(inds))
	for i, ind := range inds {
		names[i] = ind.Name
	}
	return &IndicatorResult{
		Rows:       entity.ComputeIndicators(daily.Bars, inds),
		Indicators: names,
		Source:     daily.Source,
		Warning:    daily.Warning,
	}, nil
}

// diagnose は空結果の原因を、ティッカー自体が解決できるかどうかで区別して説明します。
func (u *dailyUsecase) diagnose(ctx context.Context, ticker string) string {
	if u.resolver == nil {
		return diagnostic.EmptyWindow(ticker, "")
	}
	name, ok := u.resolver.Resolve(ctx, ticker)
	if !ok {
		return diagnostic.UnknownTicker(ticker)
	}
	return diagnostic.EmptyWindow(ticker, name)
}
