// Package usecase は分足と指数の取得を実装します。いずれもDBには保存しません。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Yili-code/FinMind-Lab/internal/feature/market/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/platform/cache"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
	"github.com/Yili-code/FinMind-Lab/internal/shared/diagnostic"
	"github.com/Yili-code/FinMind-Lab/internal/shared/marketdata"
	"github.com/Yili-code/FinMind-Lab/internal/shared/symbol"
	"github.com/Yili-code/FinMind-Lab/internal/shared/tiered"
)

const (
	DefaultPeriod     = "1d"
	DefaultInterval   = "1m"
	DefaultIndexCode  = "^TWII"
	DefaultIndexDays  = 5
	MaxIndexDays      = 30
	defaultIndexLabel = "TAIEX"
)

// 上流が受け付ける period / interval の組み合わせ
var (
	allowedPeriods   = map[string]bool{"1d": true, "5d": true, "1mo": true}
	allowedIntervals = map[string]bool{"1m": true, "2m": true, "5m": true, "15m": true, "30m": true, "60m": true, "90m": true, "1h": true}
)

// SeriesProvider は上流APIから価格系列を取得します。
type SeriesProvider interface {
	Range(ctx context.Context, symbol, rng, interval string) (*marketdata.Series, error)
	History(ctx context.Context, symbol string, start, end time.Time, interval string) (*marketdata.Series, error)
}

// TickerResolver はティッカーが解決できるかを確認し、解決できた場合は銘柄名を返します。
type TickerResolver interface {
	Resolve(ctx context.Context, ticker string) (string, bool)
}

// TickResult は分足の取得結果です。
type TickResult struct {
	Ticks   []entity.Tick
	Source  tiered.Source
	Warning string
}

// IndexResult は指数の取得結果です。
type IndexResult struct {
	Points  []entity.IndexPoint
	Source  tiered.Source
	Warning string
}

type marketUsecase struct {
	fetcher     *tiered.Fetcher
	provider    SeriesProvider
	resolver    TickerResolver
	intradayTTL time.Duration
	indexTTL    time.Duration
	now         func() time.Time
}

// NewMarketUsecase は marketUsecase を生成します。
func NewMarketUsecase(fetcher *tiered.Fetcher, provider SeriesProvider, resolver TickerResolver, intradayTTL, indexTTL time.Duration) *marketUsecase {
	return &marketUsecase{
		fetcher:     fetcher,
		provider:    provider,
		resolver:    resolver,
		intradayTTL: intradayTTL,
		indexTTL:    indexTTL,
		now:         time.Now,
	}
}

// GetIntraday は分足を返します。データがない場合は warning を付けた空の結果です。
func (u *marketUsecase) GetIntraday(ctx context.Context, ticker, period, interval string) (*TickResult, error) {
	if period == "" {
		period = DefaultPeriod
	}
	if interval == "" {
		interval = DefaultInterval
	}
	if !allowedPeriods[period] {
		return nil, fmt.Errorf("%w: unsupported period %q", apperr.ErrValidation, period)
	}
	if !allowedIntervals[interval] {
		return nil, fmt.Errorf("%w: unsupported interval %q", apperr.ErrValidation, interval)
	}

	ticks, src, err := tiered.Fetch(ctx, u.fetcher, tiered.Request[[]entity.Tick]{
		Kind:   tiered.KindIntraday,
		Ticker: ticker,
		Key:    cache.Key(tiered.KindIntraday, ticker, period, interval),
		TTL:    u.intradayTTL,
		Fetch: func(ctx context.Context) ([]entity.Tick, bool, error) {
			s, err := u.provider.Range(ctx, symbol.Map(ticker), period, interval)
			if err != nil {
				return nil, false, err
			}
			ticks := entity.BuildTicks(ticker, s)
			return ticks, len(ticks) > 0, nil
		},
	})
	if errors.Is(err, apperr.ErrNoData) {
		return &TickResult{Ticks: []entity.Tick{}, Warning: u.diagnose(ctx, ticker)}, nil
	}
	if err != nil {
		return nil, err
	}
	return &TickResult{Ticks: ticks, Source: src}, nil
}

// GetMarketIndex は指数の直近 days 日分の日足を返します。
func (u *marketUsecase) GetMarketIndex(ctx context.Context, indexCode string, days int) (*IndexResult, error) {
	if indexCode == "" {
		indexCode = DefaultIndexCode
	}
	if days <= 0 || days > MaxIndexDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", apperr.ErrValidation, MaxIndexDays)
	}

	pts, src, err := tiered.Fetch(ctx, u.fetcher, tiered.Request[[]entity.IndexPoint]{
		Kind:   tiered.KindMarketIndex,
		Ticker: indexCode,
		Key:    cache.Key(tiered.KindMarketIndex, indexCode, strconv.Itoa(days)),
		TTL:    u.indexTTL,
		Fetch: func(ctx context.Context) ([]entity.IndexPoint, bool, error) {
			end := u.now()
			s, err := u.provider.History(ctx, symbol.Map(indexCode), end.AddDate(0, 0, -days), end, "1d")
			if err != nil {
				return nil, false, err
			}
			if indexCode == DefaultIndexCode && (s.Name == "" || s.Name == s.Symbol) {
				s.Name = defaultIndexLabel
			}
			pts := entity.BuildIndexPoints(s)
			return pts, len(pts) > 0, nil
		},
	})
	if errors.Is(err, apperr.ErrNoData) {
		return &IndexResult{Points: []entity.IndexPoint{}, Warning: diagnostic.EmptyWindow(indexCode, "")}, nil
	}
	if err != nil {
		return nil, err
	}
	return &IndexResult{Points: pts, Source: src}, nil
}

func (u *marketUsecase) diagnose(ctx context.Context, ticker string) string {
	if u.resolver == nil {
		return diagnostic.EmptyWindow(ticker, "")
	}
	name, ok := u.resolver.Resolve(ctx, ticker)
	if !ok {
		return diagnostic.UnknownTicker(ticker)
	}
	return diagnostic.EmptyWindow(ticker, name)
}
