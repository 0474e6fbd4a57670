// Package usecase は銘柄スナップショット取得のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Yili-code/FinMind-Lab/internal/feature/quote/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/platform/cache"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
	"github.com/Yili-code/FinMind-Lab/internal/shared/diagnostic"
	"github.com/Yili-code/FinMind-Lab/internal/shared/symbol"
	"github.com/Yili-code/FinMind-Lab/internal/shared/tiered"
)

// QuoteRepository は stock_basics の読み書きを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type QuoteRepository interface {
	// FindByCode は保存済みのスナップショットを返します。存在しない場合は nil, nil です。
	FindByCode(ctx context.Context, stockCode string) (*entity.Quote, error)
	Upsert(ctx context.Context, q entity.Quote) error
	List(ctx context.Context) ([]entity.Quote, error)
}

// QuoteProvider は上流APIからスナップショットを取得します。symbol は変換済みのシンボルです。
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (*entity.Quote, error)
}

type quoteUsecase struct {
	fetcher  *tiered.Fetcher
	repo     QuoteRepository // nil の場合はDB層を飛ばす
	provider QuoteProvider
	ttl      time.Duration
}

// NewQuoteUsecase は quoteUsecase を生成します。repo は nil でも構いません。
func NewQuoteUsecase(fetcher *tiered.Fetcher, repo QuoteRepository, provider QuoteProvider, ttl time.Duration) *quoteUsecase {
	return &quoteUsecase{fetcher: fetcher, repo: repo, provider: provider, ttl: ttl}
}

// GetQuote はキャッシュ → DB → 上流API の順にスナップショットを取得します。
func (u *quoteUsecase) GetQuote(ctx context.Context, ticker string) (*entity.Quote, tiered.Source, error) {
	req := tiered.Request[entity.Quote]{
		Kind:   tiered.KindStockInfo,
		Ticker: ticker,
		Key:    cache.Key(tiered.KindStockInfo, ticker),
		TTL:    u.ttl,
		Fetch: func(ctx context.Context) (entity.Quote, bool, error) {
			q, err := u.provider.Quote(ctx, symbol.Map(ticker))
			if err != nil {
				return entity.Quote{}, false, err
			}
			q.StockCode = ticker
			return *q, true, nil
		},
	}
	if u.repo != nil {
		req.Load = func(ctx context.Context) (entity.Quote, bool, error) {
			q, err := u.repo.FindByCode(ctx, ticker)
			if err != nil || q == nil {
				return entity.Quote{}, false, err
			}
			return *q, true, nil
		}
		req.Save = func(ctx context.Context, q entity.Quote) error {
			return u.repo.Upsert(ctx, q)
		}
	}

	q, src, err := tiered.Fetch(ctx, u.fetcher, req)
	if err != nil {
		if errors.Is(err, apperr.ErrNoData) {
			return nil, "", apperr.Diagnose(apperr.ErrNoData, diagnostic.UnknownTicker(ticker))
		}
		return nil, "", err
	}
	return &q, src, nil
}

// Batch は複数銘柄のスナップショットを取得します。取得できなかった銘柄は結果に含めません。
func (u *quoteUsecase) Batch(ctx context.Context, tickers []string) []entity.Quote {
	out := make([]entity.Quote, 0, len(tickers))
	for _, t := range tickers {
		q, _, err := u.GetQuote(ctx, t)
		if err != nil {
			slog.Info("batch quote skipped", "ticker", t, "error", err)
			continue
		}
		out = append(out, *q)
	}
	return out
}

// ListBasics は保存済みのスナップショットを全件返します。
func (u *quoteUsecase) ListBasics(ctx context.Context) ([]entity.Quote, error) {
	if u.repo == nil {
		return nil, apperr.Diagnose(apperr.ErrUnavailable, "database is not available")
	}
	return u.repo.List(ctx)
}

// Resolve はティッカーが解決できるかを確認し、解決できた場合は銘柄名を返します。
// 空結果の原因を診断するために他の機能から使います。
func (u *quoteUsecase) Resolve(ctx context.Context, ticker string) (string, bool) {
	q, _, err := u.GetQuote(ctx, ticker)
	if err != nil {
		slog.Debug("ticker did not resolve", "ticker", ticker, "error", err)
		return "", false
	}
	return q.StockName, true
}
