package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/platform/cache"
	"github.com/Yili-code/FinMind-Lab/internal/platform/externalapi/twse"
	"github.com/Yili-code/FinMind-Lab/internal/shared/marketdata"
	"github.com/Yili-code/FinMind-Lab/internal/shared/ratelimiter"
	"github.com/Yili-code/FinMind-Lab/internal/shared/tiered"
)

// ingestIndicators は取り込み後にログへ出す指標です。
var ingestIndicators = []entity.Indicator{
	{Name: "MA5", Kind: "MA", Period: 5},
	{Name: "MA20", Kind: "MA", Period: 20},
	{Name: "RSI14", Kind: "RSI", Period: 14},
}

// MonthlySource は取引所から1か月分の日足を取得します。
type MonthlySource interface {
	MonthlyBars(ctx context.Context, stockNo string, month time.Time) (*twse.Month, error)
}

// CacheInvalidator はキャッシュの該当キーを無効化します。
type CacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string)
}

// IngestReport は1銘柄分の取り込み結果です。
type IngestReport struct {
	Ticker         string              `json:"ticker"`
	Name           string              `json:"name,omitempty"`
	Months         int                 `json:"months"`
	FailedMonths   []string            `json:"failedMonths,omitempty"`
	Rows           int                 `json:"rows"`
	FirstDate      string              `json:"firstDate,omitempty"`
	LastDate       string              `json:"lastDate,omitempty"`
	LastIndicators map[string]*float64 `json:"lastIndicators,omitempty"`
	Error          string              `json:"error,omitempty"`
}

// IngestUsecase は取引所の日足を取得・整形し、データベースに永続化するユースケースです。
type IngestUsecase struct {
	source      MonthlySource
	repo        DailyTradeRepository
	invalidator CacheInvalidator
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewIngestUsecase は新しい IngestUsecase を作成します。invalidator は nil でも構いません。
func NewIngestUsecase(source MonthlySource, repo DailyTradeRepository, invalidator CacheInvalidator, rateLimiter ratelimiter.RateLimiterInterface) *IngestUsecase {
	return &IngestUsecase{source: source, repo: repo, invalidator: invalidator, rateLimiter: rateLimiter}
}

// Months は from から to までの各月の1日を返します（両端の月を含む）。
func Months(from, to time.Time) []time.Time {
	loc := marketdata.TaipeiLocation()
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, loc)
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, loc)
	var out []time.Time
	for !cur.After(last) {
		out = append(out, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

// IngestAll は各銘柄について [from, to] の月次データを取得し、整形して保存します。
// 1つの銘柄・月でエラーが発生しても処理を止めずにログに出力し、次の処理を続けます。
// ctx がキャンセルされた場合はそこまでの結果とエラーを返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, tickers []string, from, to time.Time) ([]IngestReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("ingest range is empty: from %s is after to %s", from.Format(entity.DateLayout), to.Format(entity.DateLayout))
	}
	months := Months(from, to)
	reports := make([]IngestReport, 0, len(tickers))
	for _, t := range tickers {
		rep, err := iu.ingestOne(ctx, t, months)
		if err != nil && ctx.Err() != nil {
			return reports, ctx.Err()
		}
		if err != nil {
			slog.Error("failed to ingest ticker", "ticker", t, "error", err)
			rep.Error = err.Error()
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// ingestOne は1銘柄分を取得し、補間・日足導出・保存・キャッシュ無効化を行います。
func (iu *IngestUsecase) ingestOne(ctx context.Context, ticker string, months []time.Time) (IngestReport, error) {
	rep := IngestReport{Ticker: ticker, Months: len(months)}
	var raw []marketdata.RawCandle
	for _, m := range months {
		if iu.rateLimiter != nil {
			if err := iu.rateLimiter.WaitIfNeeded(ctx); err != nil {
				return rep, err
			}
		}
		month, err := iu.source.MonthlyBars(ctx, ticker, m)
		if err != nil {
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}
			slog.Error("failed to fetch month", "ticker", ticker, "month", m.Format("2006-01"), "error", err)
			rep.FailedMonths = append(rep.FailedMonths, m.Format("2006-01"))
			continue
		}
		if month.Name != "" {
			rep.Name = month.Name
		}
		raw = append(raw, month.Rows...)
	}

	candles := entity.Clean(raw)
	if len(candles) == 0 {
		slog.Warn("no usable rows", "ticker", ticker, "raw_rows", len(raw))
		return rep, nil
	}
	bars := entity.BuildDailyBars(ticker, rep.Name, candles, marketdata.TaipeiLocation())
	if err := iu.repo.UpsertBatch(ctx, bars); err != nil {
		return rep, fmt.Errorf("save daily bars: %w", err)
	}
	if iu.invalidator != nil {
		iu.invalidator.Invalidate(ctx, cache.Key(tiered.KindDailyTrade, ticker, ""))
	}

	rep.Rows = len(bars)
	rep.FirstDate = bars[0].Date
	rep.LastDate = bars[len(bars)-1].Date
	rep.LastIndicators = entity.Last(entity.ComputeIndicators(bars, ingestIndicators))

	attrs := []any{"ticker", ticker, "rows", rep.Rows, "last_date", rep.LastDate, "close", bars[len(bars)-1].ClosePrice}
	for _, ind := range ingestIndicators {
		if v := rep.LastIndicators[ind.Name]; v != nil {
			attrs = append(attrs, ind.Name, *v)
		}
	}
	slog.Info("ingested daily bars", attrs...)
	return rep, nil
}
