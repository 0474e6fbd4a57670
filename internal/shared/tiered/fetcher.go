// Package tiered はキャッシュ → DB → 上流API の順にデータを探す取得処理を提供します。
//
// 上流APIから取得した値はクォータに記録したうえでキャッシュとDBへ書き戻します。
// 同一キーへの同時ミスは singleflight で1回の上流呼び出しにまとめます。
package tiered

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Yili-code/FinMind-Lab/internal/platform/cache"
	"github.com/Yili-code/FinMind-Lab/internal/platform/quota"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
)

// Source は値を返した層です。
type Source string

const (
	SourceCache    Source = "cache"
	SourceDatabase Source = "database"
	SourceAPI      Source = "api"
)

// データ種別ごとのキャッシュ名前空間です。
const (
	KindStockInfo   = "stock_info"
	KindDailyTrade  = "daily_trade"
	KindIntraday    = "intraday"
	KindMarketIndex = "market_index"
	KindFinancial   = "financial"
)

// Request は1回の取得要求です。Load と Save は省略できます（キャッシュと上流のみ）。
// Load / Fetch の bool は値が存在したかどうかを表します。
type Request[T any] struct {
	Kind   string
	Ticker string
	Key    string
	TTL    time.Duration

	Load  func(ctx context.Context) (T, bool, error)
	Fetch func(ctx context.Context) (T, bool, error)
	Save  func(ctx context.Context, v T) error
}

// Fetcher は各機能で共有する取得器です。cache と quota は nil の場合に無効になります。
type Fetcher struct {
	cache   cache.Cache
	quota   *quota.Tracker
	enforce bool
	group   singleflight.Group
	now     func() time.Time
}

// NewFetcher は Fetcher を生成します。enforce が true の場合、
// クォータ超過時に上流APIを呼ばず apperr.ErrRateLimited を返します。
func NewFetcher(c cache.Cache, q *quota.Tracker, enforce bool) *Fetcher {
	return &Fetcher{cache: c, quota: q, enforce: enforce, now: time.Now}
}

// Fetch は req に従って値を取得し、値を返した層とともに返します。
func Fetch[T any](ctx context.Context, f *Fetcher, req Request[T]) (T, Source, error) {
	var zero T
	log := slog.With("kind", req.Kind, "ticker", req.Ticker, "key", req.Key)

	// 1) キャッシュ
	if f.cache != nil {
		if b, ok := f.cache.Get(ctx, req.Key); ok {
			var v T
			if err := json.Unmarshal(b, &v); err == nil {
				log.Debug("tiered fetch hit", "source", SourceCache)
				return v, SourceCache, nil
			}
			f.cache.Delete(ctx, req.Key)
		}
	}

	// 2) DB
	if req.Load != nil {
		v, ok, err := req.Load(ctx)
		switch {
		case err != nil:
			log.Warn("store lookup failed, falling back to upstream", "error", err)
		case ok:
			f.put(ctx, req.Key, v, req.TTL)
			log.Debug("tiered fetch hit", "source", SourceDatabase)
			return v, SourceDatabase, nil
		}
	}

	// 3) クォータ
	if f.quota != nil {
		if c := f.quota.Check(); !c.OK() {
			log.Warn("upstream quota exceeded",
				"minute_ok", c.MinuteOK, "hour_ok", c.HourOK, "day_ok", c.DayOK, "enforced", f.enforce)
			if f.enforce {
				return zero, "", apperr.Diagnose(apperr.ErrRateLimited,
					"upstream request quota is exhausted, retry later")
			}
		}
	}

	// 4) 上流API
	// 共有する取得は呼び出し元のキャンセルから切り離し、各呼び出し元は自分の ctx でのみ待機を打ち切る
	work := context.WithoutCancel(ctx)
	ch := f.group.DoChan(req.Key, func() (any, error) {
		start := f.now()
		v, ok, err := req.Fetch(work)
		if f.quota != nil {
			f.quota.Record(req.Kind, req.Ticker, err == nil && ok, f.now().Sub(start))
		}
		if err != nil {
			return nil, classify(req, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s for %s", apperr.ErrNoData, req.Kind, req.Ticker)
		}

		f.put(work, req.Key, v, req.TTL)
		if req.Save != nil {
			if err := req.Save(work, v); err != nil {
				log.Warn("store write-back failed", "error", err)
			}
		}
		return v, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		log.Info("caller gave up waiting for upstream", "error", ctx.Err())
		return zero, "", ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		log.Info("upstream fetch failed", "error", res.Err)
		return zero, "", res.Err
	}
	log.Debug("tiered fetch hit", "source", SourceAPI, "shared", res.Shared)
	return res.Val.(T), SourceAPI, nil
}

func (f *Fetcher) put(ctx context.Context, key string, v any, ttl time.Duration) {
	if f.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		slog.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	f.cache.Set(ctx, key, b, ttl)
}

// Invalidate は pattern を含むキャッシュキーを削除します。
func (f *Fetcher) Invalidate(ctx context.Context, pattern string) {
	if f.cache == nil {
		return
	}
	n := f.cache.Clear(ctx, pattern)
	slog.Debug("cache invalidated", "pattern", pattern, "deleted", n)
}

// classify は上流エラーを apperr の種別へ寄せます。
func classify[T any](req Request[T], err error) error {
	if errors.Is(err, apperr.ErrRateLimited) || errors.Is(err, apperr.ErrNoData) || errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s for %s: %v", apperr.ErrUpstream, req.Kind, req.Ticker, err)
}
