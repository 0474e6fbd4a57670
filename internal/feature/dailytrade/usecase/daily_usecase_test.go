package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yili-code/FinMind-Lab/internal/feature/dailytrade/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/platform/cache"
	"github.com/Yili-code/FinMind-Lab/internal/platform/quota"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
	"github.com/Yili-code/FinMind-Lab/internal/shared/marketdata"
	"github.com/Yili-code/FinMind-Lab/internal/shared/tiered"
)

// mockDailyTradeRepository は DailyTradeRepository のモック実装です。
type mockDailyTradeRepository struct {
	RecentFunc      func(ctx context.Context, stockCode string, limit int) ([]entity.DailyBar, error)
	UpsertBatchFunc func(ctx context.Context, bars []entity.DailyBar) error
	UpsertCalls     int
	Saved           []entity.DailyBar
}

func (m *mockDailyTradeRepository) Recent(ctx context.Context, stockCode string, limit int) ([]entity.DailyBar, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, stockCode, limit)
	}
	return nil, nil
}

func (m *mockDailyTradeRepository) UpsertBatch(ctx context.Context, bars []entity.DailyBar) error {
	m.UpsertCalls++
	m.Saved = append(m.Saved, bars...)
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, bars)
	}
	return nil
}

// mockHistoryProvider は HistoryProvider のモック実装です。
type mockHistoryProvider struct {
	HistoryFunc func(ctx context.Context, symbol string, start, end time.Time, interval string) (*marketdata.Series, error)
	calls       atomic.Int32
}

func (m *mockHistoryProvider) History(ctx context.Context, symbol string, start, end time.Time, interval string) (*marketdata.Series, error) {
	m.calls.Add(1)
	return m.HistoryFunc(ctx, symbol, start, end, interval)
}

// mockResolver は TickerResolver のモック実装です。
type mockResolver struct {
	names map[string]string
}

func (m mockResolver) Resolve(ctx context.Context, ticker string) (string, bool) {
	name, ok := m.names[ticker]
	return name, ok
}

var fixedNow = time.Date(2025, 1, 10, 14, 0, 0, 0, marketdata.TaipeiLocation())

func series(closes ...float64) *marketdata.Series {
	s := &marketdata.Series{Symbol: "2330.TW", Name: "TSMC", Timezone: "Asia/Taipei"}
	for i, c := range closes {
		s.Candles = append(s.Candles, marketdata.Candle{
			Time:  time.Date(2025, 1, 2+i, 9, 0, 0, 0, marketdata.TaipeiLocation()),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		})
	}
	return s
}

func newDaily(repo DailyTradeRepository, provider HistoryProvider, resolver TickerResolver) (*dailyUsecase, *quota.Tracker, *cache.Memory) {
	tracker := quota.NewTracker(quota.DefaultLimits, 100)
	mem := cache.NewMemory()
	uc := NewDailyUsecase(tiered.NewFetcher(mem, tracker, false), repo, provider, resolver, time.Hour)
	uc.now = func() time.Time { return fixedNow }
	return uc, tracker, mem
}

func TestDailyUsecase_GetDaily_UpstreamThenCache(t *testing.T) {
	repo := &mockDailyTradeRepository{}
	provider := &mockHistoryProvider{HistoryFunc: func(ctx context.Context, symbol string, start, end time.Time, interval string) (*marketdata.Series, error) {
		assert.Equal(t, "2330.TW", symbol)
		assert.Equal(t, "1d", interval)
		assert.Equal(t, fixedNow.AddDate(0, 0, -5), start)
		assert.Equal(t, fixedNow, end)
		return series(100, 102, 101), nil
	}}
	uc, tracker, _ := newDaily(repo, provider, nil)

	res, err := uc.GetDaily(context.Background(), "2330", 5)
	require.NoError(t, err)
	assert.Equal(t, tiered.SourceAPI, res.Source)
	require.Len(t, res.Bars, 3)
	assert.Equal(t, "2025-01-02", res.Bars[0].Date)
	assert.Equal(t, "2330", res.Bars[0].StockCode)
	assert.Equal(t, 1, repo.UpsertCalls)
	assert.Len(t, repo.Saved, 3)

	res, err = uc.GetDaily(context.Background(), "2330", 5)
	require.NoError(t, err)
	assert.Equal(t, tiered.SourceCache, res.Source)
	assert.Equal(t, int32(1), provider.calls.Load())
	assert.Equal(t, 1, tracker.Len(), "the second call is served from cache")
}

func TestDailyUsecase_GetDaily_DatabaseHit(t *testing.T) {
	repo := &mockDailyTradeRepository{RecentFunc: func(ctx context.Context, code string, limit int) ([]entity.DailyBar, error) {
		assert.Equal(t, 30, limit)
		return []entity.DailyBar{{StockCode: code, Date: "2025-01-02"}}, nil
	}}
	provider := &mockHistoryProvider{HistoryFunc: func(ctx context.Context, symbol string, start, end time.Time, interval string) (*marketdata.Series, error) {
		t.Fatal("upstream must not be called on a database hit")
		return nil, nil
	}}
	uc, _, _ := newDaily(repo, provider, nil)

	res, err := uc.GetDaily(context.Background(), "2330", 30)
	require.NoError(t, err)
	assert.Equal(t, tiered.SourceDatabase, res.Source)
	assert.Len(t, res.Bars, 1)
	assert.Equal(t, 0, repo.UpsertCalls)
}

func TestDailyUsecase_GetDaily_CacheExpiry(t *testing.T) {
	clock := fixedNow
	mem := cache.NewMemoryWithClock(func() time.Time { return clock })
	tracker := quota.NewTracker(quota.DefaultLimits, 100)
	provider := &mockHistoryProvider{HistoryFunc: func(ctx context.Context, symbol string, start, end time.Time, interval string) (*marketdata.Series, error) {
		return series(100), nil
	}}
	uc := NewDailyUsecase(tiered.NewFetcher(mem, tracker, false), nil, provider, nil, time.Hour)

	_, err := uc.GetDaily(context.Background(), "2330", 5)
	require.NoError(t, err)
	clock = clock.Add(time.Hour + time.Second)
	res, err := uc.GetDaily(context.Background(), "2330", 5)
	require.NoError(t, err)

	assert.Equal(t, tiered.SourceAPI, res.Source)
	assert.Equal(t, int32(2), provider.calls.Load())
	assert.Equal(t, 2, tracker.Len())
}

func TestDailyUsecase_GetDaily_EmptyWindowDiagnosis(t *testing.T) {
	empty := &mockHistoryProvider{HistoryFunc: func(ctx context.Context, symbol string, start, end time.Time, interval string) (*marketdata.Series, error) {
		return &marketdata.Series{Symbol: symbol}, nil
	}}
	resolver := mockResolver{names: map[string]string{"2330": "TSMC"}}

	uc, tracker, _ := newDaily(nil, empty, resolver)
	res, err := uc.GetDaily(context.Background(), "2330", 1)
	require.NoError(t, err, "an empty window is not an error")
	assert.Empty(t, res.Bars)
	assert.NotNil(t, res.Bars)
	assert.Contains(t, res.Warning, "non-trading days")
	assert.Contains(t, res.Warning, "TSMC")
	require.Equal(t, 1, tracker.Len())
	assert.False(t, tracker.Recent(1)[0].Success)

	res, err = uc.GetDaily(context.Background(), "XXXX", 1)
	require.NoError(t, err)
	assert.Empty(t, res.Bars)
	assert.Contains(t, res.Warning, "could not be resolved")
	assert.NotContains(t, res.Warning, "non-trading days")
}

func TestDailyUsecase_GetDaily_UpstreamNotFoundIsDiagnosed(t *testing.T) {
	provider := &mockHistoryProvider{HistoryFunc: func(ctx context.Context, symbol string, start, end time.Time, interval string) (*marketdata.Series, error) {
		return nil, apperr.ErrNoData
	}}
	uc, _, _ := newDaily(nil, provider, mockResolver{})

	res, err := uc.GetDaily(context.Background(), "0000", 5)
	require.NoError(t, err)
	assert.Contains(t, res.Warning, "could not be resolved")
}

func TestDailyUsecase_GetDaily_Errors(t *testing.T) {
	provider := &mockHistoryProvider{HistoryFunc: func(ctx context.Context, symbol string, start, end time.Time, interval string) (*marketdata.Series, error) {
		return nil, errors.New("timeout")
	}}
	uc, _, _ := newDaily(nil, provider, nil)

	_, err := uc.GetDaily(context.Background(), "2330", 5)
	assert.ErrorIs(t, err, apperr.ErrUpstream)

	for _, days := range []int{0, -1, MaxDays + 1} {
		_, err := uc.GetDaily(context.Background(), "2330", days)
		assert.ErrorIs(t, err, apperr.ErrValidation, "days=%d", days)
	}
}

func TestDailyUsecase_GetDaily_SaveErrorIsNotReturned(t *testing.T) {
	repo := &mockDailyTradeRepository{UpsertBatchFunc: func(ctx context.Context, bars []entity.DailyBar) error {
		return errors.New("disk full")
	}}
	provider := &mockHistoryProvider{HistoryFunc: func(ctx context.Context, symbol string, start, end time.Time, interval string) (*marketdata.Series, error) {
		return series(100, 101), nil
	}}
	uc, _, _ := newDaily(repo, provider, nil)

	res, err := uc.GetDaily(context.Background(), "2330", 5)
	require.NoError(t, err)
	assert.Len(t, res.Bars, 2)
}

func TestDailyUsecase_GetIndicators(t *testing.T) {
	provider := &mockHistoryProvider{HistoryFunc: func(ctx context.Context, symbol string, start, end time.Time, interval string) (*marketdata.Series, error) {
		return series(1, 2, 3, 4), nil
	}}
	uc, _, _ := newDaily(nil, provider, nil)

	res, err := uc.GetIndicators(context.Background(), "2330", 10, "MA2,RSI2")
	require.NoError(t, err)
	assert.Equal(t, []string{"MA2", "RSI2"}, res.Indicators)
	require.Len(t, res.Rows, 4)
	assert.Nil(t, res.Rows[0].Values["MA2"])
	require.NotNil(t, res.Rows[1].Values["MA2"])
	assert.Equal(t, 1.5, *res.Rows[1].Values["MA2"])
	assert.Nil(t, res.Rows[1].Values["RSI2"])
	require.NotNil(t, res.Rows[2].Values["RSI2"])

	_, err = uc.GetIndicators(context.Background(), "2330", 10, "MACD")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
