package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/Yili-code/FinMind-Lab/internal/platform/externalapi/yahoo/dto"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
	"github.com/Yili-code/FinMind-Lab/internal/shared/marketdata"
)

// Client は Yahoo Finance のHTTPクライアントです。
// シンボルは変換済み（"2330.TW" など）で渡されることを前提とします。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient は Client を生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{cfg: cfg, client: client, limiter: rate.NewLimiter(limit, 1)}
}

// getJSON は GET リクエストを送り、レスポンスを out へデコードします。
// 404 は apperr.ErrNoData、429 は apperr.ErrRateLimited に変換します。
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.cfg.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: yahoo %s returned 404", apperr.ErrNoData, path)
	case res.StatusCode == http.StatusTooManyRequests:
		return apperr.Diagnose(apperr.ErrRateLimited, "market data provider is throttling requests, retry later")
	case res.StatusCode >= 400:
		return fmt.Errorf("yahoo http %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode yahoo response: %w", err)
	}
	return nil
}

// chart は /v8/finance/chart を呼び出し、最初の結果を返します。
func (c *Client) chart(ctx context.Context, symbol string, q url.Values) (*dto.ChartResult, error) {
	var body dto.ChartResponse
	if err := c.getJSON(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), q, &body); err != nil {
		return nil, err
	}
	if e := body.Chart.Error; e != nil {
		if e.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", apperr.ErrNoData, e.Description)
		}
		return nil, fmt.Errorf("yahoo chart: %s: %s", e.Code, e.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: empty chart for %s", apperr.ErrNoData, symbol)
	}
	return &body.Chart.Result[0], nil
}

// quoteSummary は /v10/finance/quoteSummary を呼び出します。
func (c *Client) quoteSummary(ctx context.Context, symbol string, modules string) (*dto.QuoteSummaryResult, error) {
	q := url.Values{}
	q.Set("modules", modules)

	var body dto.QuoteSummaryResponse
	if err := c.getJSON(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), q, &body); err != nil {
		return nil, err
	}
	if e := body.QuoteSummary.Error; e != nil {
		if e.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", apperr.ErrNoData, e.Description)
		}
		return nil, fmt.Errorf("yahoo quoteSummary: %s: %s", e.Code, e.Description)
	}
	if len(body.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: empty quoteSummary for %s", apperr.ErrNoData, symbol)
	}
	return &body.QuoteSummary.Result[0], nil
}

// History は [start, end) の日足などを取得します。
func (c *Client) History(ctx context.Context, symbol string, start, end time.Time, interval string) (*marketdata.Series, error) {
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.Unix(), 10))
	q.Set("interval", interval)
	q.Set("includePrePost", "false")
	q.Set("events", "div,splits")

	res, err := c.chart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}
	return toSeries(symbol, res), nil
}

// Range は range 指定（"1d", "5d" など）で系列を取得します。分足の取得に使います。
func (c *Client) Range(ctx context.Context, symbol, rng, interval string) (*marketdata.Series, error) {
	q := url.Values{}
	q.Set("range", rng)
	q.Set("interval", interval)
	q.Set("includePrePost", "false")

	res, err := c.chart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}
	return toSeries(symbol, res), nil
}

// toSeries はチャート結果を Series に変換します。終値が欠損した時刻は捨てます。
func toSeries(symbol string, res *dto.ChartResult) *marketdata.Series {
	s := &marketdata.Series{
		Symbol:   symbol,
		Name:     displayName(res.Meta.LongName, res.Meta.ShortName, symbol),
		Timezone: res.Meta.ExchangeTimezoneName,
	}
	if len(res.Indicators.Quote) == 0 {
		return s
	}
	q := res.Indicators.Quote[0]

	s.Candles = make([]marketdata.Candle, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		cl, ok := at(q.Close, i)
		if !ok {
			continue
		}
		open := orDefault(q.Open, i, cl)
		high := orDefault(q.High, i, max(open, cl))
		low := orDefault(q.Low, i, min(open, cl))
		vol := orDefault(q.Volume, i, 0)
		s.Candles = append(s.Candles, marketdata.Candle{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  cl,
			Volume: int64(vol),
		})
	}
	return s
}

func at(xs []*float64, i int) (float64, bool) {
	if i >= len(xs) || xs[i] == nil {
		return 0, false
	}
	return *xs[i], true
}

func orDefault(xs []*float64, i int, def float64) float64 {
	if v, ok := at(xs, i); ok {
		return v
	}
	return def
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func displayName(long, short, fallback string) string {
	if long != "" {
		return long
	}
	if short != "" {
		return short
	}
	return fallback
}
