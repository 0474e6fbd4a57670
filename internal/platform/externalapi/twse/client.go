package twse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Yili-code/FinMind-Lab/internal/shared/marketdata"
	"github.com/Yili-code/FinMind-Lab/internal/shared/numeric"
)

// Client は TWSE の HTTP クライアントです。
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient は Client を生成します。呼び出し頻度の制御は呼び出し側で行います。
func NewClient(cfg Config, client *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 2 * time.Second
	}
	return &Client{cfg: cfg, client: client}
}

// Month は1銘柄1か月分の日足です。
type Month struct {
	StockNo string
	Name    string
	Rows    []marketdata.RawCandle
}

// MonthlyBars は stockNo の month を含む月の日足を返します。
// 該当データがない月は Rows が空の Month を返します。価格の欠損（"--"）は nil のまま返します。
func (c *Client) MonthlyBars(ctx context.Context, stockNo string, month time.Time) (*Month, error) {
	q := url.Values{}
	q.Set("response", "json")
	q.Set("date", month.Format("200601")+"01")
	q.Set("stockNo", stockNo)
	u := c.cfg.BaseURL + "/exchangeReport/STOCK_DAY?" + q.Encode()

	var body stockDayResponse
	attempt := 0
	op := func() error {
		attempt++
		err := c.fetch(ctx, u, &body)
		if err != nil {
			slog.Warn("TWSE fetch failed", "stock_no", stockNo, "month", month.Format("2006-01"), "attempt", attempt, "error", err)
		}
		return err
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.cfg.RetryInterval), uint64(c.cfg.MaxAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, b); err != nil {
		return nil, fmt.Errorf("twse STOCK_DAY %s %s: %w", stockNo, month.Format("2006-01"), err)
	}

	out := &Month{StockNo: stockNo, Rows: []marketdata.RawCandle{}}
	if body.Stat != "OK" {
		slog.Info("TWSE returned no data", "stock_no", stockNo, "month", month.Format("2006-01"), "stat", body.Stat)
		return out, nil
	}
	rows, err := parseRows(body.Fields, body.Data)
	if err != nil {
		return nil, err
	}
	out.Name = nameFromTitle(body.Title, stockNo)
	out.Rows = rows
	return out, nil
}

// nameFromTitle は "114年01月 2330 台積電 各日成交資訊" から銘柄名を取り出します。
func nameFromTitle(title, stockNo string) string {
	fields := strings.Fields(title)
	for i, f := range fields {
		if f == stockNo && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}

func (c *Client) fetch(ctx context.Context, u string, out *stockDayResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("twse http %d", res.StatusCode)
	}
	if res.StatusCode >= 400 {
		return backoff.Permanent(fmt.Errorf("twse http %d", res.StatusCode))
	}
	*out = stockDayResponse{}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode twse response: %w", err)
	}
	return nil
}

// parseRows は列見出しで列位置を決め、各行を RawCandle に変換します。
func parseRows(fields []string, rows [][]string) ([]marketdata.RawCandle, error) {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[strings.TrimSpace(f)] = i
	}
	dateCol, ok := idx[fieldDate]
	if !ok {
		return nil, fmt.Errorf("twse response has no %q column: %v", fieldDate, fields)
	}

	cell := func(row []string, name string) *float64 {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return nil
		}
		v, ok := numeric.ParseNumber(row[i])
		if !ok {
			return nil
		}
		return &v
	}

	out := make([]marketdata.RawCandle, 0, len(rows))
	for _, row := range rows {
		if dateCol >= len(row) {
			continue
		}
		d, err := ParseROCDate(row[dateCol])
		if err != nil {
			slog.Warn("skip TWSE row with bad date", "value", row[dateCol], "error", err)
			continue
		}
		out = append(out, marketdata.RawCandle{
			Time:   d,
			Open:   cell(row, fieldOpen),
			High:   cell(row, fieldHigh),
			Low:    cell(row, fieldLow),
			Close:  cell(row, fieldClose),
			Volume: cell(row, fieldVolume),
		})
	}
	return out, nil
}

// ParseROCDate は民国暦の日付（"114/01/02"）を台北時間の time.Time に変換します。
func ParseROCDate(s string) (time.Time, error) {
	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '/' {
			return r
		}
		return -1
	}, s)
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid ROC date %q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid ROC date %q: %w", s, err)
		}
		nums[i] = n
	}
	d := time.Date(nums[0]+1911, time.Month(nums[1]), nums[2], 0, 0, 0, 0, marketdata.TaipeiLocation())
	// 2月30日のような正規化される日付は拒否します。
	if d.Year() != nums[0]+1911 || int(d.Month()) != nums[1] || d.Day() != nums[2] {
		return time.Time{}, fmt.Errorf("invalid ROC date %q", s)
	}
	return d, nil
}
