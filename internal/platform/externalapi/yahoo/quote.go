package yahoo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	quoteentity "github.com/Yili-code/FinMind-Lab/internal/feature/quote/domain/entity"
	"github.com/Yili-code/FinMind-Lab/internal/shared/apperr"
	"github.com/Yili-code/FinMind-Lab/internal/shared/numeric"
)

// Quote は銘柄の最新スナップショットを取得します。
// 価格は chart のメタ情報から、時価総額・PER などは quoteSummary から補完します（取得できなければ0）。
func (c *Client) Quote(ctx context.Context, symbol string) (*quoteentity.Quote, error) {
	q := url.Values{}
	q.Set("range", "5d")
	q.Set("interval", "1d")

	res, err := c.chart(ctx, symbol, q)
	if err != nil {
		return nil, err
	}
	m := res.Meta
	if m.RegularMarketPrice == nil {
		return nil, fmt.Errorf("%w: no market price for %s", apperr.ErrNoData, symbol)
	}
	series := toSeries(symbol, res)

	out := &quoteentity.Quote{
		StockName:     series.Name,
		CurrentPrice:  *m.RegularMarketPrice,
		PreviousClose: deref(m.PreviousClose),
		Volume:        int64(deref(m.RegularMarketVolume)),
		High:          deref(m.RegularMarketDayHigh),
		Low:           deref(m.RegularMarketDayLow),
		High52Week:    deref(m.FiftyTwoWeekHigh),
		Low52Week:     deref(m.FiftyTwoWeekLow),
		UpdatedAt:     time.Now().UTC(),
	}
	if n := len(series.Candles); n > 0 {
		last := series.Candles[n-1]
		out.Open = last.Open
		if out.High == 0 {
			out.High = last.High
		}
		if out.Low == 0 {
			out.Low = last.Low
		}
		if out.Volume == 0 {
			out.Volume = last.Volume
		}
		if out.PreviousClose == 0 && n > 1 {
			out.PreviousClose = series.Candles[n-2].Close
		}
	}
	if out.PreviousClose == 0 {
		out.PreviousClose = deref(m.ChartPreviousClose)
	}
	if out.PreviousClose != 0 {
		out.Change = numeric.Round2(out.CurrentPrice - out.PreviousClose)
		out.ChangePercent = numeric.Percent(out.CurrentPrice-out.PreviousClose, out.PreviousClose)
	}

	c.enrichQuote(ctx, symbol, out)
	return out, nil
}

// enrichQuote は quoteSummary の summaryDetail で Quote を補完します。失敗しても Quote はそのまま使えます。
func (c *Client) enrichQuote(ctx context.Context, symbol string, out *quoteentity.Quote) {
	res, err := c.quoteSummary(ctx, symbol, "summaryDetail,price")
	if err != nil {
		slog.Debug("quoteSummary enrichment skipped", "symbol", symbol, "error", err)
		return
	}
	if p := res.Price; p != nil && out.StockName == symbol {
		out.StockName = displayName(p.LongName, p.ShortName, symbol)
	}
	d := res.SummaryDetail
	if d == nil {
		return
	}
	out.MarketCap = int64(d.MarketCap.Float())
	out.AverageVolume = int64(d.AverageVolume.Float())
	out.PERatio = numeric.Round2(d.TrailingPE.Float())
	out.DividendYield = numeric.Round2(d.DividendYield.Float() * 100)
	if out.High52Week == 0 {
		out.High52Week = d.FiftyTwoWeekHigh.Float()
	}
	if out.Low52Week == 0 {
		out.Low52Week = d.FiftyTwoWeekLow.Float()
	}
}
