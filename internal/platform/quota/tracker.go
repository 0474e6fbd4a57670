// Package quota は上流APIの呼び出し履歴を保持し、レート上限に対する使用量を集計します。
package quota

import (
	"math"
	"sync"
	"time"
)

// DefaultCapacity は保持する履歴の既定件数です。
const DefaultCapacity = 10000

// Limits は各ウィンドウの上限回数です。
type Limits struct {
	PerMinute int `json:"requests_per_minute"`
	PerHour   int `json:"requests_per_hour"`
	PerDay    int `json:"requests_per_day"`
}

// DefaultLimits は既定の上限です。
var DefaultLimits = Limits{PerMinute: 20, PerHour: 200, PerDay: 2000}

// Record は上流API呼び出し1回分の記録です。
type Record struct {
	Timestamp    time.Time     `json:"timestamp"`
	Endpoint     string        `json:"endpoint"`
	StockCode    string        `json:"stock_code"`
	Success      bool          `json:"success"`
	ResponseTime time.Duration `json:"-"`
}

// Usage はウィンドウごとの値です。
type Usage struct {
	Minute float64 `json:"minute"`
	Hour   float64 `json:"hour"`
	Day    float64 `json:"day"`
}

// Remaining はウィンドウごとの残り回数です。
type Remaining struct {
	Minute int `json:"minute"`
	Hour   int `json:"hour"`
	Day    int `json:"day"`
}

// Stats は使用状況のスナップショットです。
type Stats struct {
	TotalRequests      int       `json:"total_requests"`
	SuccessfulRequests int       `json:"successful_requests"`
	FailedRequests     int       `json:"failed_requests"`
	SuccessRate        float64   `json:"success_rate"`
	AvgResponseTime    float64   `json:"avg_response_time"`
	RecentRequests     int       `json:"recent_requests"`
	HourlyRequests     int       `json:"hourly_requests"`
	DailyRequests      int       `json:"daily_requests"`
	RateLimits         Limits    `json:"rate_limits"`
	UsagePercentage    Usage     `json:"usage_percentage"`
	RemainingQuota     Remaining `json:"remaining_quota"`
	UptimeSeconds      float64   `json:"uptime_seconds"`
}

// Check はレート上限の判定結果です。
type Check struct {
	MinuteOK bool `json:"minute_ok"`
	HourOK   bool `json:"hour_ok"`
	DayOK    bool `json:"day_ok"`
}

// OK はすべてのウィンドウが上限未満の場合に true を返します。
func (c Check) OK() bool { return c.MinuteOK && c.HourOK && c.DayOK }

// Tracker は固定長のリングバッファに呼び出し履歴を保持します。
// 容量を超えると最も古い記録から捨てられます。
type Tracker struct {
	mu      sync.Mutex
	limits  Limits
	records []Record
	next    int
	full    bool
	started time.Time
	now     func() time.Time
}

// NewTracker は Tracker を生成します。capacity が0以下の場合は DefaultCapacity を使います。
func NewTracker(limits Limits, capacity int) *Tracker {
	return NewTrackerWithClock(limits, capacity, time.Now)
}

// NewTrackerWithClock は任意の時計を使う Tracker を生成します。
func NewTrackerWithClock(limits Limits, capacity int, now func() time.Time) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tracker{
		limits:  limits,
		records: make([]Record, capacity),
		started: now(),
		now:     now,
	}
}

// Record は呼び出し1回分を記録します。
func (t *Tracker) Record(endpoint, stockCode string, success bool, responseTime time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records[t.next] = Record{
		Timestamp:    t.now(),
		Endpoint:     endpoint,
		StockCode:    stockCode,
		Success:      success,
		ResponseTime: responseTime,
	}
	t.next = (t.next + 1) % len(t.records)
	if t.next == 0 {
		t.full = true
	}
}

// Len は保持している記録の件数を返します。
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lenLocked()
}

func (t *Tracker) lenLocked() int {
	if t.full {
		return len(t.records)
	}
	return t.next
}

// snapshotLocked は古い順に並べた記録のコピーを返します。
func (t *Tracker) snapshotLocked() []Record {
	n := t.lenLocked()
	out := make([]Record, 0, n)
	if t.full {
		out = append(out, t.records[t.next:]...)
	}
	return append(out, t.records[:t.next]...)
}

// windowCountsLocked は直近1分・1時間・1日の件数を返します。
func (t *Tracker) windowCountsLocked(now time.Time) (minute, hour, day int) {
	for _, r := range t.snapshotLocked() {
		age := now.Sub(r.Timestamp)
		if age < time.Minute {
			minute++
		}
		if age < time.Hour {
			hour++
		}
		if age < 24*time.Hour {
			day++
		}
	}
	return minute, hour, day
}

// Check は各ウィンドウの件数が上限未満かどうかを返します。
func (t *Tracker) Check() Check {
	t.mu.Lock()
	defer t.mu.Unlock()

	minute, hour, day := t.windowCountsLocked(t.now())
	return Check{
		MinuteOK: minute < t.limits.PerMinute,
		HourOK:   hour < t.limits.PerHour,
		DayOK:    day < t.limits.PerDay,
	}
}

// Stats は使用状況を集計します。
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	records := t.snapshotLocked()
	st := Stats{
		TotalRequests: len(records),
		RateLimits:    t.limits,
		UptimeSeconds: round(now.Sub(t.started).Seconds(), 2),
	}

	var latency time.Duration
	for _, r := range records {
		if r.Success {
			st.SuccessfulRequests++
			latency += r.ResponseTime
		}
	}
	st.FailedRequests = st.TotalRequests - st.SuccessfulRequests
	if st.TotalRequests > 0 {
		st.SuccessRate = round(float64(st.SuccessfulRequests)/float64(st.TotalRequests)*100, 2)
	}
	if st.SuccessfulRequests > 0 {
		st.AvgResponseTime = round(latency.Seconds()/float64(st.SuccessfulRequests), 3)
	}

	st.RecentRequests, st.HourlyRequests, st.DailyRequests = t.windowCountsLocked(now)
	st.UsagePercentage = Usage{
		Minute: percent(st.RecentRequests, t.limits.PerMinute),
		Hour:   percent(st.HourlyRequests, t.limits.PerHour),
		Day:    percent(st.DailyRequests, t.limits.PerDay),
	}
	st.RemainingQuota = Remaining{
		Minute: max(0, t.limits.PerMinute-st.RecentRequests),
		Hour:   max(0, t.limits.PerHour-st.HourlyRequests),
		Day:    max(0, t.limits.PerDay-st.DailyRequests),
	}
	return st
}

// Recent は新しい順に最大 limit 件の記録を返します。
func (t *Tracker) Recent(limit int) []Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	records := t.snapshotLocked()
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}
	out := make([]Record, 0, limit)
	for i := len(records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, records[i])
	}
	return out
}

func percent(n, limit int) float64 {
	if limit <= 0 {
		return 0
	}
	return round(float64(n)/float64(limit)*100, 2)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
