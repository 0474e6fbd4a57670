package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis は miniredis を使ったテスト用クライアントを生成します。
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewRedis_DefaultNamespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "finmind", NewRedis(nil, "").namespace)
	assert.Equal(t, "custom", NewRedis(nil, "custom").namespace)
}

// TestRedis_GetHit はキャッシュヒット時に値をそのまま返すことを検証します。
func TestRedis_GetHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	c := NewRedis(rdb, "")

	mock.ExpectGet("finmind:stock_info:2330").SetVal(`{"stockCode":"2330"}`)

	got, ok := c.Get(context.Background(), "stock_info:2330")
	require.True(t, ok)
	assert.JSONEq(t, `{"stockCode":"2330"}`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRedis_GetMissAndError は redis.Nil と接続エラーをどちらもミスとして扱うことを検証します。
func TestRedis_GetMissAndError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	c := NewRedis(rdb, "")

	mock.ExpectGet("finmind:a").RedisNil()
	mock.ExpectGet("finmind:b").SetErr(errors.New("connection refused"))

	_, ok := c.Get(context.Background(), "a")
	assert.False(t, ok)
	_, ok = c.Get(context.Background(), "b")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_SetUsesTTL(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	c := NewRedis(rdb, "")

	value := []byte(`[1,2,3]`)
	mock.ExpectSet("finmind:daily_trade:2330:5", value, time.Hour).SetVal("OK")

	c.Set(context.Background(), "daily_trade:2330:5", value, time.Hour)
	c.Set(context.Background(), "ignored", value, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRedis_ClearAndStats は SCAN ベースの削除と件数集計を検証します。
func TestRedis_ClearAndStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rdb, mr := setupTestRedis(t)
	c := NewRedis(rdb, "")

	c.Set(ctx, "daily_trade:2330:5", []byte("a"), time.Hour)
	c.Set(ctx, "daily_trade:2330:30", []byte("b"), time.Hour)
	c.Set(ctx, "stock_info:2330", []byte("c"), time.Hour)
	require.NoError(t, mr.Set("other:key", "x"))

	assert.Equal(t, 3, c.Stats(ctx).TotalKeys)
	assert.Equal(t, 2, c.Clear(ctx, "daily_trade:2330:"))

	_, ok := c.Get(ctx, "stock_info:2330")
	assert.True(t, ok)
	assert.True(t, mr.Exists("other:key"), "keys outside the namespace are untouched")

	c.Delete(ctx, "stock_info:2330")
	assert.Equal(t, 0, c.Stats(ctx).TotalKeys)
}

// TestRedis_ClearMatchesLiterally は Clear がグロブ記号を文字として扱い、Memory と同じ件数を削除することを検証します。
func TestRedis_ClearMatchesLiterally(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		want    int
	}{
		{name: "asterisk", pattern: "*", want: 1},
		{name: "question mark", pattern: "?", want: 0},
		{name: "bracket", pattern: "[12]", want: 1},
		{name: "backslash", pattern: `\`, want: 0},
		{name: "plain substring", pattern: "2330", want: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			rdb, _ := setupTestRedis(t)
			backends := map[string]Cache{"redis": NewRedis(rdb, ""), "memory": NewMemory()}
			for name, c := range backends {
				c.Set(ctx, "daily_trade:2330:5", []byte("a"), time.Hour)
				c.Set(ctx, "note:*", []byte("b"), time.Hour)
				c.Set(ctx, "note:[12]", []byte("c"), time.Hour)

				assert.Equal(t, tt.want, c.Clear(ctx, tt.pattern), name)
			}
		})
	}
}

// TestRedis_TTLExpiry は Redis の TTL によってキーが失効することを検証します。
func TestRedis_TTLExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	rdb, mr := setupTestRedis(t)
	c := NewRedis(rdb, "")

	c.Set(ctx, "intraday:2330:1d:1m", []byte("x"), 60*time.Second)
	mr.FastForward(61 * time.Second)

	_, ok := c.Get(ctx, "intraday:2330:1d:1m")
	assert.False(t, ok)
}

func TestUsedMemoryMB(t *testing.T) {
	t.Parallel()

	info := "# Memory\r\nused_memory:2097152\r\nused_memory_human:2.00M\r\n"
	assert.InDelta(t, 2.0, usedMemoryMB(info), 0.001)
	assert.Equal(t, 0.0, usedMemoryMB("# Memory\r\n"))
}
