package cache

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis は Redis をバックエンドとするキャッシュです。
// 有効期限は Redis の TTL に任せるため、期限切れキーは統計に現れません。
type Redis struct {
	rdb       *redis.Client
	namespace string
}

var _ Cache = (*Redis)(nil)

// NewRedis は Redis キャッシュを生成します。namespace が空の場合は "finmind" を使います。
func NewRedis(rdb *redis.Client, namespace string) *Redis {
	if namespace == "" {
		namespace = "finmind"
	}
	return &Redis{rdb: rdb, namespace: namespace}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("redis get failed", "key", key, "error", err)
		}
		return nil, false
	}
	if len(b) == 0 {
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := r.rdb.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		slog.Warn("redis set failed", "key", key, "error", err)
	}
}

func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		slog.Warn("redis del failed", "key", key, "error", err)
	}
}

// Clear は pattern を含むキーを削除します。pattern 中のグロブ記号は文字として扱います。
func (r *Redis) Clear(ctx context.Context, pattern string) int {
	n, err := r.deleteByPattern(ctx, r.namespace+":*"+escapeGlob(pattern)+"*")
	if err != nil {
		slog.Warn("redis clear failed", "pattern", pattern, "error", err)
	}
	return n
}

func (r *Redis) Stats(ctx context.Context) Stats {
	st := Stats{Backend: "redis"}
	n, err := r.countByPattern(ctx, r.namespace+":*")
	if err != nil {
		slog.Warn("redis scan failed", "error", err)
		return st
	}
	st.TotalKeys = n
	st.ValidKeys = n
	if info, err := r.rdb.Info(ctx, "memory").Result(); err == nil {
		st.CacheSizeMB = usedMemoryMB(info)
	}
	return st
}

func (r *Redis) key(k string) string {
	return r.namespace + ":" + k
}

// escapeGlob は SCAN MATCH のメタ文字をエスケープします。
func escapeGlob(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// deleteByPattern は SCAN でキーを列挙しながら削除します。
func (r *Redis) deleteByPattern(ctx context.Context, pattern string) (int, error) {
	var cursor uint64
	deleted := 0
	for {
		keys, cur, err := r.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := r.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += int(n)
		}
		cursor = cur
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func (r *Redis) countByPattern(ctx context.Context, pattern string) (int, error) {
	var cursor uint64
	total := 0
	for {
		keys, cur, err := r.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return total, err
		}
		total += len(keys)
		cursor = cur
		if cursor == 0 {
			return total, nil
		}
	}
}

// usedMemoryMB は INFO memory の used_memory をMB単位で返します。
func usedMemoryMB(info string) float64 {
	sc := bufio.NewScanner(strings.NewReader(info))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		v, ok := strings.CutPrefix(line, "used_memory:")
		if !ok {
			continue
		}
		b, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return math.Round(b/(1024*1024)*100) / 100
	}
	return 0
}
