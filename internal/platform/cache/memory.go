package cache

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory はプロセス内のキャッシュです。期限切れエントリは読み出し時に削除されます。
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

var _ Cache = (*Memory)(nil)

// NewMemory は実時間で期限判定する Memory を生成します。
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock は任意の時計で期限判定する Memory を生成します。
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{items: make(map[string]memoryEntry), now: now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.items, key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
}

func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

func (m *Memory) Clear(_ context.Context, pattern string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pattern == "" {
		n := len(m.items)
		m.items = make(map[string]memoryEntry)
		return n
	}
	n := 0
	for k := range m.items {
		if strings.Contains(k, pattern) {
			delete(m.items, k)
			n++
		}
	}
	return n
}

// Stats は期限切れエントリを削除せずに数えます。
func (m *Memory) Stats(_ context.Context) Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	st := Stats{Backend: "memory", TotalKeys: len(m.items)}
	size := 0
	for k, e := range m.items {
		if now.Before(e.expiresAt) {
			st.ValidKeys++
		} else {
			st.ExpiredKeys++
		}
		size += len(k) + len(e.value)
	}
	st.CacheSizeMB = math.Round(float64(size)/(1024*1024)*100) / 100
	return st
}
