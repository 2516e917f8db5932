// Package tracker counts upstream provider usage for the stats endpoint.
package tracker

import (
	"sync"
	"sync/atomic"
)

// ProviderStats holds counters for one upstream provider.
// Fields are accessed atomically.
type ProviderStats struct {
	Requests    int64
	Failures    int64
	CacheHits   int64
	CacheMisses int64
}

// Tracker tracks usage statistics per provider.
type Tracker struct {
	mu    sync.RWMutex
	stats map[string]*ProviderStats
}

// New creates a new Tracker.
func New() *Tracker {
	return &Tracker{stats: make(map[string]*ProviderStats)}
}

func (t *Tracker) get(provider string) *ProviderStats {
	t.mu.RLock()
	s, ok := t.stats[provider]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok = t.stats[provider]; ok {
		return s
	}
	s = &ProviderStats{}
	t.stats[provider] = s
	return s
}

// Request records a completed upstream call; failed marks it as unsuccessful.
func (t *Tracker) Request(provider string, failed bool) {
	s := t.get(provider)
	atomic.AddInt64(&s.Requests, 1)
	if failed {
		atomic.AddInt64(&s.Failures, 1)
	}
}

// CacheHit records a response served from cache.
func (t *Tracker) CacheHit(provider string) {
	atomic.AddInt64(&t.get(provider).CacheHits, 1)
}

// CacheMiss records a cache lookup that went to the network.
func (t *Tracker) CacheMiss(provider string) {
	atomic.AddInt64(&t.get(provider).CacheMisses, 1)
}

// Snapshot returns a copy of the current stats.
func (t *Tracker) Snapshot() map[string]ProviderStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]ProviderStats, len(t.stats))
	for name, s := range t.stats {
		out[name] = ProviderStats{
			Requests:    atomic.LoadInt64(&s.Requests),
			Failures:    atomic.LoadInt64(&s.Failures),
			CacheHits:   atomic.LoadInt64(&s.CacheHits),
			CacheMisses: atomic.LoadInt64(&s.CacheMisses),
		}
	}
	return out
}
