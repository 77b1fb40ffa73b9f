package router

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats is a point-in-time copy of the router's generate counters.
type Stats struct {
	TotalRequests   int64            `json:"total_requests"`
	Dispatched      map[string]int64 `json:"dispatched"`
	TransportErrors map[string]int64 `json:"transport_errors"`
	Unconfigured    int64            `json:"unconfigured"`
	Placeholders    int64            `json:"placeholders"`
	Reloads         int64            `json:"reloads"`
	Since           time.Time        `json:"since"`
}

// atomicStats keeps lock-free counters for the life of a Router.
type atomicStats struct {
	total        atomic.Int64
	unconfigured atomic.Int64
	placeholders atomic.Int64
	reloads      atomic.Int64

	dispatched sync.Map // map[string]*atomic.Int64
	errors     sync.Map // map[string]*atomic.Int64

	since time.Time
}

func newAtomicStats() *atomicStats {
	return &atomicStats{since: time.Now()}
}

func increment(m *sync.Map, key string) {
	val, _ := m.LoadOrStore(key, &atomic.Int64{})
	val.(*atomic.Int64).Add(1)
}

func snapshot(m *sync.Map) map[string]int64 {
	out := make(map[string]int64)
	m.Range(func(key, value any) bool {
		out[key.(string)] = value.(*atomic.Int64).Load()
		return true
	})
	return out
}

func (s *atomicStats) snapshot() Stats {
	return Stats{
		TotalRequests:   s.total.Load(),
		Dispatched:      snapshot(&s.dispatched),
		TransportErrors: snapshot(&s.errors),
		Unconfigured:    s.unconfigured.Load(),
		Placeholders:    s.placeholders.Load(),
		Reloads:         s.reloads.Load(),
		Since:           s.since,
	}
}
