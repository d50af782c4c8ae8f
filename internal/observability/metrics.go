package observability

import (
	"sort"
	"sync"
	"time"
)

// Op identifies a store operation being measured.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpGet    Op = "get"
	OpDelete Op = "delete"
	OpFlush  Op = "flush"
)

// Collector accumulates operation counts and latencies in memory.
type Collector struct {
	mu    sync.RWMutex
	stats map[Op]*opStats
}

type opStats struct {
	count int64
	total time.Duration
	max   time.Duration
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		stats: make(map[Op]*opStats),
	}
}

// Record adds one observation for op.
func (c *Collector) Record(op Op, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.stats[op]
	if st == nil {
		st = &opStats{}
		c.stats[op] = st
	}
	st.count++
	st.total += d
	if d > st.max {
		st.max = d
	}
}

// Count returns the number of observations recorded for op.
func (c *Collector) Count(op Op) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if st := c.stats[op]; st != nil {
		return st.count
	}
	return 0
}

// Summary is a point-in-time aggregate for one operation.
type Summary struct {
	Op    Op            `json:"op"`
	Count int64         `json:"count"`
	Mean  time.Duration `json:"mean"`
	Max   time.Duration `json:"max"`
}

// Summaries returns aggregates for every operation seen so far, ordered
// by operation name.
func (c *Collector) Summaries() []Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Summary, 0, len(c.stats))
	for op, st := range c.stats {
		s := Summary{Op: op, Count: st.count, Max: st.max}
		if st.count > 0 {
			s.Mean = st.total / time.Duration(st.count)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Op < out[j].Op })
	return out
}

// Reset clears all accumulated statistics.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = make(map[Op]*opStats)
}
