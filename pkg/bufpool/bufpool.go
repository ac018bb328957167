// Package bufpool recycles the byte slices used to frame outgoing RPC
// records and to read from the transport.
//
// Three size classes cover the traffic of an NFSv4 client:
//   - Small (4KiB): NULL pings and metadata compounds
//   - Medium (64KiB): socket reads and typical READ replies
//   - Large (1MiB): bulk READ/WRITE payloads
//
// Requests above the large class are allocated directly and never pooled,
// so an occasional MaxRecordSize record does not stay resident.
//
// Usage:
//
//	buf := bufpool.Get(size)
//	defer bufpool.Put(buf)
package bufpool

import "sync"

const (
	DefaultSmallSize  = 4 << 10
	DefaultMediumSize = 64 << 10
	DefaultLargeSize  = 1 << 20
)

// Pool is a set of sync.Pools keyed by size class. The zero value is not
// usable; call NewPool.
type Pool struct {
	classes []class
}

type class struct {
	size int
	pool *sync.Pool
}

// Config overrides the class sizes. Zero fields keep the defaults.
type Config struct {
	SmallSize  int
	MediumSize int
	LargeSize  int
}

// NewPool creates a pool. cfg may be nil.
func NewPool(cfg *Config) *Pool {
	sizes := [3]int{DefaultSmallSize, DefaultMediumSize, DefaultLargeSize}
	if cfg != nil {
		for i, v := range [3]int{cfg.SmallSize, cfg.MediumSize, cfg.LargeSize} {
			if v > 0 {
				sizes[i] = v
			}
		}
	}

	p := &Pool{}
	for _, size := range sizes {
		size := size
		p.classes = append(p.classes, class{
			size: size,
			pool: &sync.Pool{New: func() any {
				buf := make([]byte, size)
				return &buf
			}},
		})
	}
	return p
}

// Get returns a slice of length size. Its capacity is the size class, so
// callers must not rely on cap.
func (p *Pool) Get(size int) []byte {
	for _, c := range p.classes {
		if size <= c.size {
			buf := *c.pool.Get().(*[]byte)
			return buf[:size]
		}
	}
	return make([]byte, size)
}

// Put returns buf to its class. Slices whose capacity does not match a
// class exactly (oversized allocations, foreign slices) are dropped.
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}
	for _, c := range p.classes {
		if cap(buf) == c.size {
			full := buf[:c.size]
			c.pool.Put(&full)
			return
		}
	}
}

var globalPool = NewPool(nil)

// Get returns a buffer of length size from the shared pool.
func Get(size int) []byte {
	return globalPool.Get(size)
}

// Put returns a buffer obtained from Get to the shared pool.
func Put(buf []byte) {
	globalPool.Put(buf)
}
