// Package bufpool provides a tiered buffer pool for the tool's read paths.
//
// Stream inspection re-reads files in chunks, and a follow loop does so for
// as long as the file keeps growing; pooling the scratch buffers keeps a
// long-running tail from churning the garbage collector. Two size tiers
// cover the workloads here:
//   - small buffers (4KB) for unit scratch and row formatting
//   - chunk buffers (64KB) for bulk reads from files and stdin
//
// Requests above the chunk tier allocate directly and are never pooled, so
// an occasional oversized read cannot pin memory. All operations are safe
// for concurrent use via sync.Pool.
//
// Usage:
//
//	buf := bufpool.Get(size)
//	defer bufpool.Put(buf)
package bufpool

import "sync"

// Default buffer size classes.
const (
	// DefaultSmallSize covers unit scratch and formatting (4KB).
	DefaultSmallSize = 4 << 10

	// DefaultChunkSize covers bulk reads (64KB).
	DefaultChunkSize = 64 << 10
)

// Pool manages byte slices in two size classes and falls back to direct
// allocation for oversized requests.
type Pool struct {
	small     sync.Pool
	chunk     sync.Pool
	smallSize int
	chunkSize int
}

// NewPool creates a pool with the given tier sizes. Zero or negative sizes
// fall back to the defaults.
func NewPool(smallSize, chunkSize int) *Pool {
	if smallSize <= 0 {
		smallSize = DefaultSmallSize
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	p := &Pool{smallSize: smallSize, chunkSize: chunkSize}
	p.small.New = func() any {
		buf := make([]byte, p.smallSize)
		return &buf
	}
	p.chunk.New = func() any {
		buf := make([]byte, p.chunkSize)
		return &buf
	}

	return p
}

// Get returns a byte slice of exactly the requested length, backed by a
// pooled buffer when the request fits a tier. The caller must hand the
// slice back with Put; buffers above the chunk tier are allocated directly
// and Put will simply drop them.
func (p *Pool) Get(size int) []byte {
	var bufPtr *[]byte

	switch {
	case size <= p.smallSize:
		bufPtr = p.small.Get().(*[]byte)
	case size <= p.chunkSize:
		bufPtr = p.chunk.Get().(*[]byte)
	default:
		return make([]byte, size)
	}

	return (*bufPtr)[:size]
}

// Put returns a buffer obtained from Get to its tier. Buffers that match no
// tier capacity are left for the garbage collector.
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}

	full := buf[:cap(buf)]
	switch cap(buf) {
	case p.smallSize:
		p.small.Put(&full)
	case p.chunkSize:
		p.chunk.Put(&full)
	}
}

// =============================================================================
// Global Pool
// =============================================================================

var globalPool = NewPool(0, 0)

// Get returns a byte slice of exactly the requested length from the global
// pool. Pair it with Put, usually via defer.
func Get(size int) []byte {
	return globalPool.Get(size)
}

// Put returns a buffer to the global pool.
func Put(buf []byte) {
	globalPool.Put(buf)
}
