package tensor

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

// Allocator obtains and recycles the flat storage behind a Buffer.
//
// Allocate must return a zeroed slice of exactly n elements. Free receives
// slices previously returned by Allocate once no Buffer refers to them.
type Allocator[T Element] interface {
	Allocate(n int) []T
	Free(data []T)
}

// HeapAllocator allocates from the Go heap and leaves reclamation to the GC.
type HeapAllocator[T Element] struct{}

// Allocate returns make([]T, n).
func (HeapAllocator[T]) Allocate(n int) []T {
	return make([]T, n)
}

// Free is a no-op.
func (HeapAllocator[T]) Free([]T) {}

// Pool buckets hold capacities 2^0 .. 2^(poolBuckets-1).
const poolBuckets = 48

// PoolAllocator recycles allocations through sync.Pool buckets keyed by the
// next power of two of the requested length. Allocations are reused across
// buffers of similar size, which keeps temporary-heavy workloads (sorted
// copies, reductions into scratch views) from churning the heap.
type PoolAllocator[T Element] struct {
	pools [poolBuckets]sync.Pool

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewPoolAllocator creates an empty pool.
func NewPoolAllocator[T Element]() *PoolAllocator[T] {
	return &PoolAllocator[T]{}
}

// Allocate returns a zeroed slice of length n, reusing a pooled backing
// array when one of the right bucket is available.
func (p *PoolAllocator[T]) Allocate(n int) []T {
	if n <= 0 {
		return nil
	}
	b := bucketOf(n)
	if b >= poolBuckets {
		p.misses.Add(1)
		return make([]T, n)
	}
	if v := p.pools[b].Get(); v != nil {
		p.hits.Add(1)
		data := (*v.(*[]T))[:n]
		clear(data)
		return data
	}
	p.misses.Add(1)
	return make([]T, n, 1<<b)
}

// Free returns data to its bucket. Slices whose capacity is not an exact
// power of two were not produced by this pool and are dropped.
func (p *PoolAllocator[T]) Free(data []T) {
	c := cap(data)
	if c == 0 || c&(c-1) != 0 {
		return
	}
	b := bucketOf(c)
	if b >= poolBuckets {
		return
	}
	data = data[:c]
	p.pools[b].Put(&data)
}

// PoolStats reports pool effectiveness.
type PoolStats struct {
	Hits   uint64
	Misses uint64
}

// Stats returns hit/miss counters.
func (p *PoolAllocator[T]) Stats() PoolStats {
	return PoolStats{Hits: p.hits.Load(), Misses: p.misses.Load()}
}

// HitRate returns the fraction of allocations served from the pool.
func (s PoolStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// bucketOf returns ceil(log2(n)).
func bucketOf(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}
