package bucketed

import (
	"sync"
	"sync/atomic"
)

const (
	MinBitSize = 6  // 64 bytes (CPU cache line)
	Steps      = 25 // 64B to 1GB

	MinSize = 1 << MinBitSize
	MaxSize = 1 << (MinBitSize + Steps - 1)
)

// Pool is a generic pool with power-of-two size buckets.
// Items larger than MaxSize are created on demand and never retained.
type Pool[T any] struct {
	buckets   [Steps]sync.Pool
	newFunc   func(size int) T
	sizeFunc  func(T) int
	resetFunc func(T)

	gets   atomic.Uint64
	misses atomic.Uint64
	puts   atomic.Uint64
	drops  atomic.Uint64
}

// Stats is a snapshot of pool counters.
type Stats struct {
	Gets   uint64 // Get calls
	Misses uint64 // Get calls that had to create a new item
	Puts   uint64 // items accepted back into a bucket
	Drops  uint64 // items rejected by Put
}

// New creates a new bucketed pool. resetFunc may be nil.
func New[T any](newFunc func(size int) T, sizeFunc func(T) int, resetFunc func(T)) *Pool[T] {
	p := &Pool[T]{
		newFunc:   newFunc,
		sizeFunc:  sizeFunc,
		resetFunc: resetFunc,
	}
	for i := range p.buckets {
		size := MinSize << i
		p.buckets[i].New = func() any {
			p.misses.Add(1)
			return newFunc(size)
		}
	}
	return p
}

// Get returns an item whose size is the bucket size covering size.
func (p *Pool[T]) Get(size int) T {
	p.gets.Add(1)
	if size <= 0 {
		size = MinSize
	}

	idx := SizeToIndex(size)
	if idx >= Steps {
		p.misses.Add(1)
		return p.newFunc(size)
	}

	return p.buckets[idx].Get().(T)
}

// Put returns an item to the pool. Only items whose size is exactly a bucket
// size are kept, so Get never hands out an item smaller than requested.
func (p *Pool[T]) Put(item T) bool {
	size := p.sizeFunc(item)
	idx := SizeToIndex(size)
	if idx >= Steps || BucketSize(idx) != size {
		p.drops.Add(1)
		return false
	}

	if p.resetFunc != nil {
		p.resetFunc(item)
	}
	p.buckets[idx].Put(item)
	p.puts.Add(1)
	return true
}

// Stats returns the current counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Gets:   p.gets.Load(),
		Misses: p.misses.Load(),
		Puts:   p.puts.Load(),
		Drops:  p.drops.Load(),
	}
}

// SizeToIndex returns the bucket index for a given size.
func SizeToIndex(n int) int {
	n--
	n >>= MinBitSize
	idx := 0
	for n > 0 {
		n >>= 1
		idx++
	}
	return idx
}

// BucketSize returns the size of bucket at index i.
func BucketSize(i int) int {
	if i < 0 || i >= Steps {
		return 0
	}
	return MinSize << i
}
