package stream

import (
	"testing"
	"unsafe"
)

// exactAllocator rents slices of exactly the requested size and fails the
// test on a double return or a return of a slice it never rented.
type exactAllocator struct {
	t        *testing.T
	live     map[*byte]int // storage -> rent sequence number
	rents    int
	returned []int // rent sequence numbers in return order
}

func newExactAllocator(t *testing.T) *exactAllocator {
	return &exactAllocator{t: t, live: make(map[*byte]int)}
}

func (a *exactAllocator) Rent(size int) []byte {
	if size <= 0 {
		return nil
	}
	b := make([]byte, size)
	a.live[unsafe.SliceData(b)] = a.rents
	a.rents++
	return b
}

func (a *exactAllocator) Return(b []byte) {
	if cap(b) == 0 {
		return
	}
	key := unsafe.SliceData(b)
	seq, ok := a.live[key]
	if !ok {
		a.t.Errorf("returned a slice that is not rented (cap %d)", cap(b))
		return
	}
	delete(a.live, key)
	a.returned = append(a.returned, seq)
}

func (a *exactAllocator) outstanding() int {
	return len(a.live)
}
