// Package stream provides seekable byte streams over pool-rented storage.
//
// Segment keeps its bytes in one contiguous rented slice and grows by an
// over-expansion factor. Paged keeps its bytes in fixed-size rented pages so
// that lengths far beyond a single allocation stay addressable.
//
// Neither type is safe for concurrent use. Both must be closed to give their
// storage back to the allocator.
package stream

// Allocator rents and takes back byte slices.
// *byteslice.Pool satisfies it.
type Allocator interface {
	// Rent returns a slice of length size; its capacity may be larger.
	Rent(size int) []byte
	// Return takes back a slice obtained from Rent.
	Return(b []byte)
}
