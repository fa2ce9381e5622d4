package hash

import (
	"github.com/cespare/xxhash/v2"
)

// Sum64 returns the xxhash of p.
func Sum64(p []byte) uint64 {
	return xxhash.Sum64(p)
}

// Sum64Chunks returns the xxhash of the concatenation of chunks without joining them.
// Sum64Chunks(a, b) == Sum64(append(a, b...)).
func Sum64Chunks(chunks ...[]byte) uint64 {
	d := xxhash.New()
	for _, c := range chunks {
		_, _ = d.Write(c)
	}
	return d.Sum64()
}

// New returns a streaming digest, usable as an io.Writer sink.
func New() *xxhash.Digest {
	return xxhash.New()
}
