package byteslice

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"

	"github.com/huynhanx03/go-bytebuf/pkg/pool/internal/bucketed"
)

// Pool rents byte slices in power-of-two size classes.
// It is safe for concurrent use and has no bound on the number of idle slices;
// idle slices are reclaimed by the runtime like any sync.Pool content.
type Pool struct {
	slices      *bucketed.Pool[[]byte]
	rented      sync.Map // *byte (base of a rented slice) -> struct{}
	outstanding atomic.Int64
	logger      *zap.Logger
}

// Option configures a Pool.
type Option func(*options)

type options struct {
	noClear bool
	logger  *zap.Logger
}

// WithoutClear keeps returned slices as they are instead of zeroing them.
// Renters then see stale bytes and must treat fresh storage as garbage.
func WithoutClear() Option {
	return func(o *options) { o.noClear = true }
}

// WithLogger sets the logger used for pool diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates a Pool.
func New(opts ...Option) *Pool {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	var resetFunc func([]byte)
	if !o.noClear {
		resetFunc = func(b []byte) { clear(b) }
	}

	return &Pool{
		slices: bucketed.New(
			// newFunc: create []byte of given size
			func(size int) []byte {
				return make([]byte, size)
			},
			// sizeFunc: get capacity of slice
			func(b []byte) int {
				return cap(b)
			},
			resetFunc,
		),
		logger: o.logger,
	}
}

// shared backs Shared. Components take a *Pool explicitly; this instance only
// exists for callers that want one process-wide pool.
var shared = New()

// Shared returns the process-wide Pool. It is safe for concurrent use.
func Shared() *Pool {
	return shared
}

// Rent returns a slice of length size. Its capacity is the covering size class.
// Rent(0) returns nil.
func (p *Pool) Rent(size int) []byte {
	if size <= 0 {
		return nil
	}
	b := p.slices.Get(size)
	p.rented.Store(unsafe.SliceData(b), struct{}{})
	p.outstanding.Add(1)
	return b[:size]
}

// Return gives a rented slice back. The caller must not use b afterwards.
// Returning a nil or zero-capacity slice is a no-op. A slice this pool did not
// rent, or one already returned, is ignored: it neither lowers Outstanding nor
// enters a bucket.
func (p *Pool) Return(b []byte) {
	if cap(b) == 0 {
		return
	}
	if _, ok := p.rented.LoadAndDelete(unsafe.SliceData(b)); !ok {
		p.logger.Debug("byteslice: slice not rented from this pool", zap.Int("cap", cap(b)))
		return
	}
	p.outstanding.Add(-1)
	if !p.slices.Put(b[:cap(b)]) {
		p.logger.Debug("byteslice: slice not pooled", zap.Int("cap", cap(b)))
	}
}

// Outstanding returns the number of rented slices not yet returned.
func (p *Pool) Outstanding() int64 {
	return p.outstanding.Load()
}

// Stats returns the underlying bucket counters.
func (p *Pool) Stats() bucketed.Stats {
	return p.slices.Stats()
}

// BucketSize returns the size of bucket at index i.
func BucketSize(i int) int {
	return bucketed.BucketSize(i)
}
