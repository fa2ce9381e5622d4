package buffer

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-bytebuf/pkg/datastructs/buffer"
)

// DefaultMaxPooled is the default number of idle storage blocks a Pool keeps.
const DefaultMaxPooled = 200

// ErrLeaked is returned by Close when pool-sourced buffers were never released.
var ErrLeaked = errors.New("pool: buffers not released")

// Pool is a bounded pool of buffer storage.
//
// The pool keeps storage blocks, not *buffer.Buffer values: every Allocate
// wraps recycled storage in a fresh Buffer, so a handle that was released
// can never see data written by the next owner. Only enqueue and dequeue are
// serialized; buffers themselves are owned by a single caller.
type Pool struct {
	mu     sync.Mutex
	free   *queue.Queue // of []byte, cleared
	closed bool

	maxPooled   int
	maxRetained int
	maxLimit    int

	outstanding atomic.Int64
	logger      *zap.Logger
}

// Option configures a Pool.
type Option func(*Pool)

// WithMaxPooled sets how many idle storage blocks are kept (default 200).
func WithMaxPooled(n int) Option {
	return func(p *Pool) {
		if n >= 0 {
			p.maxPooled = n
		}
	}
}

// WithMaxRetained drops returned storage larger than n bytes instead of pooling it.
// Zero keeps any size.
func WithMaxRetained(n int) Option {
	return func(p *Pool) {
		if n >= 0 {
			p.maxRetained = n
		}
	}
}

// WithMaxLimit sets the growth limit applied to every buffer the pool hands out.
func WithMaxLimit(n int) Option {
	return func(p *Pool) {
		if n >= 0 {
			p.maxLimit = n
		}
	}
}

// WithLogger sets the logger used for pool diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Pool.
func New(opts ...Option) *Pool {
	p := &Pool{
		free:      queue.New(),
		maxPooled: DefaultMaxPooled,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns a pool-sourced buffer of the default capacity.
func (p *Pool) Get() *buffer.Buffer {
	return p.Allocate(buffer.DefaultCapacity, true)
}

// Allocate returns a buffer with at least the given capacity.
// With fromPool the storage is taken from the pool when one is idle and goes
// back to it on Release; otherwise the buffer is a plain allocation.
func (p *Pool) Allocate(capacity int, fromPool bool) *buffer.Buffer {
	if capacity < 0 {
		capacity = 0
	}
	if !fromPool {
		return buffer.New(capacity).WithMaxLimit(p.maxLimit)
	}

	data := p.take(capacity)
	if data == nil {
		data = make([]byte, capacity)
	}

	p.outstanding.Add(1)
	return buffer.Wrap(data).WithMaxLimit(p.maxLimit).OnRelease(p.give)
}

// take dequeues the first idle block of at least capacity bytes, or returns
// nil when none fits. Smaller blocks are rotated to the back and stay pooled.
func (p *Pool) take(capacity int) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	for n := p.free.Length(); n > 0; n-- {
		data := p.free.Remove().([]byte)
		if len(data) >= capacity {
			return data
		}
		p.free.Add(data)
	}
	if p.free.Length() > 0 {
		p.logger.Debug("pool: no idle storage large enough",
			zap.Int("idle", p.free.Length()), zap.Int("want", capacity))
	}
	return nil
}

// give is the release callback of pool-sourced buffers. Each Buffer calls it
// at most once, so storage is never enqueued twice.
func (p *Pool) give(data []byte) {
	p.outstanding.Add(-1)
	if len(data) == 0 {
		return
	}
	if p.maxRetained > 0 && len(data) > p.maxRetained {
		p.logger.Debug("pool: storage too large to retain", zap.Int("cap", len(data)))
		return
	}
	clear(data)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.free.Length() >= p.maxPooled {
		p.logger.Debug("pool: full, dropping storage", zap.Int("cap", len(data)))
		return
	}
	p.free.Add(data)
}

// Len returns the number of idle storage blocks.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.free.Length()
}

// MaxPooled returns the configured bound on idle storage blocks.
func (p *Pool) MaxPooled() int {
	return p.maxPooled
}

// Outstanding returns the number of pool-sourced buffers not yet released.
func (p *Pool) Outstanding() int64 {
	return p.outstanding.Load()
}

// Close drops every idle block and stops retaining new ones. Buffers still
// checked out are reported as a leak; they remain usable and are simply not
// pooled when released.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	for p.free.Length() > 0 {
		p.free.Remove()
	}
	p.mu.Unlock()

	if n := p.outstanding.Load(); n > 0 {
		p.logger.Warn("pool: closed with unreleased buffers", zap.Int64("outstanding", n))
		return errors.Wrapf(ErrLeaked, "outstanding: %d", n)
	}
	return nil
}
