// Package bytestore wires the buffer pool, the array pool and both stream kinds
// from a single settings.Config.
package bytestore

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-bytebuf/pkg/datastructs/buffer"
	bufpool "github.com/huynhanx03/go-bytebuf/pkg/pool/buffer"
	"github.com/huynhanx03/go-bytebuf/pkg/pool/byteslice"
	"github.com/huynhanx03/go-bytebuf/pkg/settings"
	"github.com/huynhanx03/go-bytebuf/pkg/stream"
)

// ErrArraysLeaked is returned by Close when rented arrays were never returned.
var ErrArraysLeaked = errors.New("bytestore: arrays not returned")

// Store owns one buffer pool and one array pool. Streams it creates rent from
// the array pool; buffers come from the buffer pool.
type Store struct {
	cfg     settings.Config
	buffers *bufpool.Pool
	arrays  *byteslice.Pool
	logger  *zap.Logger
}

// New validates cfg and builds the pools. A nil logger discards output.
func New(cfg settings.Config, logger *zap.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	arrayOpts := []byteslice.Option{byteslice.WithLogger(logger)}
	if !cfg.ArrayPool.ClearOnReturn {
		arrayOpts = append(arrayOpts, byteslice.WithoutClear())
	}

	return &Store{
		cfg: cfg,
		buffers: bufpool.New(
			bufpool.WithMaxPooled(cfg.BufferPool.MaxPooled),
			bufpool.WithMaxRetained(cfg.BufferPool.MaxRetained),
			bufpool.WithMaxLimit(cfg.BufferPool.MaxLimit),
			bufpool.WithLogger(logger),
		),
		arrays: byteslice.New(arrayOpts...),
		logger: logger,
	}, nil
}

// Buffer returns a pool-sourced buffer. capacity <= 0 uses the configured default.
func (s *Store) Buffer(capacity int) *buffer.Buffer {
	if capacity <= 0 {
		capacity = s.cfg.BufferPool.DefaultCapacity
	}
	return s.buffers.Allocate(capacity, true)
}

// Segment returns a contiguous stream backed by the array pool.
// initialCapacity <= 0 uses the configured default.
func (s *Store) Segment(initialCapacity int) (*stream.Segment, error) {
	if initialCapacity <= 0 {
		initialCapacity = s.cfg.SegmentStream.InitialCapacity
	}
	return stream.NewSegment(s.arrays, initialCapacity,
		stream.WithOverExpansionFactor(s.cfg.SegmentStream.OverExpansionFactor))
}

// Paged returns a paged stream backed by the array pool.
func (s *Store) Paged() *stream.Paged {
	return stream.NewPaged(s.arrays,
		stream.WithPageSize(s.cfg.PagedStream.PageSize),
		stream.WithDirectoryStep(s.cfg.PagedStream.DirectoryStep),
		stream.WithLogger(s.logger),
	)
}

// BufferPool returns the pool that backs Buffer.
func (s *Store) BufferPool() *bufpool.Pool { return s.buffers }

// ArrayPool returns the pool that backs Segment and Paged storage.
func (s *Store) ArrayPool() *byteslice.Pool { return s.arrays }

// Close closes the buffer pool and checks that every rented array came back.
// Both leak kinds are reported in one error.
func (s *Store) Close() error {
	err := s.buffers.Close()

	if n := s.arrays.Outstanding(); n > 0 {
		s.logger.Warn("bytestore: closed with rented arrays", zap.Int64("outstanding", n))
		err = multierr.Append(err, errors.Wrapf(ErrArraysLeaked, "outstanding: %d", n))
	}
	return err
}
