package stream

import (
	"io"
	"iter"
	"math"

	"github.com/pkg/errors"

	"github.com/huynhanx03/go-bytebuf/pkg/hash"
)

// DefaultOverExpansionFactor multiplies the required capacity when a Segment grows.
const DefaultOverExpansionFactor = 2

// readFromChunk is the minimum free space ReadFrom keeps ahead of each read.
const readFromChunk = 512

// Segment is a seekable stream over a single rented slice.
// Invariant: 0 <= position <= length <= len(data).
type Segment struct {
	alloc    Allocator
	data     []byte // rented storage, len(data) is the capacity
	position int
	length   int
	factor   int
	closed   bool
}

// SegmentOption configures a Segment.
type SegmentOption func(*Segment)

// WithOverExpansionFactor sets the growth multiplier. Values below 1 are ignored.
func WithOverExpansionFactor(f int) SegmentOption {
	return func(s *Segment) {
		if f >= 1 {
			s.factor = f
		}
	}
}

// NewSegment creates a Segment with storage for at least initialCapacity bytes.
func NewSegment(alloc Allocator, initialCapacity int, opts ...SegmentOption) (*Segment, error) {
	if initialCapacity < 0 {
		return nil, errors.Wrapf(ErrNegativeCapacity, "capacity: %d", initialCapacity)
	}
	s := &Segment{alloc: alloc, factor: DefaultOverExpansionFactor}
	for _, opt := range opts {
		opt(s)
	}
	s.data = s.rent(initialCapacity)
	return s, nil
}

func (s *Segment) rent(n int) []byte {
	b := s.alloc.Rent(n)
	return b[:cap(b)]
}

func (s *Segment) check() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// grow makes room for target bytes. The new storage is factor * target and
// becomes the sole owner of the content; the old slice goes back exactly once.
func (s *Segment) grow(target int) {
	if target <= len(s.data) {
		return
	}
	size := target
	if target <= math.MaxInt/s.factor {
		size = s.factor * target
	}

	newData := s.rent(size)
	copy(newData, s.data[:s.length])
	old := s.data
	s.data = newData
	s.alloc.Return(old)
}

// extend raises the length to n, zeroing bytes that were never written.
func (s *Segment) extend(n int) {
	if n > s.length {
		clear(s.data[s.length:n])
		s.length = n
	}
}

// Len returns the number of bytes in the stream.
func (s *Segment) Len() int { return s.length }

// IsClosed reports whether Close has been called.
func (s *Segment) IsClosed() bool { return s.closed }

// Cap returns the size of the current storage.
func (s *Segment) Cap() int { return len(s.data) }

// Position returns the current read/write offset.
func (s *Segment) Position() int { return s.position }

// Read implements io.Reader.
func (s *Segment) Read(p []byte) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if s.position >= s.length {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.position:s.length])
	s.position += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (s *Segment) ReadByte() (byte, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if s.position >= s.length {
		return 0, io.EOF
	}
	c := s.data[s.position]
	s.position++
	return c, nil
}

// Write implements io.Writer.
func (s *Segment) Write(p []byte) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	count := len(p)
	if len(s.data)-s.position < count {
		s.grow(s.position + count)
	}
	copy(s.data[s.position:], p)
	s.position += count
	s.length = max(s.position, s.length)
	return count, nil
}

// WriteByte implements io.ByteWriter.
func (s *Segment) WriteByte(c byte) error {
	if err := s.check(); err != nil {
		return err
	}
	if s.position >= len(s.data) {
		s.grow(s.position + 1)
	}
	s.data[s.position] = c
	s.position++
	s.length = max(s.position, s.length)
	return nil
}

// Seek implements io.Seeker.
// SeekStart and SeekCurrent must land within the current capacity. SeekEnd may
// land past it, in which case the storage grows first. A seek past the length
// extends the length.
func (s *Segment) Seek(offset int64, whence int) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = int64(s.position) + offset
	case io.SeekEnd:
		target = int64(s.length) + offset
	default:
		return 0, errors.Wrapf(ErrInvalidWhence, "whence: %d", whence)
	}

	if target < 0 || target > math.MaxInt {
		return 0, errors.Wrapf(ErrSeekOutOfRange, "target: %d", target)
	}
	if target > int64(len(s.data)) {
		if whence != io.SeekEnd {
			return 0, errors.Wrapf(ErrSeekOutOfRange, "target: %d, capacity: %d", target, len(s.data))
		}
		s.grow(int(target))
	}

	s.position = int(target)
	s.extend(s.position)
	return target, nil
}

// SetLength truncates or extends the stream. The position is clamped to the new length.
func (s *Segment) SetLength(n int) error {
	if err := s.check(); err != nil {
		return err
	}
	if n < 0 {
		return errors.Wrapf(ErrNegativeLength, "length: %d", n)
	}
	if n > len(s.data) {
		s.grow(n)
	}
	if n > s.length {
		s.extend(n)
	} else {
		s.length = n
	}
	if s.position > s.length {
		s.position = s.length
	}
	return nil
}

// WriteTo implements io.WriterTo. It copies [0, Len()) to w regardless of position.
func (s *Segment) WriteTo(w io.Writer) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	if s.length == 0 {
		return 0, nil
	}
	n, err := w.Write(s.data[:s.length])
	return int64(n), err
}

// ReadFrom implements io.ReaderFrom. It writes everything read from r at the position.
func (s *Segment) ReadFrom(r io.Reader) (int64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	var total int64
	for {
		if len(s.data)-s.position < readFromChunk {
			s.grow(s.position + readFromChunk)
		}
		n, err := r.Read(s.data[s.position:])
		if n > 0 {
			s.position += n
			s.length = max(s.position, s.length)
			total += int64(n)
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Bytes returns [0, Len()) without copying.
// The slice is valid until the next write or Close.
// A closed segment returns nil; ToArray reports ErrClosed instead.
func (s *Segment) Bytes() []byte {
	if s.closed {
		return nil
	}
	return s.data[:s.length]
}

// ToArray returns a copy of [0, Len()).
func (s *Segment) ToArray() ([]byte, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	out := make([]byte, s.length)
	copy(out, s.data[:s.length])
	return out, nil
}

// All yields [0, Len()) byte by byte without moving the position.
// A closed segment yields nothing; check IsClosed to tell it from an empty one.
func (s *Segment) All() iter.Seq[byte] {
	return func(yield func(byte) bool) {
		if s.closed {
			return
		}
		for i := 0; i < s.length; i++ {
			if !yield(s.data[i]) {
				return
			}
		}
	}
}

// Sum64 returns the xxhash of [0, Len()).
func (s *Segment) Sum64() (uint64, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return hash.Sum64(s.data[:s.length]), nil
}

// Close returns the storage to the allocator. Calling Close again is a no-op.
func (s *Segment) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.alloc.Return(s.data)
	s.data = nil
	s.position, s.length = 0, 0
	return nil
}
