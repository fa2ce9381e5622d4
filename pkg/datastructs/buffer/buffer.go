package buffer

import (
	"io"

	"github.com/pkg/errors"

	"github.com/huynhanx03/go-bytebuf/pkg/hash"
	"github.com/huynhanx03/go-bytebuf/pkg/utils"
)

// Buffer is a growable byte buffer with independent read and write cursors.
// Invariant: 0 <= readIdx <= writeIdx <= len(data).
// It is NOT thread-safe.
type Buffer struct {
	data      []byte // backing storage, len(data) is the capacity
	readIdx   int    // next byte to read
	writeIdx  int    // next byte to write
	markRead  int    // saved reader index
	markWrite int    // saved writer index
	max       int    // maximum allowed capacity (0 means unlimited)
	released  bool
	releaseFn func(data []byte)
}

// New creates a Buffer with the given capacity.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, capacity)}
}

// WithMaxLimit sets the hard limit for buffer growth.
func (b *Buffer) WithMaxLimit(max int) *Buffer {
	b.max = max
	return b
}

// OnRelease sets a callback that receives the storage when the buffer is released.
// Pools use it to take the storage back; the Buffer never touches it afterwards.
func (b *Buffer) OnRelease(fn func(data []byte)) *Buffer {
	b.releaseFn = fn
	return b
}

// ReaderIndex returns the current read position.
func (b *Buffer) ReaderIndex() int { return b.readIdx }

// WriterIndex returns the current write position.
func (b *Buffer) WriterIndex() int { return b.writeIdx }

// ReadableBytes returns the number of unread bytes.
func (b *Buffer) ReadableBytes() int { return b.writeIdx - b.readIdx }

// Capacity returns the length of the backing storage.
func (b *Buffer) Capacity() int { return len(b.data) }

// IsReleased reports whether Release has been called.
func (b *Buffer) IsReleased() bool { return b.released }

func (b *Buffer) check() error {
	if b.released {
		return ErrReleased
	}
	return nil
}

// grow ensures there is space for another n bytes at the writer index.
// New length is 2 * max(nextPow2(len), nextPow2(required)).
func (b *Buffer) grow(n int) error {
	required := b.writeIdx + n
	if required <= len(b.data) {
		return nil
	}
	if b.max > 0 && required > b.max {
		return errors.Wrapf(ErrMaxLimitExceeded, "limit: %d, required: %d", b.max, required)
	}

	newCap := 2 * max(utils.NextPowerOfTwo(len(b.data)), utils.NextPowerOfTwo(required))
	if b.max > 0 && newCap > b.max {
		newCap = b.max
	}

	newData := make([]byte, newCap)
	copy(newData, b.data)
	b.data = newData
	return nil
}

// WriteBytes appends src[offset:offset+length] at the writer index.
func (b *Buffer) WriteBytes(src []byte, offset, length int) error {
	if err := b.check(); err != nil {
		return err
	}
	if length < 0 {
		return errors.Wrapf(ErrNegativeCount, "length: %d", length)
	}
	if offset < 0 || offset > len(src)-length {
		return errors.Wrapf(ErrOutOfRange, "offset: %d, length: %d, src: %d", offset, length, len(src))
	}
	if err := b.grow(length); err != nil {
		return err
	}
	b.writeIdx += copy(b.data[b.writeIdx:], src[offset:offset+length])
	return nil
}

// Write implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.WriteBytes(p, 0, len(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString implements io.StringWriter without copying s first.
func (b *Buffer) WriteString(s string) (int, error) {
	return b.Write(utils.StringToBytes(s))
}

// WriteByte implements io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	if err := b.check(); err != nil {
		return err
	}
	if err := b.grow(1); err != nil {
		return err
	}
	b.data[b.writeIdx] = c
	b.writeIdx++
	return nil
}

// ReadByte implements io.ByteReader. It returns io.EOF when nothing is readable.
func (b *Buffer) ReadByte() (byte, error) {
	if err := b.check(); err != nil {
		return 0, err
	}
	if b.readIdx >= b.writeIdx {
		return 0, io.EOF
	}
	c := b.data[b.readIdx]
	b.readIdx++
	return c, nil
}

// ReadBytes fills dst[offset:offset+length] from the reader index.
func (b *Buffer) ReadBytes(dst []byte, offset, length int) error {
	if err := b.check(); err != nil {
		return err
	}
	if length < 0 {
		return errors.Wrapf(ErrNegativeCount, "length: %d", length)
	}
	if offset < 0 || offset > len(dst)-length {
		return errors.Wrapf(ErrOutOfRange, "offset: %d, length: %d, dst: %d", offset, length, len(dst))
	}
	if b.ReadableBytes() < length {
		return errors.Wrapf(ErrNotEnoughData, "need: %d, readable: %d", length, b.ReadableBytes())
	}
	b.readIdx += copy(dst[offset:offset+length], b.data[b.readIdx:b.writeIdx])
	return nil
}

// Read implements io.Reader.
func (b *Buffer) Read(p []byte) (int, error) {
	if err := b.check(); err != nil {
		return 0, err
	}
	if b.readIdx >= b.writeIdx {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, b.data[b.readIdx:b.writeIdx])
	b.readIdx += n
	return n, nil
}

// WriteTo implements io.WriterTo. It drains the unread bytes into w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	if err := b.check(); err != nil {
		return 0, err
	}
	data := b.data[b.readIdx:b.writeIdx]
	if len(data) == 0 {
		return 0, nil
	}
	n, err := w.Write(data)
	b.readIdx += n
	return int64(n), err
}

// ReadFrom implements io.ReaderFrom for efficient reads from r.
// Under a max limit each read is capped to the room left below it; the limit
// is reported only once no room is left and r still has data.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	if err := b.check(); err != nil {
		return 0, err
	}
	var total int64
	for {
		chunk := readFromChunk
		if b.max > 0 {
			chunk = min(chunk, max(b.max, len(b.data))-b.writeIdx)
		}
		if chunk <= 0 {
			if err := probeEOF(r); err != nil {
				return total, err
			}
			return total, nil
		}
		if len(b.data)-b.writeIdx < chunk {
			if err := b.grow(chunk); err != nil {
				return total, err
			}
		}
		n, err := r.Read(b.data[b.writeIdx:])
		if n > 0 {
			b.writeIdx += n
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

// probeEOF reads one byte to tell a drained reader from one with data left
// when the buffer is full at its limit. That byte is consumed and dropped.
func probeEOF(r io.Reader) error {
	var one [1]byte
	for {
		n, err := r.Read(one[:])
		if n > 0 {
			return errors.Wrap(ErrMaxLimitExceeded, "reader has more data")
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// MarkReaderIndex saves the reader index.
func (b *Buffer) MarkReaderIndex() error {
	if err := b.check(); err != nil {
		return err
	}
	b.markRead = b.readIdx
	return nil
}

// MarkWriterIndex saves the writer index.
func (b *Buffer) MarkWriterIndex() error {
	if err := b.check(); err != nil {
		return err
	}
	b.markWrite = b.writeIdx
	return nil
}

// ResetReaderIndex restores the reader index saved by MarkReaderIndex.
func (b *Buffer) ResetReaderIndex() error {
	if err := b.check(); err != nil {
		return err
	}
	b.readIdx = min(b.markRead, b.writeIdx)
	return nil
}

// ResetWriterIndex restores the writer index saved by MarkWriterIndex.
// The reader index is pulled back if it would pass the writer.
func (b *Buffer) ResetWriterIndex() error {
	if err := b.check(); err != nil {
		return err
	}
	b.writeIdx = min(b.markWrite, len(b.data))
	if b.readIdx > b.writeIdx {
		b.readIdx = b.writeIdx
	}
	return nil
}

// DiscardReadBytes drops the bytes before the reader index, shifting the unread
// window to offset 0 and shrinking the storage by the same amount.
func (b *Buffer) DiscardReadBytes() error {
	if err := b.check(); err != nil {
		return err
	}
	if b.readIdx == 0 {
		return nil
	}

	newData := make([]byte, len(b.data)-b.readIdx)
	copy(newData, b.data[b.readIdx:])
	b.data = newData

	b.writeIdx -= b.readIdx
	b.markRead = max(b.markRead-b.readIdx, 0)
	b.markWrite = max(b.markWrite-b.readIdx, 0)
	b.readIdx = 0
	return nil
}

// Clear zeroes the storage and resets cursors and marks. Capacity is kept.
func (b *Buffer) Clear() error {
	if err := b.check(); err != nil {
		return err
	}
	clear(b.data)
	b.readIdx, b.writeIdx = 0, 0
	b.markRead, b.markWrite = 0, 0
	return nil
}

// Clone returns an independent copy of the whole buffer, including bytes already read.
func (b *Buffer) Clone() (*Buffer, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &Buffer{
		data:      data,
		readIdx:   b.readIdx,
		writeIdx:  b.writeIdx,
		markRead:  b.markRead,
		markWrite: b.markWrite,
		max:       b.max,
	}, nil
}

// CopyRest returns a new buffer holding only the unread bytes, starting at 0.
func (b *Buffer) CopyRest() (*Buffer, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	data := make([]byte, b.ReadableBytes())
	copy(data, b.data[b.readIdx:b.writeIdx])
	return &Buffer{data: data, writeIdx: len(data), max: b.max}, nil
}

// ToArray returns a copy of the unread bytes.
func (b *Buffer) ToArray() ([]byte, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	out := make([]byte, b.ReadableBytes())
	copy(out, b.data[b.readIdx:b.writeIdx])
	return out, nil
}

// Bytes returns the unread bytes without copying.
// The slice is valid until the next write, discard or release.
// A released buffer returns nil; use ToArray to get ErrReleased instead.
func (b *Buffer) Bytes() []byte {
	if b.released {
		return nil
	}
	return b.data[b.readIdx:b.writeIdx]
}

// Sum64 returns the xxhash of the unread bytes.
func (b *Buffer) Sum64() (uint64, error) {
	if err := b.check(); err != nil {
		return 0, err
	}
	return hash.Sum64(b.data[b.readIdx:b.writeIdx]), nil
}

// Release drops the storage, or hands it to the release callback when one is set.
// Calling Release more than once is safe; the storage is handed over only once.
func (b *Buffer) Release() error {
	if b.released {
		return nil
	}
	data := b.data
	fn := b.releaseFn

	b.data = nil
	b.releaseFn = nil
	b.readIdx, b.writeIdx = 0, 0
	b.markRead, b.markWrite = 0, 0
	b.released = true

	if fn != nil {
		fn(data)
	}
	return nil
}
