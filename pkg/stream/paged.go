package stream

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-bytebuf/pkg/hash"
	"github.com/huynhanx03/go-bytebuf/pkg/utils"
)

const (
	// DefaultPageSize is the size of each page of a Paged stream (1 GiB).
	DefaultPageSize = 1 << 30

	// DefaultDirectoryStep is how many page slots the directory grows by at a time.
	DefaultDirectoryStep = 16
)

// Paged is a seekable stream over fixed-size rented pages.
// Byte i lives at pages[i/pageSize][i%pageSize].
// Invariant: len(pages) == ceil(length / pageSize) and 0 <= position <= length.
type Paged struct {
	alloc    Allocator
	pages    [][]byte
	pageSize int64
	step     int
	position int64
	length   int64
	closed   bool
	logger   *zap.Logger
}

// PagedOption configures a Paged stream.
type PagedOption func(*Paged)

// WithPageSize sets the page size. Non-positive values are ignored.
func WithPageSize(n int64) PagedOption {
	return func(p *Paged) {
		if n > 0 {
			p.pageSize = n
		}
	}
}

// WithDirectoryStep sets how many slots the page directory grows by. Non-positive values are ignored.
func WithDirectoryStep(n int) PagedOption {
	return func(p *Paged) {
		if n > 0 {
			p.step = n
		}
	}
}

// WithLogger sets the logger used for page accounting.
func WithLogger(l *zap.Logger) PagedOption {
	return func(p *Paged) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPaged creates an empty Paged stream.
func NewPaged(alloc Allocator, opts ...PagedOption) *Paged {
	p := &Paged{
		alloc:    alloc,
		pageSize: DefaultPageSize,
		step:     DefaultDirectoryStep,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.pages = make([][]byte, 0, p.step)
	return p
}

func (p *Paged) check() error {
	if p.closed {
		return ErrClosed
	}
	return nil
}

// Len returns the number of bytes in the stream.
func (p *Paged) Len() int64 { return p.length }

// Position returns the current read/write offset.
func (p *Paged) Position() int64 { return p.position }

// PageSize returns the fixed page size.
func (p *Paged) PageSize() int64 { return p.pageSize }

// Pages returns the number of pages held.
func (p *Paged) Pages() int { return len(p.pages) }

// directoryCap returns the number of page slots allocated in the directory.
func (p *Paged) directoryCap() int { return cap(p.pages) }

// ensureDirectory grows the directory by one step when every slot is used,
// keeping the existing page references.
func (p *Paged) ensureDirectory() {
	if len(p.pages) < cap(p.pages) {
		return
	}
	dir := make([][]byte, len(p.pages), cap(p.pages)+p.step)
	copy(dir, p.pages)
	p.pages = dir
}

// allocSpaceIfNeeded rents pages until target bytes are addressable.
func (p *Paged) allocSpaceIfNeeded(target int64) error {
	if target < 0 {
		return errors.Wrapf(ErrNegativeLength, "target: %d", target)
	}
	needed := utils.CeilDiv(target, p.pageSize)
	before := len(p.pages)
	for int64(len(p.pages)) < needed {
		p.ensureDirectory()
		page := p.alloc.Rent(int(p.pageSize))
		p.pages = append(p.pages, page[:p.pageSize])
	}
	if rented := len(p.pages) - before; rented > 0 {
		p.logger.Debug("paged: pages rented", zap.Int("rented", rented), zap.Int("pages", len(p.pages)))
	}
	return nil
}

// releasePagesFrom returns pages [n, len) to the allocator, last page first.
func (p *Paged) releasePagesFrom(n int) {
	released := 0
	for i := len(p.pages) - 1; i >= n; i-- {
		p.alloc.Return(p.pages[i])
		p.pages[i] = nil
		released++
	}
	p.pages = p.pages[:n]
	if released > 0 {
		p.logger.Debug("paged: pages released", zap.Int("released", released), zap.Int("pages", n))
	}
}

// clearRange zeroes bytes [from, to). Every byte in the range must sit in a held page.
func (p *Paged) clearRange(from, to int64) {
	for from < to {
		idx, off := from/p.pageSize, from%p.pageSize
		n := min(p.pageSize-off, to-from)
		clear(p.pages[idx][off : off+n])
		from += n
	}
}

// SetLength truncates or extends the stream, renting or releasing pages as needed.
// Bytes between the old and the new length read as zero, whether they sit in
// pages already held or in pages rented by this call.
func (p *Paged) SetLength(n int64) error {
	if err := p.check(); err != nil {
		return err
	}
	if n < 0 {
		return errors.Wrapf(ErrNegativeLength, "length: %d", n)
	}

	held := int64(len(p.pages))
	needed := utils.CeilDiv(n, p.pageSize)
	switch {
	case needed < held:
		p.releasePagesFrom(int(needed))
	case needed > held:
		if err := p.allocSpaceIfNeeded(n); err != nil {
			return err
		}
	}

	if n > p.length {
		p.clearRange(p.length, n)
	}
	p.length = n
	if p.position > p.length {
		p.position = p.length
	}
	return nil
}

// SetPosition moves the offset. It must stay within [0, Len()].
func (p *Paged) SetPosition(pos int64) error {
	if err := p.check(); err != nil {
		return err
	}
	if pos < 0 || pos > p.length {
		return errors.Wrapf(ErrSeekOutOfRange, "position: %d, length: %d", pos, p.length)
	}
	p.position = pos
	return nil
}

// Seek implements io.Seeker. The target must stay within [0, Len()].
func (p *Paged) Seek(offset int64, whence int) (int64, error) {
	if err := p.check(); err != nil {
		return 0, err
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = p.position + offset
	case io.SeekEnd:
		target = p.length + offset
	default:
		return 0, errors.Wrapf(ErrInvalidWhence, "whence: %d", whence)
	}

	if err := p.SetPosition(target); err != nil {
		return 0, err
	}
	return target, nil
}

// Read implements io.Reader.
func (p *Paged) Read(b []byte) (int, error) {
	if err := p.check(); err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}
	available := p.length - p.position
	if available <= 0 {
		return 0, io.EOF
	}

	count := int(min(int64(len(b)), available))
	read := 0
	for read < count {
		idx, off := p.position/p.pageSize, p.position%p.pageSize
		n := copy(b[read:count], p.pages[idx][off:])
		read += n
		p.position += int64(n)
	}
	return read, nil
}

// Write implements io.Writer. Space is allocated before any byte is copied.
func (p *Paged) Write(b []byte) (int, error) {
	if err := p.check(); err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}
	if err := p.allocSpaceIfNeeded(p.position + int64(len(b))); err != nil {
		return 0, err
	}

	written := 0
	for written < len(b) {
		idx, off := p.position/p.pageSize, p.position%p.pageSize
		n := copy(p.pages[idx][off:], b[written:])
		written += n
		p.position += int64(n)
	}
	p.length = max(p.length, p.position)
	return written, nil
}

// WriteTo implements io.WriterTo. It copies [0, Len()) page by page, regardless of position.
func (p *Paged) WriteTo(w io.Writer) (int64, error) {
	if err := p.check(); err != nil {
		return 0, err
	}
	var total int64
	for _, chunk := range p.chunks() {
		n, err := w.Write(chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadFrom implements io.ReaderFrom. It writes everything read from r at the position.
func (p *Paged) ReadFrom(r io.Reader) (int64, error) {
	if err := p.check(); err != nil {
		return 0, err
	}
	var total int64
	defer func() {
		// A page rented for a read that hit EOF holds no data.
		p.releasePagesFrom(int(utils.CeilDiv(p.length, p.pageSize)))
	}()
	for {
		if err := p.allocSpaceIfNeeded(p.position + 1); err != nil {
			return total, err
		}
		idx, off := p.position/p.pageSize, p.position%p.pageSize
		n, err := r.Read(p.pages[idx][off:])
		if n > 0 {
			p.position += int64(n)
			p.length = max(p.length, p.position)
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

// chunks returns the written part of every page.
func (p *Paged) chunks() [][]byte {
	out := make([][]byte, 0, len(p.pages))
	remaining := p.length
	for _, page := range p.pages {
		if remaining <= 0 {
			break
		}
		n := min(p.pageSize, remaining)
		out = append(out, page[:n])
		remaining -= n
	}
	return out
}

// Sum64 returns the xxhash of [0, Len()).
func (p *Paged) Sum64() (uint64, error) {
	if err := p.check(); err != nil {
		return 0, err
	}
	return hash.Sum64Chunks(p.chunks()...), nil
}

// Close returns every page to the allocator. Calling Close again is a no-op.
func (p *Paged) Close() error {
	if p.closed {
		return nil
	}
	p.releasePagesFrom(0)
	p.pages = nil
	p.position, p.length = 0, 0
	p.closed = true
	return nil
}
