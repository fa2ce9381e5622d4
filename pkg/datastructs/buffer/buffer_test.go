package buffer

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/huynhanx03/go-bytebuf/pkg/hash"
)

// Interface compliance checks (compile-time)
var _ io.Writer = (*Buffer)(nil)
var _ io.Reader = (*Buffer)(nil)
var _ io.ByteReader = (*Buffer)(nil)
var _ io.ByteWriter = (*Buffer)(nil)
var _ io.StringWriter = (*Buffer)(nil)
var _ io.WriterTo = (*Buffer)(nil)
var _ io.ReaderFrom = (*Buffer)(nil)

// =============================================================================
// Method: New() / NewSlice()
// =============================================================================

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     int
	}{
		{"valid_capacity", 1024, 1024},
		{"small_capacity", 4, 4},
		{"zero_capacity", 0, 0},
		{"negative_is_zero", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.capacity)
			if b.Capacity() != tt.want {
				t.Errorf("Capacity = %d, want %d", b.Capacity(), tt.want)
			}
			if b.ReaderIndex() != 0 || b.WriterIndex() != 0 {
				t.Errorf("cursors = (%d, %d), want (0, 0)", b.ReaderIndex(), b.WriterIndex())
			}
		})
	}
}

func TestNewSlice(t *testing.T) {
	b := NewSlice([]byte("hello"))
	if b.WriterIndex() != 5 {
		t.Errorf("WriterIndex = %d, want 5", b.WriterIndex())
	}
	if b.ReadableBytes() != 5 {
		t.Errorf("ReadableBytes = %d, want 5", b.ReadableBytes())
	}
	if !bytes.Equal(b.Bytes(), []byte("hello")) {
		t.Errorf("Bytes = %q", b.Bytes())
	}
}

func TestWrap(t *testing.T) {
	storage := make([]byte, 8)
	b := Wrap(storage)
	if b.Capacity() != 8 || b.ReadableBytes() != 0 {
		t.Fatalf("Capacity = %d, ReadableBytes = %d", b.Capacity(), b.ReadableBytes())
	}
	b.WriteByte('z')
	if storage[0] != 'z' {
		t.Error("Wrap copied the storage")
	}
}

// =============================================================================
// Method: WriteBytes() / Write() / WriteByte() / WriteString()
// =============================================================================

func TestWriteBytes(t *testing.T) {
	src := []byte("0123456789")
	tests := []struct {
		name    string
		offset  int
		length  int
		want    string
		wantErr error
	}{
		{"whole", 0, 10, "0123456789", nil},
		{"middle", 2, 3, "234", nil},
		{"empty", 5, 0, "", nil},
		{"negative_length", 0, -1, "", ErrNegativeCount},
		{"negative_offset", -1, 2, "", ErrOutOfRange},
		{"past_end", 8, 3, "", ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(4)
			err := b.WriteBytes(src, tt.offset, tt.length)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if string(b.Bytes()) != tt.want {
				t.Errorf("Bytes = %q, want %q", b.Bytes(), tt.want)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	b := New(2)
	n, err := b.Write([]byte("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Write = (%d, %v)", n, err)
	}
	if err := b.WriteByte('!'); err != nil {
		t.Fatal(err)
	}
	if _, err := b.WriteString(" ok"); err != nil {
		t.Fatal(err)
	}
	if got := string(b.Bytes()); got != "hello! ok" {
		t.Errorf("Bytes = %q", got)
	}
}

// =============================================================================
// Growth
// =============================================================================

func TestGrow(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		writes  []int
		wantCap int
	}{
		{"fits_no_growth", 8, []int{8}, 8},
		{"zero_capacity_one_byte", 0, []int{1}, 2},
		{"required_dominates", 4, []int{10}, 32},
		{"current_dominates", 8, []int{9}, 32},
		{"non_power_current", 3, []int{4}, 8},
		{"second_write", 4, []int{4, 1}, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.initial)
			for _, n := range tt.writes {
				if _, err := b.Write(make([]byte, n)); err != nil {
					t.Fatal(err)
				}
			}
			if b.Capacity() != tt.wantCap {
				t.Errorf("Capacity = %d, want %d", b.Capacity(), tt.wantCap)
			}
			if b.Capacity() < b.WriterIndex() {
				t.Errorf("Capacity %d < WriterIndex %d", b.Capacity(), b.WriterIndex())
			}
		})
	}
}

func TestGrow_PreservesContent(t *testing.T) {
	b := New(2)
	b.Write([]byte("ab"))
	b.ReadByte()
	b.Write([]byte("cdefgh"))
	if got := string(b.Bytes()); got != "bcdefgh" {
		t.Errorf("Bytes = %q", got)
	}
	if b.ReaderIndex() != 1 {
		t.Errorf("ReaderIndex = %d, want 1", b.ReaderIndex())
	}
}

func TestWithMaxLimit(t *testing.T) {
	b := New(4).WithMaxLimit(10)
	if _, err := b.Write(make([]byte, 10)); err != nil {
		t.Fatal(err)
	}
	if b.Capacity() != 10 {
		t.Errorf("Capacity = %d, want clamp to 10", b.Capacity())
	}
	if err := b.WriteByte(1); !errors.Is(err, ErrMaxLimitExceeded) {
		t.Errorf("err = %v, want ErrMaxLimitExceeded", err)
	}
	if b.WriterIndex() != 10 {
		t.Errorf("failed write moved WriterIndex to %d", b.WriterIndex())
	}
}

func TestWithMaxLimit_Chain(t *testing.T) {
	b := New(100)
	if b.WithMaxLimit(200) != b {
		t.Error("WithMaxLimit should return self for chaining")
	}
}

// =============================================================================
// Method: ReadByte() / ReadBytes() / Read()
// =============================================================================

func TestReadByte(t *testing.T) {
	b := NewSlice([]byte{7, 8})
	for _, want := range []byte{7, 8} {
		got, err := b.ReadByte()
		if err != nil || got != want {
			t.Fatalf("ReadByte = (%d, %v), want %d", got, err, want)
		}
	}
	if _, err := b.ReadByte(); err != io.EOF {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestReadBytes(t *testing.T) {
	b := NewSlice([]byte("abcdef"))
	dst := make([]byte, 6)

	if err := b.ReadBytes(dst, 1, 3); err != nil {
		t.Fatal(err)
	}
	if string(dst[1:4]) != "abc" {
		t.Errorf("dst = %q", dst)
	}
	if b.ReaderIndex() != 3 {
		t.Errorf("ReaderIndex = %d, want 3", b.ReaderIndex())
	}

	if err := b.ReadBytes(dst, 0, 4); !errors.Is(err, ErrNotEnoughData) {
		t.Errorf("err = %v, want ErrNotEnoughData", err)
	}
	if err := b.ReadBytes(dst, 0, -1); !errors.Is(err, ErrNegativeCount) {
		t.Errorf("err = %v, want ErrNegativeCount", err)
	}
	if err := b.ReadBytes(dst, 5, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
	if b.ReaderIndex() != 3 {
		t.Errorf("failed reads moved ReaderIndex to %d", b.ReaderIndex())
	}
}

func TestRead(t *testing.T) {
	b := NewSlice([]byte("hello"))
	p := make([]byte, 3)

	n, err := b.Read(p)
	if n != 3 || err != nil || string(p) != "hel" {
		t.Fatalf("Read = (%d, %v, %q)", n, err, p)
	}
	n, err = b.Read(p)
	if n != 2 || err != nil || string(p[:n]) != "lo" {
		t.Fatalf("Read = (%d, %v, %q)", n, err, p[:n])
	}
	if _, err = b.Read(p); err != io.EOF {
		t.Errorf("err = %v, want io.EOF", err)
	}
	if n, err = b.Read(nil); n != 0 || err != nil {
		t.Errorf("empty Read = (%d, %v)", n, err)
	}
}

// =============================================================================
// Method: Mark*/Reset*
// =============================================================================

func TestMarkReset(t *testing.T) {
	b := New(16)
	b.Write([]byte("abcd"))
	b.ReadByte()
	b.MarkReaderIndex()
	b.MarkWriterIndex()

	b.ReadByte()
	b.ReadByte()
	b.Write([]byte("ef"))

	b.ResetReaderIndex()
	if b.ReaderIndex() != 1 {
		t.Errorf("ReaderIndex = %d, want 1", b.ReaderIndex())
	}
	b.ResetWriterIndex()
	if b.WriterIndex() != 4 {
		t.Errorf("WriterIndex = %d, want 4", b.WriterIndex())
	}
	if got := string(b.Bytes()); got != "bcd" {
		t.Errorf("Bytes = %q", got)
	}
}

func TestResetWriterIndex_PullsReader(t *testing.T) {
	b := New(16)
	b.MarkWriterIndex()
	b.Write([]byte("abcd"))
	b.ReadByte()
	b.ReadByte()

	b.ResetWriterIndex()
	if b.WriterIndex() != 0 || b.ReaderIndex() != 0 {
		t.Errorf("cursors = (%d, %d), want (0, 0)", b.ReaderIndex(), b.WriterIndex())
	}
}

// =============================================================================
// Method: DiscardReadBytes()
// =============================================================================

func TestDiscardReadBytes(t *testing.T) {
	b := New(8)
	b.Write([]byte("abcdef"))
	b.ReadByte()
	b.ReadByte()
	b.MarkReaderIndex()
	b.MarkWriterIndex()

	if err := b.DiscardReadBytes(); err != nil {
		t.Fatal(err)
	}
	if b.Capacity() != 6 {
		t.Errorf("Capacity = %d, want 6", b.Capacity())
	}
	if b.ReaderIndex() != 0 || b.WriterIndex() != 4 {
		t.Errorf("cursors = (%d, %d), want (0, 4)", b.ReaderIndex(), b.WriterIndex())
	}
	if got := string(b.Bytes()); got != "cdef" {
		t.Errorf("Bytes = %q", got)
	}

	b.ReadByte()
	b.ResetReaderIndex()
	if b.ReaderIndex() != 0 {
		t.Errorf("shifted read mark = %d, want 0", b.ReaderIndex())
	}
	b.ResetWriterIndex()
	if b.WriterIndex() != 4 {
		t.Errorf("shifted write mark = %d, want 4", b.WriterIndex())
	}
}

func TestDiscardReadBytes_ClampsMarks(t *testing.T) {
	b := New(8)
	b.Write([]byte("abcdef"))
	b.MarkReaderIndex() // 0
	b.ReadBytes(make([]byte, 3), 0, 3)

	b.DiscardReadBytes()
	b.ResetReaderIndex()
	if b.ReaderIndex() != 0 {
		t.Errorf("ReaderIndex = %d, want 0", b.ReaderIndex())
	}
}

func TestDiscardReadBytes_NothingRead(t *testing.T) {
	b := New(8)
	b.Write([]byte("ab"))
	b.DiscardReadBytes()
	if b.Capacity() != 8 {
		t.Errorf("Capacity = %d, want 8", b.Capacity())
	}
}

// =============================================================================
// Method: Clear()
// =============================================================================

func TestClear_Idempotent(t *testing.T) {
	b := New(8)
	b.Write([]byte("abcdef"))
	b.ReadByte()
	b.MarkReaderIndex()

	for i := 0; i < 2; i++ {
		if err := b.Clear(); err != nil {
			t.Fatal(err)
		}
		if b.ReaderIndex() != 0 || b.WriterIndex() != 0 {
			t.Errorf("pass %d: cursors = (%d, %d)", i, b.ReaderIndex(), b.WriterIndex())
		}
		if b.Capacity() != 8 {
			t.Errorf("pass %d: Capacity = %d, want 8", i, b.Capacity())
		}
		for j, c := range b.data {
			if c != 0 {
				t.Fatalf("pass %d: data[%d] = %d, want 0", i, j, c)
			}
		}
	}
	b.ResetReaderIndex()
	if b.ReaderIndex() != 0 {
		t.Errorf("mark survived Clear: %d", b.ReaderIndex())
	}
}

// =============================================================================
// Method: Clone() / CopyRest() / ToArray()
// =============================================================================

func TestClone(t *testing.T) {
	b := New(8)
	b.Write([]byte("hello"))
	b.ReadByte()
	b.ReadByte()

	c, err := b.Clone()
	if err != nil {
		t.Fatal(err)
	}
	if c.ReaderIndex() != 2 || c.WriterIndex() != 5 || c.Capacity() != 8 {
		t.Errorf("clone state = (%d, %d, %d)", c.ReaderIndex(), c.WriterIndex(), c.Capacity())
	}
	c.ResetReaderIndex()
	if got := string(c.Bytes()); got != "hello" {
		t.Errorf("clone lost read bytes: %q", got)
	}

	b.data[4] = 'X'
	if c.data[4] != 'o' {
		t.Error("clone shares storage with original")
	}
}

func TestCopyRest(t *testing.T) {
	b := New(8)
	b.Write([]byte("hello"))
	b.ReadByte()
	b.ReadByte()

	c, err := b.CopyRest()
	if err != nil {
		t.Fatal(err)
	}
	if c.ReaderIndex() != 0 || c.WriterIndex() != 3 || c.Capacity() != 3 {
		t.Errorf("rest state = (%d, %d, %d)", c.ReaderIndex(), c.WriterIndex(), c.Capacity())
	}
	if got := string(c.Bytes()); got != "llo" {
		t.Errorf("Bytes = %q", got)
	}
	if b.ReaderIndex() != 2 {
		t.Error("CopyRest moved the source reader")
	}
}

func TestToArray(t *testing.T) {
	b := NewSlice([]byte("abc"))
	b.ReadByte()
	out, err := b.ToArray()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "bc" {
		t.Errorf("ToArray = %q", out)
	}
	out[0] = 'Z'
	if b.Bytes()[0] != 'b' {
		t.Error("ToArray aliases storage")
	}
}

// =============================================================================
// Method: WriteTo() / ReadFrom()
// =============================================================================

func TestWriteTo(t *testing.T) {
	b := NewSlice([]byte("payload"))
	b.ReadByte()

	var sink bytes.Buffer
	n, err := b.WriteTo(&sink)
	if err != nil || n != 6 {
		t.Fatalf("WriteTo = (%d, %v)", n, err)
	}
	if sink.String() != "ayload" {
		t.Errorf("sink = %q", sink.String())
	}
	if b.ReadableBytes() != 0 {
		t.Errorf("ReadableBytes = %d, want 0", b.ReadableBytes())
	}

	n, err = b.WriteTo(&sink)
	if n != 0 || err != nil {
		t.Errorf("empty WriteTo = (%d, %v)", n, err)
	}
}

func TestReadFrom(t *testing.T) {
	data := strings.Repeat("x", 2000)
	b := New(0)
	n, err := b.ReadFrom(strings.NewReader(data))
	if err != nil || n != 2000 {
		t.Fatalf("ReadFrom = (%d, %v)", n, err)
	}
	if string(b.Bytes()) != data {
		t.Error("content mismatch")
	}
}

func TestReadFrom_MaxLimit(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		input   int
		wantN   int64
		wantErr bool
	}{
		{"fits_under_limit", 100, 10, 10, false},
		{"fills_limit_exactly", 100, 100, 100, false},
		{"spans_chunks", 1500, 1200, 1200, false},
		{"exceeds_limit", 100, 150, 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(0).WithMaxLimit(tt.limit)
			n, err := b.ReadFrom(bytes.NewReader(bytes.Repeat([]byte{7}, tt.input)))
			if n != tt.wantN {
				t.Errorf("n = %d, want %d", n, tt.wantN)
			}
			if tt.wantErr != errors.Is(err, ErrMaxLimitExceeded) {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("err = %v", err)
			}
			if b.Capacity() > tt.limit {
				t.Errorf("Capacity = %d, limit %d", b.Capacity(), tt.limit)
			}
		})
	}
}

// =============================================================================
// Method: All() / Sum64()
// =============================================================================

func TestAll(t *testing.T) {
	b := NewSlice([]byte("abcd"))
	b.ReadByte()

	var got []byte
	for c := range b.All() {
		got = append(got, c)
	}
	if string(got) != "bcd" {
		t.Errorf("All = %q", got)
	}
	if b.ReaderIndex() != 1 {
		t.Error("All moved the reader")
	}

	count := 0
	for range b.All() {
		count++
		break
	}
	if count != 1 {
		t.Errorf("early break yielded %d", count)
	}
}

func TestSum64(t *testing.T) {
	b := NewSlice([]byte("xhello"))
	b.ReadByte()
	sum, err := b.Sum64()
	if err != nil {
		t.Fatal(err)
	}
	if sum != hash.Sum64([]byte("hello")) {
		t.Error("Sum64 does not cover the unread window")
	}
}

// =============================================================================
// Method: Release()
// =============================================================================

func TestRelease(t *testing.T) {
	b := New(8)
	b.Write([]byte("abc"))

	if err := b.Release(); err != nil {
		t.Fatal(err)
	}
	if !b.IsReleased() {
		t.Error("IsReleased = false")
	}
	if b.Capacity() != 0 || b.WriterIndex() != 0 || b.ReaderIndex() != 0 {
		t.Error("released buffer kept state")
	}
	if b.Bytes() != nil {
		t.Error("Bytes on released buffer should be nil")
	}
	if err := b.Release(); err != nil {
		t.Errorf("second Release = %v", err)
	}
}

func TestRelease_OperationsFail(t *testing.T) {
	b := New(8)
	b.Write([]byte("abc"))
	b.Release()

	ops := map[string]func() error{
		"WriteBytes":       func() error { return b.WriteBytes([]byte("x"), 0, 1) },
		"WriteByte":        func() error { return b.WriteByte(1) },
		"WriteInt32":       func() error { return b.WriteInt32(1, false) },
		"ReadBytes":        func() error { return b.ReadBytes(make([]byte, 1), 0, 1) },
		"Clear":            func() error { return b.Clear() },
		"DiscardReadBytes": func() error { return b.DiscardReadBytes() },
		"MarkReaderIndex":  func() error { return b.MarkReaderIndex() },
		"MarkWriterIndex":  func() error { return b.MarkWriterIndex() },
		"ResetReaderIndex": func() error { return b.ResetReaderIndex() },
		"ResetWriterIndex": func() error { return b.ResetWriterIndex() },
		"ReadByte": func() error {
			_, err := b.ReadByte()
			return err
		},
		"ReadInt64": func() error {
			_, err := b.ReadInt64(true)
			return err
		},
		"GetByte": func() error {
			_, err := b.GetByte(0)
			return err
		},
		"Clone": func() error {
			_, err := b.Clone()
			return err
		},
		"CopyRest": func() error {
			_, err := b.CopyRest()
			return err
		},
		"ToArray": func() error {
			_, err := b.ToArray()
			return err
		},
		"Write": func() error {
			_, err := b.Write([]byte("x"))
			return err
		},
		"Read": func() error {
			_, err := b.Read(make([]byte, 1))
			return err
		},
		"WriteTo": func() error {
			_, err := b.WriteTo(io.Discard)
			return err
		},
		"ReadFrom": func() error {
			_, err := b.ReadFrom(strings.NewReader("x"))
			return err
		},
		"Sum64": func() error {
			_, err := b.Sum64()
			return err
		},
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, ErrReleased) {
				t.Errorf("err = %v, want ErrReleased", err)
			}
		})
	}

	if got := b.Bytes(); got != nil {
		t.Errorf("Bytes = %q, want nil", got)
	}
	for range b.All() {
		t.Fatal("All yielded from a released buffer")
	}
	if !b.IsReleased() {
		t.Error("IsReleased = false")
	}
}

func TestRelease_CallbackOnce(t *testing.T) {
	calls := 0
	var got []byte
	b := New(8).OnRelease(func(data []byte) {
		calls++
		got = data
	})
	b.Write([]byte("abc"))

	b.Release()
	b.Release()
	if calls != 1 {
		t.Errorf("callback calls = %d, want 1", calls)
	}
	if len(got) != 8 || string(got[:3]) != "abc" {
		t.Errorf("callback storage = %q", got)
	}
}
