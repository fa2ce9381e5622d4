package buffer

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/huynhanx03/go-bytebuf/pkg/utils"
)

// Typed values are encoded in host order first and then flipped to the
// requested order, so the same path works on little and big endian hosts.
// littleEndian=false (the zero value) selects big endian.

func (b *Buffer) writeOrdered(p []byte, littleEndian bool) error {
	if err := b.check(); err != nil {
		return err
	}
	utils.ToOrder(p, littleEndian)
	if err := b.grow(len(p)); err != nil {
		return err
	}
	b.writeIdx += copy(b.data[b.writeIdx:], p)
	return nil
}

func (b *Buffer) readOrdered(p []byte, littleEndian bool) error {
	if err := b.check(); err != nil {
		return err
	}
	if b.ReadableBytes() < len(p) {
		return errors.Wrapf(ErrNotEnoughData, "need: %d, readable: %d", len(p), b.ReadableBytes())
	}
	b.readIdx += copy(p, b.data[b.readIdx:b.writeIdx])
	utils.ToOrder(p, littleEndian)
	return nil
}

func (b *Buffer) getOrdered(index int, p []byte, littleEndian bool) error {
	if err := b.check(); err != nil {
		return err
	}
	if index < 0 || index > b.writeIdx-len(p) {
		return errors.Wrapf(ErrIndexOutOfRange, "index: %d, width: %d, written: %d", index, len(p), b.writeIdx)
	}
	copy(p, b.data[index:])
	utils.ToOrder(p, littleEndian)
	return nil
}

// =============================================================================
// Write
// =============================================================================

// WriteUint16 appends v as 2 bytes.
func (b *Buffer) WriteUint16(v uint16, littleEndian bool) error {
	var s [2]byte
	binary.NativeEndian.PutUint16(s[:], v)
	return b.writeOrdered(s[:], littleEndian)
}

// WriteInt16 appends v as 2 bytes.
func (b *Buffer) WriteInt16(v int16, littleEndian bool) error {
	return b.WriteUint16(uint16(v), littleEndian)
}

// WriteUint32 appends v as 4 bytes.
func (b *Buffer) WriteUint32(v uint32, littleEndian bool) error {
	var s [4]byte
	binary.NativeEndian.PutUint32(s[:], v)
	return b.writeOrdered(s[:], littleEndian)
}

// WriteInt32 appends v as 4 bytes.
func (b *Buffer) WriteInt32(v int32, littleEndian bool) error {
	return b.WriteUint32(uint32(v), littleEndian)
}

// WriteUint64 appends v as 8 bytes.
func (b *Buffer) WriteUint64(v uint64, littleEndian bool) error {
	var s [8]byte
	binary.NativeEndian.PutUint64(s[:], v)
	return b.writeOrdered(s[:], littleEndian)
}

// WriteInt64 appends v as 8 bytes.
func (b *Buffer) WriteInt64(v int64, littleEndian bool) error {
	return b.WriteUint64(uint64(v), littleEndian)
}

// WriteFloat32 appends the IEEE 754 bits of v.
func (b *Buffer) WriteFloat32(v float32, littleEndian bool) error {
	return b.WriteUint32(math.Float32bits(v), littleEndian)
}

// WriteFloat64 appends the IEEE 754 bits of v.
func (b *Buffer) WriteFloat64(v float64, littleEndian bool) error {
	return b.WriteUint64(math.Float64bits(v), littleEndian)
}

// WriteChar appends c as one UTF-16 code unit.
func (b *Buffer) WriteChar(c rune, littleEndian bool) error {
	if c < 0 || c > charMax {
		return errors.Wrapf(ErrCharOutOfRange, "rune: %U", c)
	}
	return b.WriteUint16(uint16(c), littleEndian)
}

// WriteBool appends v as a single byte. The order flag has no effect on one byte.
func (b *Buffer) WriteBool(v bool, littleEndian bool) error {
	var s [1]byte
	if v {
		s[0] = 1
	}
	return b.writeOrdered(s[:], littleEndian)
}

// =============================================================================
// Read
// =============================================================================

// ReadUint16 consumes 2 bytes.
func (b *Buffer) ReadUint16(littleEndian bool) (uint16, error) {
	var s [2]byte
	if err := b.readOrdered(s[:], littleEndian); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint16(s[:]), nil
}

// ReadInt16 consumes 2 bytes.
func (b *Buffer) ReadInt16(littleEndian bool) (int16, error) {
	v, err := b.ReadUint16(littleEndian)
	return int16(v), err
}

// ReadUint32 consumes 4 bytes.
func (b *Buffer) ReadUint32(littleEndian bool) (uint32, error) {
	var s [4]byte
	if err := b.readOrdered(s[:], littleEndian); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint32(s[:]), nil
}

// ReadInt32 consumes 4 bytes.
func (b *Buffer) ReadInt32(littleEndian bool) (int32, error) {
	v, err := b.ReadUint32(littleEndian)
	return int32(v), err
}

// ReadUint64 consumes 8 bytes.
func (b *Buffer) ReadUint64(littleEndian bool) (uint64, error) {
	var s [8]byte
	if err := b.readOrdered(s[:], littleEndian); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint64(s[:]), nil
}

// ReadInt64 consumes 8 bytes.
func (b *Buffer) ReadInt64(littleEndian bool) (int64, error) {
	v, err := b.ReadUint64(littleEndian)
	return int64(v), err
}

// ReadFloat32 consumes 4 bytes.
func (b *Buffer) ReadFloat32(littleEndian bool) (float32, error) {
	v, err := b.ReadUint32(littleEndian)
	return math.Float32frombits(v), err
}

// ReadFloat64 consumes 8 bytes.
func (b *Buffer) ReadFloat64(littleEndian bool) (float64, error) {
	v, err := b.ReadUint64(littleEndian)
	return math.Float64frombits(v), err
}

// ReadChar consumes one UTF-16 code unit.
func (b *Buffer) ReadChar(littleEndian bool) (rune, error) {
	v, err := b.ReadUint16(littleEndian)
	return rune(v), err
}

// ReadBool consumes one byte; any non-zero value is true.
func (b *Buffer) ReadBool(littleEndian bool) (bool, error) {
	var s [1]byte
	if err := b.readOrdered(s[:], littleEndian); err != nil {
		return false, err
	}
	return s[0] != 0, nil
}

// =============================================================================
// Get (random access, cursors untouched)
// =============================================================================

// GetByte returns the byte at index.
func (b *Buffer) GetByte(index int) (byte, error) {
	var s [1]byte
	if err := b.getOrdered(index, s[:], false); err != nil {
		return 0, err
	}
	return s[0], nil
}

// GetUint16 decodes 2 bytes at index.
func (b *Buffer) GetUint16(index int, littleEndian bool) (uint16, error) {
	var s [2]byte
	if err := b.getOrdered(index, s[:], littleEndian); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint16(s[:]), nil
}

// GetInt16 decodes 2 bytes at index.
func (b *Buffer) GetInt16(index int, littleEndian bool) (int16, error) {
	v, err := b.GetUint16(index, littleEndian)
	return int16(v), err
}

// GetUint32 decodes 4 bytes at index.
func (b *Buffer) GetUint32(index int, littleEndian bool) (uint32, error) {
	var s [4]byte
	if err := b.getOrdered(index, s[:], littleEndian); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint32(s[:]), nil
}

// GetInt32 decodes 4 bytes at index.
func (b *Buffer) GetInt32(index int, littleEndian bool) (int32, error) {
	v, err := b.GetUint32(index, littleEndian)
	return int32(v), err
}

// GetUint64 decodes 8 bytes at index.
func (b *Buffer) GetUint64(index int, littleEndian bool) (uint64, error) {
	var s [8]byte
	if err := b.getOrdered(index, s[:], littleEndian); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint64(s[:]), nil
}

// GetInt64 decodes 8 bytes at index.
func (b *Buffer) GetInt64(index int, littleEndian bool) (int64, error) {
	v, err := b.GetUint64(index, littleEndian)
	return int64(v), err
}

// GetFloat32 decodes 4 bytes at index.
func (b *Buffer) GetFloat32(index int, littleEndian bool) (float32, error) {
	v, err := b.GetUint32(index, littleEndian)
	return math.Float32frombits(v), err
}

// GetFloat64 decodes 8 bytes at index.
func (b *Buffer) GetFloat64(index int, littleEndian bool) (float64, error) {
	v, err := b.GetUint64(index, littleEndian)
	return math.Float64frombits(v), err
}

// GetChar decodes one UTF-16 code unit at index.
func (b *Buffer) GetChar(index int, littleEndian bool) (rune, error) {
	v, err := b.GetUint16(index, littleEndian)
	return rune(v), err
}

// GetBool decodes one byte at index.
func (b *Buffer) GetBool(index int, littleEndian bool) (bool, error) {
	v, err := b.GetByte(index)
	return v != 0, err
}
