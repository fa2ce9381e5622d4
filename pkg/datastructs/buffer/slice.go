package buffer

// NewSlice creates a Buffer wrapper around an existing byte slice.
// The whole slice is readable; the buffer takes ownership of it.
func NewSlice(slice []byte) *Buffer {
	return &Buffer{
		data:     slice,
		writeIdx: len(slice),
	}
}

// Wrap creates an empty Buffer over existing storage.
// Capacity is len(storage) and both cursors start at 0.
func Wrap(storage []byte) *Buffer {
	return &Buffer{data: storage}
}
