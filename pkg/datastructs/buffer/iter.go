package buffer

import "iter"

// All yields the unread bytes in order without moving the reader index.
// A released buffer yields nothing; check IsReleased to tell it from an empty one.
func (b *Buffer) All() iter.Seq[byte] {
	return func(yield func(byte) bool) {
		if b.released {
			return
		}
		for i := b.readIdx; i < b.writeIdx; i++ {
			if !yield(b.data[i]) {
				return
			}
		}
	}
}
