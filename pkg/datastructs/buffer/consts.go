package buffer

const (
	// DefaultCapacity is the capacity pools hand out when the caller does not ask for one.
	DefaultCapacity = 64

	// readFromChunk is the minimum free space ReadFrom keeps ahead of each read.
	readFromChunk = 512

	// charMax is the largest rune representable as a single UTF-16 code unit.
	charMax = 0xFFFF
)
