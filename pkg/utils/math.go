package utils

const (
	bitSize       = 32 << (^uint(0) >> 63)
	maxIntHeadBit = 1 << (bitSize - 2)
)

// IsPowerOfTwo reports whether the given n is a power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns n if it is a power-of-two, otherwise the next-highest power-of-two.
// NextPowerOfTwo(0) is 1.
func NextPowerOfTwo(n int) int {
	if n > maxIntHeadBit {
		panic("argument is too large")
	}

	if n <= 1 {
		return 1
	}

	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++

	return n
}

// CeilDiv returns ceil(a / b) for a >= 0 and b > 0.
// An exact multiple of b yields a / b, not one more.
func CeilDiv(a, b int64) int64 {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
