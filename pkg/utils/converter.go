package utils

import (
	"encoding/binary"
	"unsafe"
)

// hostLittleEndian is resolved once from the running machine, not from build tags.
var hostLittleEndian = detectLittleEndian()

func detectLittleEndian() bool {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	return b[0] == 1
}

// StringToBytes converts string to a byte slice without any memory allocation.
func StringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// HostLittleEndian reports whether the host stores multi-byte values least significant byte first.
func HostLittleEndian() bool {
	return hostLittleEndian
}

// NeedsFlip reports whether bytes encoded in the host order must be reversed
// to obtain the requested order.
func NeedsFlip(hostLittle, wantLittle bool) bool {
	return hostLittle != wantLittle
}

// Reverse reverses p in place.
func Reverse(p []byte) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

// ToOrder converts p between host order and the requested order in place.
// The conversion is its own inverse, so it serves both encode and decode.
func ToOrder(p []byte, wantLittle bool) {
	if NeedsFlip(hostLittleEndian, wantLittle) {
		Reverse(p)
	}
}
