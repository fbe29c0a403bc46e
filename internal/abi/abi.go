// Package abi packs and unpacks the pointer/length pairs exchanged with
// extension modules through host functions.
package abi

import (
	"errors"
	"fmt"
)

// ErrNullPointer is returned for a packed value with a zero pointer and a
// non-zero length.
var ErrNullPointer = errors.New("abi: null pointer with non-zero length")

// PackPtrLen packs a pointer and length into a single uint64.
// The upper 32 bits hold the pointer, the lower 32 bits the length.
func PackPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << 32) | uint64(length)
}

// UnpackPtrLen unpacks a value produced by PackPtrLen. The value comes from
// guest code, so an impossible pair is an error rather than a panic.
func UnpackPtrLen(packed uint64) (ptr, length uint32, err error) {
	ptr = uint32(packed >> 32) //nolint:gosec // G115: Packed format stores 32-bit values
	length = uint32(packed)    //nolint:gosec // G115: Packed format stores 32-bit values
	if ptr == 0 && length > 0 {
		return 0, 0, fmt.Errorf("%w (%d)", ErrNullPointer, length)
	}
	return ptr, length, nil
}
