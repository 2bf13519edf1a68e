package pod

import "unsafe"

// IsAlignedTo returns true if the starting address of b is a multiple of
// align.
//
// Panics if align is not a power of two.
func IsAlignedTo(b []byte, align uintptr) bool {
	if align == 0 || align&(align-1) != 0 {
		panic("pod: align is not a power of two")
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))&(align-1) == 0
}

// AlignTo splits b into the padding needed to reach an address aligned to
// align, and the aligned remainder. Use it to skip explicit padding bytes
// inserted by a producer.
//
// Returns false when b is not large enough to reach the aligned address.
//
// Panics if align is not a power of two.
func AlignTo(b []byte, align uintptr) (padding, aligned []byte, ok bool) {
	if align == 0 || align&(align-1) != 0 {
		panic("pod: align is not a power of two")
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	offset := (align - addr&(align-1)) & (align - 1)
	if uintptr(len(b)) < offset {
		return nil, nil, false
	}
	return b[:offset], b[offset:], true
}

// AlignToType splits b into the padding needed to reach an address aligned to
// the alignment of T, and the aligned remainder.
//
// Returns false when b is not large enough to reach the aligned address.
func AlignToType[T Pod](b []byte) (padding, aligned []byte, ok bool) {
	var t T
	return AlignTo(b, unsafe.Alignof(t))
}
