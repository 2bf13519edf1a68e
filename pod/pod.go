package pod

import "unsafe"

// Pod is the constraint for plain-old-data types which may be viewed as raw
// bytes and viewed back from raw bytes without copying or parsing.
//
// Beyond being comparable, a type used as a Pod must guarantee that its
// binary layout is stable, that it contains no padding bytes and no pointers,
// and that every possible bit pattern of its size is a valid value. Nothing
// here can verify these properties - size and alignment checks are the only
// runtime enforcement. Using a type which violates them results in undefined
// behavior.
//
// Byte layout is whatever the host's native representation produces. Use
// fixed-width integer types if the bytes are exchanged between machines of
// different endianness.
type Pod interface {
	comparable
}

// Bytes returns the raw bytes of the value pointed to by v.
//
// The returned slice aliases the value, no copy is made.
func Bytes[T Pod](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// SliceBytes returns the raw bytes of the elements of s.
//
// The returned slice aliases s, no copy is made.
func SliceBytes[T Pod](s []T) []byte {
	var t T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), uintptr(len(s))*unsafe.Sizeof(t))
}

// FromBytes views b as a single value of type T.
//
// The view exists only if b is exactly the size of T and its starting address
// is aligned to the alignment of T. A mismatch is an ordinary negative
// result, not an error - callers probing unknown data are expected to handle
// it.
func FromBytes[T Pod](b []byte) (*T, bool) {
	var t T
	if uintptr(len(b)) != unsafe.Sizeof(t) || !IsAlignedTo(b, unsafe.Alignof(t)) {
		return nil, false
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(b))), true
}

// FromBytesPrefix views the beginning of b as a single value of type T and
// returns the remaining bytes.
//
// Unlike FromBytes it only requires b to be at least the size of T.
func FromBytesPrefix[T Pod](b []byte) (*T, []byte, bool) {
	var t T
	size := unsafe.Sizeof(t)
	if uintptr(len(b)) < size || !IsAlignedTo(b, unsafe.Alignof(t)) {
		return nil, nil, false
	}
	return (*T)(unsafe.Pointer(unsafe.SliceData(b))), b[size:], true
}

// SliceFromBytes views b as a slice of T holding exactly as many elements as
// fit in b.
//
// The view exists only if the length of b is a multiple of the size of T and
// its starting address is aligned to the alignment of T.
//
// Panics if T is zero-sized.
func SliceFromBytes[T Pod](b []byte) ([]T, bool) {
	var t T
	size := unsafe.Sizeof(t)
	if size == 0 {
		panic("pod: element type is zero-sized")
	}
	if uintptr(len(b))%size != 0 || !IsAlignedTo(b, unsafe.Alignof(t)) {
		return nil, false
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), uintptr(len(b))/size), true
}

// SliceFromBytesPrefix views the beginning of b as a slice of count elements
// of T and returns the remaining bytes.
//
// Panics if T is zero-sized.
func SliceFromBytesPrefix[T Pod](b []byte, count int) ([]T, []byte, bool) {
	var t T
	size := unsafe.Sizeof(t)
	if size == 0 {
		panic("pod: element type is zero-sized")
	}
	if count < 0 || uintptr(count) > maxInt/size {
		return nil, nil, false
	}
	expected := uintptr(count) * size
	if uintptr(len(b)) < expected || !IsAlignedTo(b, unsafe.Alignof(t)) {
		return nil, nil, false
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), count), b[expected:], true
}

const maxInt = uintptr(^uint(0) >> 1)
