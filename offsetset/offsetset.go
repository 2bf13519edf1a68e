package offsetset

import (
	"bytes"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"

	"github.com/outofforest/gluon/pod"
)

// Errors returned when decoding entries from a serialized set.
var (
	// ErrInvalidLength means an entry's LEB128 length prefix is truncated or
	// does not fit in 64 bits.
	ErrInvalidLength = errors.New("invalid LEB128 length prefix")

	// ErrOutOfBounds means an entry's offset or length is outside the bounds
	// of the buffer.
	ErrOutOfBounds = errors.New("entry offset or length is out of bounds")
)

// Set stores slices of T without duplicates.
//
// Inserting a slice returns the byte offset of its encoded entry within the
// set's buffer. The buffer is strictly append-only, so offsets stay valid for
// the lifetime of the set and across serialization. The serialized form,
// returned by Bytes, is just the concatenation of entries, each one being the
// LEB128-encoded element count followed by the raw bytes of the elements.
// There is no index section - offsets are both storage addresses and lookup
// keys.
//
// The in-memory index maps content hashes to offsets and never stores a copy
// of the content itself. Equality is always decided by comparing the bytes
// read back from the buffer, never by the hash alone.
//
// A set is not safe for concurrent use. Reading from an already serialized
// buffer with Read is.
type Set[T pod.Pod] struct {
	offsets map[uint64][]uint64
	buffer  []byte
}

// New returns new empty set.
//
// Panics if T is zero-sized or requires alignment greater than 1. The
// alignment limit guarantees that no padding is ever needed between the
// length prefix and the data, or between consecutive entries.
func New[T pod.Pod]() *Set[T] {
	var t T
	if unsafe.Sizeof(t) == 0 {
		panic("offsetset: element type is zero-sized")
	}
	if unsafe.Alignof(t) != 1 {
		panic("offsetset: element type requires alignment greater than 1")
	}
	return &Set[T]{offsets: map[uint64][]uint64{}}
}

// FromBytes reconstructs a set from a previously serialized representation.
//
// This reverses the Bytes call. The whole buffer is scanned to rebuild the
// index; the first malformed entry fails the reconstruction and nothing
// partial is returned. The set copies the buffer and owns its copy.
func FromBytes[T pod.Pod](buffer []byte) (*Set[T], error) {
	return FromBytesValidated[T](buffer, func([]T) error { return nil })
}

// FromBytesValidated reconstructs a set from a previously serialized
// representation, running every decoded entry through validate.
//
// The first entry rejected by validate fails the reconstruction with the
// validator's error.
func FromBytesValidated[T pod.Pod](buffer []byte, validate func(items []T) error) (*Set[T], error) {
	s := New[T]()
	s.buffer = append(s.buffer, buffer...)

	var offset uint64
	for offset < uint64(len(s.buffer)) {
		items, next, err := readEntry[T](s.buffer, offset)
		if err != nil {
			return nil, err
		}
		if err := validate(items); err != nil {
			return nil, err
		}

		hash := xxhash.Sum64(pod.SliceBytes(items))
		s.offsets[hash] = append(s.offsets[hash], offset)
		offset = next
	}

	return s, nil
}

// Insert adds items to the set and returns the offset of its entry within the
// buffer.
//
// If an equal slice has been inserted before, the offset of the existing
// entry is returned and the buffer is not modified. The returned offset may
// be used to retrieve the slice with Read after serializing the set with
// Bytes.
func (s *Set[T]) Insert(items []T) uint64 {
	raw := pod.SliceBytes(items)
	hash := xxhash.Sum64(raw)

	for _, offset := range s.offsets[hash] {
		stored, _, err := readEntry[T](s.buffer, offset)
		if err != nil {
			// Offsets in the index always point at entries written by this
			// set, so they decode.
			panic(err)
		}
		if bytes.Equal(pod.SliceBytes(stored), raw) {
			return offset
		}
	}

	offset := uint64(len(s.buffer))

	var prefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(prefix[:], uint64(len(items)))
	s.buffer = append(s.buffer, prefix[:n]...)
	s.buffer = append(s.buffer, raw...)

	s.offsets[hash] = append(s.offsets[hash], offset)
	return offset
}

// Bytes returns the serialized representation of the set.
//
// The returned slice aliases the internal buffer and must not be modified.
func (s *Set[T]) Bytes() []byte {
	return s.buffer
}

// IntoBytes returns the serialized representation of the set, consuming it.
//
// The set is reset to empty and previously returned offsets no longer resolve
// against it, only against the returned buffer.
func (s *Set[T]) IntoBytes() []byte {
	buffer := s.buffer
	s.buffer = nil
	s.offsets = map[uint64][]uint64{}
	return buffer
}

// Len returns the number of entries registered in the index.
func (s *Set[T]) Len() int {
	n := 0
	for _, offsets := range s.offsets {
		n += len(offsets)
	}
	return n
}

// Entries calls fn for every (offset, slice) pair stored in the set, in
// unspecified order, until fn returns false.
func (s *Set[T]) Entries(fn func(offset uint64, items []T) bool) {
	for _, offsets := range s.offsets {
		for _, offset := range offsets {
			items, _, err := readEntry[T](s.buffer, offset)
			if err != nil {
				panic(err)
			}
			if !fn(offset, items) {
				return
			}
		}
	}
}

// Read returns the slice stored at the given offset in the buffer.
//
// Use it to retrieve a slice previously inserted into a set which was then
// serialized with Bytes. The returned slice aliases the buffer.
func Read[T pod.Pod](buffer []byte, offset uint64) ([]T, error) {
	items, _, err := readEntry[T](buffer, offset)
	return items, err
}

func readEntry[T pod.Pod](buffer []byte, offset uint64) ([]T, uint64, error) {
	var t T
	size := uint64(unsafe.Sizeof(t))
	if size == 0 {
		panic("offsetset: element type is zero-sized")
	}

	if offset > uint64(len(buffer)) {
		return nil, 0, errors.WithStack(ErrOutOfBounds)
	}

	count, n := binary.Uvarint(buffer[offset:])
	if n <= 0 {
		return nil, 0, errors.WithStack(ErrInvalidLength)
	}

	start := offset + uint64(n)
	if count > (math.MaxUint64-start)/size {
		return nil, 0, errors.WithStack(ErrOutOfBounds)
	}
	end := start + count*size
	if end > uint64(len(buffer)) {
		return nil, 0, errors.WithStack(ErrOutOfBounds)
	}

	items, ok := pod.SliceFromBytes[T](buffer[start:end])
	if !ok {
		return nil, 0, errors.WithStack(ErrOutOfBounds)
	}
	return items, end, nil
}
