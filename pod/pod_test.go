package pod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alignedBytes returns an 8-aligned byte buffer backed by []uint64, so tests
// don't depend on the alignment the allocator happens to pick for []byte.
func alignedBytes(values ...uint64) []byte {
	return SliceBytes(values)
}

func TestFromBytes(t *testing.T) {
	requireT := require.New(t)

	backing := []uint64{0x1122334455667788, 0x99aabbccddeeff00}
	buf := alignedBytes(backing...)

	num, ok := FromBytes[uint64](buf[:8])
	requireT.True(ok)
	requireT.Equal(backing[0], *num)
	requireT.Equal(buf[:8], Bytes(num))

	// buffer too big
	_, ok = FromBytes[uint64](buf[:9])
	requireT.False(ok)

	// buffer too small
	_, ok = FromBytes[uint64](buf[:7])
	requireT.False(ok)

	// buffer not aligned
	_, ok = FromBytes[uint64](buf[1:9])
	requireT.False(ok)
}

func TestFromBytesPrefix(t *testing.T) {
	requireT := require.New(t)

	backing := []uint64{0x1122334455667788, 0x99aabbccddeeff00}
	buf := alignedBytes(backing...)

	num, rest, ok := FromBytesPrefix[uint64](buf)
	requireT.True(ok)
	requireT.Equal(backing[0], *num)
	requireT.Equal(buf[8:], rest)

	// buffer too small
	_, _, ok = FromBytesPrefix[uint64](buf[:7])
	requireT.False(ok)

	// buffer not aligned
	_, _, ok = FromBytesPrefix[uint64](buf[1:])
	requireT.False(ok)
}

func TestSliceFromBytes(t *testing.T) {
	requireT := require.New(t)

	backing := []uint32{0x11223344, 0x55667788, 0x99aabbcc, 0xddeeff00}
	buf := SliceBytes(backing)

	nums, ok := SliceFromBytes[uint32](buf)
	requireT.True(ok)
	requireT.Equal(backing, nums)
	requireT.Equal(buf, SliceBytes(nums))

	// buffer not a multiple of the element size
	_, ok = SliceFromBytes[uint32](buf[:7])
	requireT.False(ok)

	// buffer not aligned
	_, ok = SliceFromBytes[uint32](buf[2:10])
	requireT.False(ok)

	// empty buffer holds zero elements
	nums, ok = SliceFromBytes[uint32](buf[:0])
	requireT.True(ok)
	requireT.Len(nums, 0)
}

func TestSliceFromBytesPrefix(t *testing.T) {
	requireT := require.New(t)

	backing := []uint32{0x11223344, 0x55667788, 0x99aabbcc, 0xddeeff00}
	buf := SliceBytes(backing)

	nums, rest, ok := SliceFromBytesPrefix[uint32](buf, 2)
	requireT.True(ok)
	requireT.Equal(backing[:2], nums)
	requireT.Equal(buf[8:], rest)

	// buffer too small
	_, _, ok = SliceFromBytesPrefix[uint32](buf, 5)
	requireT.False(ok)

	// negative count
	_, _, ok = SliceFromBytesPrefix[uint32](buf, -1)
	requireT.False(ok)

	// count * element size overflows
	_, _, ok = SliceFromBytesPrefix[uint64](buf, 1<<60)
	requireT.False(ok)

	// buffer not aligned
	_, _, ok = SliceFromBytesPrefix[uint32](buf[2:], 2)
	requireT.False(ok)
}

func TestZeroSizedElementPanics(t *testing.T) {
	assertT := assert.New(t)

	buf := alignedBytes(0)
	assertT.Panics(func() {
		SliceFromBytes[struct{}](buf)
	})
	assertT.Panics(func() {
		SliceFromBytesPrefix[struct{}](buf, 1)
	})
}
