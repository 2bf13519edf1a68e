package stringtable

import (
	"unicode/utf8"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/outofforest/gluon/offsetset"
)

// ErrInvalidUTF8 means the string data stored in the buffer is not valid
// UTF-8.
var ErrInvalidUTF8 = errors.New("string data is not valid UTF-8")

// Table stores strings without duplicates.
//
// It is a specialization of offsetset.Set with single bytes as elements and
// the additional guarantee that every entry is valid UTF-8. Add strings with
// Insert; the returned offset may be used to read the string back from the
// table's byte representation with Read. The byte representation, returned by
// Bytes, is the concatenation of the inserted strings, each one prefixed with
// its LEB128-encoded length, and contains each string only once. An empty
// string is stored as a normal zero-length entry at a normal offset - there
// is no reserved sentinel.
type Table struct {
	set *offsetset.Set[byte]
}

// New returns new empty table.
func New() *Table {
	return &Table{set: offsetset.New[byte]()}
}

// FromBytes reconstructs a table from a previously serialized representation,
// validating that every entry is valid UTF-8.
func FromBytes(buffer []byte) (*Table, error) {
	set, err := offsetset.FromBytesValidated[byte](buffer, func(raw []byte) error {
		if !utf8.Valid(raw) {
			return errors.WithStack(ErrInvalidUTF8)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Table{set: set}, nil
}

// Insert adds s to the table and returns the offset of its entry within the
// buffer.
//
// If an equal string has been inserted before, the offset of the existing
// entry is returned and the buffer is not modified.
func (t *Table) Insert(s string) uint64 {
	return t.set.Insert(stringBytes(s))
}

// Bytes returns the serialized representation of the table.
//
// The returned slice aliases the internal buffer and must not be modified.
func (t *Table) Bytes() []byte {
	return t.set.Bytes()
}

// IntoBytes returns the serialized representation of the table, consuming it.
//
// The table is reset to empty and previously returned offsets no longer
// resolve against it, only against the returned buffer.
func (t *Table) IntoBytes() []byte {
	return t.set.IntoBytes()
}

// Len returns the number of strings stored in the table.
func (t *Table) Len() int {
	return t.set.Len()
}

// Entries calls fn for every (offset, string) pair stored in the table, in
// unspecified order, until fn returns false.
func (t *Table) Entries(fn func(offset uint64, s string) bool) {
	t.set.Entries(func(offset uint64, raw []byte) bool {
		return fn(offset, bytesString(raw))
	})
}

// Read returns the string stored at the given offset in the buffer.
//
// The string data is validated as UTF-8 on every read because the buffer
// might not originate from a Table - only FromBytes guarantees prior
// validation. The returned string aliases the buffer.
func Read(buffer []byte, offset uint64) (string, error) {
	raw, err := offsetset.Read[byte](buffer, offset)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", errors.WithStack(ErrInvalidUTF8)
	}
	return bytesString(raw), nil
}

// stringBytes returns the bytes of s without copying.
func stringBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// bytesString returns a string aliasing b without copying.
func bytesString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
