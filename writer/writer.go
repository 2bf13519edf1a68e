package writer

import (
	"io"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/outofforest/gluon/pod"
)

var padding = make([]byte, 16)

// Writer wraps an io.Writer and keeps track of the number of bytes written.
//
// Its main purpose is the AlignTo method which aligns the output by writing
// zero padding bytes. A writer is not safe for concurrent use.
type Writer struct {
	w   io.Writer
	pos uint64
}

// New returns new writer wrapping w.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes p to the wrapped writer and advances the position by the
// number of bytes actually written.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += uint64(n)
	return n, errors.WithStack(err)
}

// Position returns the number of bytes written so far.
func (w *Writer) Position() uint64 {
	return w.pos
}

// AlignTo writes zero bytes until the position is a multiple of align and
// returns the number of bytes written.
//
// Panics if align is not a power of two.
func (w *Writer) AlignTo(align uint64) (int, error) {
	if align == 0 || align&(align-1) != 0 {
		panic("writer: align is not a power of two")
	}

	pad := int((align - w.pos&(align-1)) & (align - 1))

	var written int
	for written < pad {
		chunk := pad - written
		if chunk > len(padding) {
			chunk = len(padding)
		}
		n, err := w.Write(padding[:chunk])
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// AlignToType writes zero bytes until the position is a multiple of the
// alignment of T and returns the number of bytes written.
func AlignToType[T pod.Pod](w *Writer) (int, error) {
	var t T
	return w.AlignTo(uint64(unsafe.Alignof(t)))
}
