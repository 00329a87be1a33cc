// Package bits packs and unpacks fixed-width unsigned fields over a byte
// buffer, most significant bit first.
//
// Field widths are protocol constants, so overflowing the buffer is a
// programming error and panics rather than returning an error.
package bits

import "fmt"

const maxWidth = 64

// Writer appends fields to a buffer of a fixed number of bits.
type Writer struct {
	buf    []byte
	size   int
	offset int
}

// NewWriter returns a writer over a zeroed buffer of nbits bits.
// The underlying buffer is rounded up to whole bytes.
func NewWriter(nbits int) *Writer {
	if nbits < 0 {
		panic(fmt.Sprintf("bits: negative size %d", nbits))
	}
	return &Writer{
		buf:  make([]byte, (nbits+7)/8),
		size: nbits,
	}
}

// WriteUint appends the low width bits of v. Higher bits of v are discarded.
func (w *Writer) WriteUint(v uint64, width int) {
	if width < 1 || width > maxWidth {
		panic(fmt.Sprintf("bits: invalid width %d", width))
	}
	w.reserve(width)
	for i := width - 1; i >= 0; i-- {
		if v>>uint(i)&1 == 1 {
			w.buf[w.offset>>3] |= 0x80 >> uint(w.offset&7)
		}
		w.offset++
	}
}

// WriteBool appends a single bit.
func (w *Writer) WriteBool(b bool) {
	var v uint64
	if b {
		v = 1
	}
	w.WriteUint(v, 1)
}

// WriteBytes appends the first width bits of b.
func (w *Writer) WriteBytes(b []byte, width int) {
	if width < 0 || width > len(b)*8 {
		panic(fmt.Sprintf("bits: width %d exceeds %d byte source", width, len(b)))
	}
	w.reserve(width)
	if w.offset&7 == 0 && width&7 == 0 {
		copy(w.buf[w.offset>>3:], b[:width>>3])
		w.offset += width
		return
	}
	for i := 0; i < width; i++ {
		if b[i>>3]&(0x80>>uint(i&7)) != 0 {
			w.buf[w.offset>>3] |= 0x80 >> uint(w.offset&7)
		}
		w.offset++
	}
}

// Bytes returns the packed buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Offset returns the number of bits written so far.
func (w *Writer) Offset() int {
	return w.offset
}

func (w *Writer) reserve(width int) {
	if w.offset+width > w.size {
		panic(fmt.Sprintf("bits: writing %d bits at offset %d overflows %d bit buffer", width, w.offset, w.size))
	}
}

// Reader consumes fields sequentially from a buffer.
type Reader struct {
	buf    []byte
	offset int
}

// NewReader returns a reader positioned at the first bit of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// ReadUint consumes width bits as an unsigned integer.
func (r *Reader) ReadUint(width int) uint64 {
	if width < 1 || width > maxWidth {
		panic(fmt.Sprintf("bits: invalid width %d", width))
	}
	r.require(width)
	var v uint64
	for range width {
		v <<= 1
		if r.buf[r.offset>>3]&(0x80>>uint(r.offset&7)) != 0 {
			v |= 1
		}
		r.offset++
	}
	return v
}

// ReadBool consumes a single bit.
func (r *Reader) ReadBool() bool {
	return r.ReadUint(1) == 1
}

// ReadBytes consumes width bits into a new slice, left aligned.
func (r *Reader) ReadBytes(width int) []byte {
	if width < 0 {
		panic(fmt.Sprintf("bits: invalid width %d", width))
	}
	r.require(width)
	out := make([]byte, (width+7)/8)
	if r.offset&7 == 0 && width&7 == 0 {
		copy(out, r.buf[r.offset>>3:(r.offset+width)>>3])
		r.offset += width
		return out
	}
	for i := 0; i < width; i++ {
		if r.buf[r.offset>>3]&(0x80>>uint(r.offset&7)) != 0 {
			out[i>>3] |= 0x80 >> uint(i&7)
		}
		r.offset++
	}
	return out
}

// Offset returns the number of bits consumed so far.
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	return len(r.buf)*8 - r.offset
}

func (r *Reader) require(width int) {
	if width > r.Remaining() {
		panic(fmt.Sprintf("bits: reading %d bits at offset %d overruns %d bit buffer", width, r.offset, len(r.buf)*8))
	}
}
