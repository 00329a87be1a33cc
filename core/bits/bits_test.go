package bits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterPacksMSBFirst(t *testing.T) {
	w := NewWriter(16)
	w.WriteUint(3, 3) // 011
	w.WriteUint(7, 3) // 111
	w.WriteUint(0, 2) // 00
	w.WriteUint(0xA5, 8)

	assert.Equal(t, []byte{0x7C, 0xA5}, w.Bytes())
	assert.Equal(t, 16, w.Offset())
}

func TestWriterMasksToWidth(t *testing.T) {
	w := NewWriter(8)
	w.WriteUint(0x1FF, 4)
	w.WriteUint(0, 4)

	assert.Equal(t, []byte{0xF0}, w.Bytes())
}

func TestWriterUnalignedBytes(t *testing.T) {
	w := NewWriter(20)
	w.WriteUint(0xF, 4)
	w.WriteBytes([]byte{0x12, 0x34}, 16)

	assert.Equal(t, []byte{0xF1, 0x23, 0x40}, w.Bytes())
}

func TestWriterOverflowPanics(t *testing.T) {
	w := NewWriter(10)
	w.WriteUint(0, 8)

	assert.Panics(t, func() { w.WriteUint(0, 3) })
	assert.Panics(t, func() { NewWriter(8).WriteUint(0, 0) })
	assert.Panics(t, func() { NewWriter(128).WriteUint(0, 65) })
	assert.Panics(t, func() { NewWriter(64).WriteBytes([]byte{1}, 9) })
}

func TestReaderRoundTrip(t *testing.T) {
	fields := []struct {
		value uint64
		width int
	}{
		{1, 1},
		{0, 1},
		{33, 12},
		{2, 5},
		{4, 5},
		{15, 4},
		{0, 4},
		{255, 8},
		{1060680, 24},
		{3818448008, 32},
		{0xDEADBEEFCAFEBABE, 64},
	}

	total := 0
	for _, f := range fields {
		total += f.width
	}

	w := NewWriter(total)
	for _, f := range fields {
		w.WriteUint(f.value, f.width)
	}
	require.Equal(t, total, w.Offset())

	r := NewReader(w.Bytes())
	for _, f := range fields {
		assert.Equal(t, f.value, r.ReadUint(f.width), "width %d", f.width)
	}
	assert.Equal(t, 0, r.Remaining()%8)
}

func TestReaderBytes(t *testing.T) {
	r := NewReader([]byte{0x0A, 0xBC, 0xDE})
	assert.Equal(t, uint64(0), r.ReadUint(4))
	assert.Equal(t, []byte{0xAB, 0xCD}, r.ReadBytes(16))
	assert.Equal(t, 4, r.Remaining())
	assert.True(t, r.ReadBool())
	assert.Equal(t, 21, r.Offset())
}

func TestReaderAlignedBytesCopy(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	r := NewReader(src)
	got := r.ReadBytes(32)
	got[0] = 9

	assert.Equal(t, byte(1), src[0], "ReadBytes must not alias the source")
}

func TestReaderOverrunPanics(t *testing.T) {
	r := NewReader([]byte{0xFF})
	r.ReadUint(6)

	assert.Panics(t, func() { r.ReadUint(3) })
	assert.Panics(t, func() { NewReader(nil).ReadBytes(8) })
}
