package buffer

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

// chunk is the number of 64-bit words staged at once by the slice writers.
const chunk = 512

// WriteAsUint64 casts c to an uint64 and writes it to w.
func WriteAsUint64[V constraints.Integer](w Writer, c V) (n int64, err error) {
	return WriteUint64(w, uint64(c))
}

// Write writes a slice of bytes to w.
func Write(w Writer, c []byte) (n int64, err error) {
	nint, err := w.Write(c)
	return int64(nint), err
}

// WriteUint8 writes a byte c to w.
func WriteUint8(w Writer, c uint8) (n int64, err error) {
	nint, err := w.Write([]byte{c})
	return int64(nint), err
}

// WriteUint32 writes an uint32 c to w.
func WriteUint32(w Writer, c uint32) (n int64, err error) {
	var bb [4]byte
	binary.LittleEndian.PutUint32(bb[:], c)
	nint, err := w.Write(bb[:])
	return int64(nint), err
}

// WriteUint64 writes an uint64 c to w.
func WriteUint64(w Writer, c uint64) (n int64, err error) {
	var bb [8]byte
	binary.LittleEndian.PutUint64(bb[:], c)
	nint, err := w.Write(bb[:])
	return int64(nint), err
}

// WriteUint64Slice writes a slice of uint64 c to w.
func WriteUint64Slice(w Writer, c []uint64) (n int64, err error) {

	var bb [chunk << 3]byte

	for len(c) > 0 {

		m := len(c)
		if m > chunk {
			m = chunk
		}

		for i := 0; i < m; i++ {
			binary.LittleEndian.PutUint64(bb[i<<3:], c[i])
		}

		var nint int
		if nint, err = w.Write(bb[:m<<3]); err != nil {
			return n + int64(nint), err
		}

		n += int64(nint)
		c = c[m:]
	}

	return
}

// WriteInt64Slice writes a slice of int64 c to w, in two's complement.
func WriteInt64Slice(w Writer, c []int64) (n int64, err error) {

	var bb [chunk << 3]byte

	for len(c) > 0 {

		m := len(c)
		if m > chunk {
			m = chunk
		}

		for i := 0; i < m; i++ {
			binary.LittleEndian.PutUint64(bb[i<<3:], uint64(c[i]))
		}

		var nint int
		if nint, err = w.Write(bb[:m<<3]); err != nil {
			return n + int64(nint), err
		}

		n += int64(nint)
		c = c[m:]
	}

	return
}
