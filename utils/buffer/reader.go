package buffer

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/exp/constraints"
)

// ReadAsUint64 reads an uint64 from r and stores the result into c with pointer type casting into type V.
func ReadAsUint64[V constraints.Integer](r Reader, c *V) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadAsUint64: c is nil")
	}

	var u uint64
	if n, err = ReadUint64(r, &u); err != nil {
		return
	}

	*c = V(u)

	return
}

// Read reads len(c) bytes from r into c.
func Read(r Reader, c []byte) (n int64, err error) {
	nint, err := io.ReadFull(r, c)
	return int64(nint), err
}

// ReadUint8 reads a byte from r and stores the result into *c.
func ReadUint8(r Reader, c *uint8) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint8: c is nil")
	}

	var bb [1]byte

	nint, err := io.ReadFull(r, bb[:])
	if err != nil {
		return int64(nint), err
	}

	*c = bb[0]

	return int64(nint), nil
}

// ReadUint32 reads an uint32 from r and stores the result into *c.
func ReadUint32(r Reader, c *uint32) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint32: c is nil")
	}

	var bb [4]byte

	nint, err := io.ReadFull(r, bb[:])
	if err != nil {
		return int64(nint), err
	}

	*c = binary.LittleEndian.Uint32(bb[:])

	return int64(nint), nil
}

// ReadUint64 reads an uint64 from r and stores the result into *c.
func ReadUint64(r Reader, c *uint64) (n int64, err error) {

	if c == nil {
		return 0, fmt.Errorf("cannot ReadUint64: c is nil")
	}

	var bb [8]byte

	nint, err := io.ReadFull(r, bb[:])
	if err != nil {
		return int64(nint), err
	}

	*c = binary.LittleEndian.Uint64(bb[:])

	return int64(nint), nil
}

// ReadUint64Slice reads a slice of uint64 from r and stores the result into c.
func ReadUint64Slice(r Reader, c []uint64) (n int64, err error) {

	var bb [chunk << 3]byte

	for len(c) > 0 {

		m := len(c)
		if m > chunk {
			m = chunk
		}

		nint, err := io.ReadFull(r, bb[:m<<3])
		n += int64(nint)
		if err != nil {
			return n, err
		}

		for i := 0; i < m; i++ {
			c[i] = binary.LittleEndian.Uint64(bb[i<<3:])
		}

		c = c[m:]
	}

	return
}

// ReadInt64Slice reads a slice of two's complement int64 from r and stores the result into c.
func ReadInt64Slice(r Reader, c []int64) (n int64, err error) {

	var bb [chunk << 3]byte

	for len(c) > 0 {

		m := len(c)
		if m > chunk {
			m = chunk
		}

		nint, err := io.ReadFull(r, bb[:m<<3])
		n += int64(nint)
		if err != nil {
			return n, err
		}

		for i := 0; i < m; i++ {
			c[i] = int64(binary.LittleEndian.Uint64(bb[i<<3:]))
		}

		c = c[m:]
	}

	return
}
