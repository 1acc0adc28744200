package fdcan

import (
	"encoding/binary"

	"github.com/koendv/cangaroo-hwfilter/canfilter"
)

// Image serializes the current filter tables into the packed,
// little-endian record matching the fixed-size hardware struct: a 1-byte
// identity tag, the used standard/extended filter counts, 1 reserved
// byte, then the full-capacity std_filter[maxStd] and ext_filter[maxExt][2]
// arrays with unused entries left zero.
func (c *Compiler) Image() []byte {
	size := 4 + c.maxStd*4 + c.maxExt*8
	buf := make([]byte, size)

	buf[0] = byte(c.identity)
	buf[1] = byte(len(c.stdFilter))
	buf[2] = byte(len(c.extFilter))
	// buf[3] reserved, already zero

	off := 4
	for i := 0; i < c.maxStd; i++ {
		var v uint32
		if i < len(c.stdFilter) {
			v = c.stdFilter[i]
		}
		binary.LittleEndian.PutUint32(buf[off:], v)
		off += 4
	}
	for i := 0; i < c.maxExt; i++ {
		var w0, w1 uint32
		if i < len(c.extFilter) {
			w0, w1 = c.extFilter[i][0], c.extFilter[i][1]
		}
		binary.LittleEndian.PutUint32(buf[off:], w0)
		off += 4
		binary.LittleEndian.PutUint32(buf[off:], w1)
		off += 4
	}

	return buf
}

// Usage reports how many of the controller's standard and extended filter
// slots are used.
func (c *Compiler) Usage() []canfilter.Usage {
	return []canfilter.Usage{
		{Name: "std", Used: len(c.stdFilter), Cap: c.maxStd},
		{Name: "ext", Used: len(c.extFilter), Cap: c.maxExt},
	}
}
