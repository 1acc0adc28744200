package bxcan

import (
	"encoding/binary"

	"github.com/koendv/cangaroo-hwfilter/canfilter"
)

// Image serializes the current hardware state into the packed, 4-byte
// aligned, little-endian record described by the on-wire format: a 1-byte
// identity tag, 3 reserved bytes, the four global bank-mode registers, then
// FR1[banks] and FR2[banks]. FFA1R is always zero — the compiler never
// assigns FIFO 1.
func (c *Compiler) Image() []byte {
	size := 4 + 4*4 + c.banks*4 + c.banks*4
	buf := make([]byte, size)

	buf[0] = byte(c.identity)
	// buf[1:4] reserved, already zero

	off := 4
	binary.LittleEndian.PutUint32(buf[off:], c.fs1r)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], c.fm1r)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], 0) // FFA1R: reserved, never written
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], c.fa1r)
	off += 4

	for i := 0; i < c.banks; i++ {
		binary.LittleEndian.PutUint32(buf[off:], c.fr1[i])
		off += 4
	}
	for i := 0; i < c.banks; i++ {
		binary.LittleEndian.PutUint32(buf[off:], c.fr2[i])
		off += 4
	}

	return buf
}

// Usage reports how many of the controller's banks are used.
func (c *Compiler) Usage() []canfilter.Usage {
	return []canfilter.Usage{{Name: "banks", Used: c.bank, Cap: c.banks}}
}
