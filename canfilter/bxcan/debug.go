package bxcan

import (
	"fmt"
	"strings"

	"github.com/koendv/cangaroo-hwfilter/canfilter"
)

// String renders a decoded, human-readable dump of every active bank: a
// list of 4 std IDs, two std base/end ranges, two ext IDs, or one ext
// range, mirroring the reference decoder's reversal of the bank encoding.
func (c *Compiler) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "bxcan %s: %d/%d banks used\n", c.identity, c.bank, c.banks)
	for i := 0; i < c.banks; i++ {
		bit := uint32(1) << uint(i)
		if c.fa1r&bit == 0 {
			continue
		}
		is32 := c.fs1r&bit != 0
		isList := c.fm1r&bit != 0
		fr1, fr2 := c.fr1[i], c.fr2[i]

		fmt.Fprintf(&b, "bank[%d]: ", i)
		switch {
		case is32 && isList:
			id1 := (fr1 >> 3) & canfilter.MaxExtID
			id2 := (fr2 >> 3) & canfilter.MaxExtID
			fmt.Fprintf(&b, "ext list %#010x, %#010x\n", id1, id2)
		case is32 && !isList:
			base, mask := (fr1>>3)&canfilter.MaxExtID, (fr2>>3)&canfilter.MaxExtID
			begin := base & mask
			end := (begin | ^mask) & canfilter.MaxExtID
			fmt.Fprintf(&b, "ext mask %#010x-%#010x\n", begin, end)
		case !is32 && isList:
			id1 := (fr1 >> 5) & canfilter.MaxStdID
			id2 := (fr1 >> 21) & canfilter.MaxStdID
			id3 := (fr2 >> 5) & canfilter.MaxStdID
			id4 := (fr2 >> 21) & canfilter.MaxStdID
			fmt.Fprintf(&b, "std list %#03x, %#03x, %#03x, %#03x\n", id1, id2, id3, id4)
		default:
			base1, mask1 := (fr1>>5)&canfilter.MaxStdID, (fr1>>21)&canfilter.MaxStdID
			begin1 := base1 & mask1
			end1 := (begin1 | ^mask1) & canfilter.MaxStdID
			base2, mask2 := (fr2>>5)&canfilter.MaxStdID, (fr2>>21)&canfilter.MaxStdID
			begin2 := base2 & mask2
			end2 := (begin2 | ^mask2) & canfilter.MaxStdID
			fmt.Fprintf(&b, "std mask %#03x-%#03x, %#03x-%#03x\n", begin1, end1, begin2, end2)
		}
	}
	return b.String()
}

// RegisterDump renders the raw global registers and every nonzero
// (FR1[i], FR2[i]) pair, for low-level debugging.
func (c *Compiler) RegisterDump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "bxcan registers:\n")
	fmt.Fprintf(&b, "FS1R:  %#08x\n", c.fs1r)
	fmt.Fprintf(&b, "FM1R:  %#08x\n", c.fm1r)
	fmt.Fprintf(&b, "FFA1R: %#08x\n", 0)
	fmt.Fprintf(&b, "FA1R:  %#08x\n", c.fa1r)
	for i := 0; i < c.banks; i++ {
		if c.fr1[i] != 0 || c.fr2[i] != 0 {
			fmt.Fprintf(&b, "FR1[%d]: %#08x FR2[%d]: %#08x\n", i, c.fr1[i], i, c.fr2[i])
		}
	}
	return b.String()
}
