package fdcan

import (
	"fmt"
	"strings"
)

var filterTypeName = [4]string{"range", "dual", "mask", "off"}
var filterConfigName = [8]string{"off", "fifo0", "fifo1", "reject", "prio", "prio fifo0", "prio fifo1", "not used"}

// String renders a decoded, human-readable dump of every filter element:
// its type (range or dual), its two IDs, and its RX configuration.
func (c *Compiler) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fdcan %s: %d/%d std, %d/%d ext\n", c.identity, len(c.stdFilter), c.maxStd, len(c.extFilter), c.maxExt)
	for i, sf := range c.stdFilter {
		id1 := (sf >> 16) & 0x7FF
		id2 := sf & 0x7FF
		sfec := (sf >> 27) & 0x7
		sft := (sf >> 30) & 0x3
		fmt.Fprintf(&b, "sf[%d]: %s %#05x %#05x %s\n", i, filterTypeName[sft], id1, id2, filterConfigName[sfec])
	}
	for i, ef := range c.extFilter {
		efid1 := ef[0] & 0x1FFFFFFF
		efid2 := ef[1] & 0x1FFFFFFF
		efec := (ef[0] >> 29) & 0x7
		eft := (ef[1] >> 30) & 0x3
		fmt.Fprintf(&b, "ef[%d]: %s %#010x %#010x %s\n", i, filterTypeName[eft], efid1, efid2, filterConfigName[efec])
	}
	return b.String()
}

// RegisterDump renders the raw filter-element words, for low-level
// debugging.
func (c *Compiler) RegisterDump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fdcan registers:\n")
	fmt.Fprintf(&b, "standard filters: %d\n", len(c.stdFilter))
	for i, sf := range c.stdFilter {
		fmt.Fprintf(&b, "sf[%d]: %#010x\n", i, sf)
	}
	fmt.Fprintf(&b, "extended filters: %d\n", len(c.extFilter))
	for i, ef := range c.extFilter {
		fmt.Fprintf(&b, "ef[%d]: f0=%#010x f1=%#010x\n", i, ef[0], ef[1])
	}
	return b.String()
}
