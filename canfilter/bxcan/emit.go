package bxcan

import "github.com/koendv/cangaroo-hwfilter/canfilter"

// emitStdList packs 4 standard IDs into one 16-bit list-mode bank.
func (c *Compiler) emitStdList(id1, id2, id3, id4 uint32) error {
	if id1 > canfilter.MaxStdID || id2 > canfilter.MaxStdID || id3 > canfilter.MaxStdID || id4 > canfilter.MaxStdID {
		return canfilter.Param
	}
	fr1 := (id2 << 21) | (id1 << 5)
	fr2 := (id4 << 21) | (id3 << 5)
	return c.emitBank(fr1, fr2, false, true)
}

// emitStdMask packs 2 (id, mask) pairs into one 16-bit mask-mode bank.
func (c *Compiler) emitStdMask(a, b stdMaskPair) error {
	if a.id > canfilter.MaxStdID || a.mask > canfilter.MaxStdID || b.id > canfilter.MaxStdID || b.mask > canfilter.MaxStdID {
		return canfilter.Param
	}
	fr1 := (a.mask << 21) | (a.id << 5)
	fr2 := (b.mask << 21) | (b.id << 5)
	return c.emitBank(fr1, fr2, false, false)
}

// emitExtList packs 2 extended IDs into one 32-bit list-mode bank.
func (c *Compiler) emitExtList(id1, id2 uint32) error {
	if id1 > canfilter.MaxExtID || id2 > canfilter.MaxExtID {
		return canfilter.Param
	}
	fr1 := (id1 << 3) | (1 << 2)
	fr2 := (id2 << 3) | (1 << 2)
	return c.emitBank(fr1, fr2, true, true)
}

// emitExtMask packs 1 (id, mask) pair into one 32-bit mask-mode bank.
func (c *Compiler) emitExtMask(id, mask uint32) error {
	if id > canfilter.MaxExtID || mask > canfilter.MaxExtID {
		return canfilter.Param
	}
	fr1 := (id << 3) | (1 << 2)
	fr2 := mask << 3
	return c.emitBank(fr1, fr2, true, false)
}

// emitBank writes fr1/fr2 into the next free bank and sets its mode bits,
// or reports Full if every bank is already used.
func (c *Compiler) emitBank(fr1, fr2 uint32, scale32, listMode bool) error {
	if c.bank >= c.banks {
		return canfilter.Full
	}

	c.fr1[c.bank] = fr1
	c.fr2[c.bank] = fr2

	bit := uint32(1) << uint(c.bank)
	if scale32 {
		c.fs1r |= bit
	} else {
		c.fs1r &^= bit
	}
	if listMode {
		c.fm1r |= bit
	} else {
		c.fm1r &^= bit
	}
	c.fa1r |= bit

	c.bank++
	return nil
}
