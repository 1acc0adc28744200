// Package fdcan compiles CAN identifier filters into the filter-element
// image expected by FDCAN (Bosch M_CAN) controllers (STM32 G0/H7), which
// support native range filter elements alongside paired-ID dual elements
// and need no CIDR decomposition.
package fdcan

import (
	"github.com/koendv/cangaroo-hwfilter/canfilter"
	"github.com/koendv/cangaroo-hwfilter/internal/bits"
)

// filter-element type/configuration bit values, from STM RM0444/RM0433
// section on FDCAN standard/extended message ID filter elements.
const (
	sftRange    = 0x0
	sftDual     = 0x1
	sfecRxFifo0 = 0x1

	eftRange    = 0x0
	eftDual     = 0x1
	efecRxFifo0 = 0x1
)

var _ canfilter.Builder = (*Compiler)(nil)

// Compiler builds an FDCAN filter-element image for a controller with a
// fixed number of standard and extended filter slots.
type Compiler struct {
	identity canfilter.Identity
	maxStd   int
	maxExt   int
	logger   canfilter.Logger

	stdFilter []uint32
	extFilter [][2]uint32

	stdID *bits.Accumulator[uint32]
	extID *bits.Accumulator[uint32]
}

// New28x8 returns a Compiler for FDCAN with 28 standard and 8 extended
// filter slots (STM32 G0).
func New28x8(logger canfilter.Logger) *Compiler {
	return newCompiler(canfilter.FDCAN28x8, 28, 8, logger)
}

// New128x64 returns a Compiler for FDCAN with 128 standard and 64 extended
// filter slots (STM32 H7).
func New128x64(logger canfilter.Logger) *Compiler {
	return newCompiler(canfilter.FDCAN128x64, 128, 64, logger)
}

func newCompiler(identity canfilter.Identity, maxStd, maxExt int, logger canfilter.Logger) *Compiler {
	c := &Compiler{identity: identity, maxStd: maxStd, maxExt: maxExt, logger: logger}
	c.Begin()
	return c
}

// Begin resets all accumulators and the filter tables.
func (c *Compiler) Begin() error {
	c.stdFilter = c.stdFilter[:0]
	c.extFilter = c.extFilter[:0]
	c.stdID = bits.NewAccumulator[uint32](2)
	c.extID = bits.NewAccumulator[uint32](2)
	return nil
}

// AddStdID accumulates one standard (11-bit) identifier, pairing it with
// the next one into a single dual-ID filter element.
func (c *Compiler) AddStdID(id uint32) error {
	if id > canfilter.MaxStdID {
		return canfilter.Param
	}
	if full := c.stdID.Add(id); full {
		s := c.stdID.Slots()
		defer c.stdID.Reset()
		return c.emitStdID(s[0], s[1])
	}
	return nil
}

// AddExtID accumulates one extended (29-bit) identifier, pairing it with
// the next one into a single dual-ID filter element.
func (c *Compiler) AddExtID(id uint32) error {
	if id > canfilter.MaxExtID {
		return canfilter.Param
	}
	if full := c.extID.Add(id); full {
		s := c.extID.Slots()
		defer c.extID.Reset()
		return c.emitExtID(s[0], s[1])
	}
	return nil
}

// AddStdRange adds an inclusive standard range as one native range filter
// element. Endpoints may be given in either order.
func (c *Compiler) AddStdRange(begin, end uint32) error {
	if begin > canfilter.MaxStdID || end > canfilter.MaxStdID {
		return canfilter.Param
	}
	if begin > end {
		begin, end = end, begin
	}
	if c.logger != nil {
		c.logger.Printf("fdcan std range %#03x-%#03x", begin, end)
	}
	return c.emitStdRange(begin, end)
}

// AddExtRange adds an inclusive extended range as one native range filter
// element. Endpoints may be given in either order.
func (c *Compiler) AddExtRange(begin, end uint32) error {
	if begin > canfilter.MaxExtID || end > canfilter.MaxExtID {
		return canfilter.Param
	}
	if begin > end {
		begin, end = end, begin
	}
	if c.logger != nil {
		c.logger.Printf("fdcan ext range %#08x-%#08x", begin, end)
	}
	return c.emitExtRange(begin, end)
}

// End flushes a pending single standard or extended ID, replicating it
// into a degenerate dual-ID element that matches only that one ID.
func (c *Compiler) End() error {
	if c.stdID.Pending() {
		s := c.stdID.Slots()
		if err := c.emitStdID(s[0], s[1]); err != nil {
			return err
		}
	}
	if c.extID.Pending() {
		s := c.extID.Slots()
		if err := c.emitExtID(s[0], s[1]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) emitStdID(id1, id2 uint32) error {
	if len(c.stdFilter) >= c.maxStd {
		return canfilter.Full
	}
	if id1 > canfilter.MaxStdID || id2 > canfilter.MaxStdID {
		return canfilter.Param
	}
	sfr := (uint32(sftDual) << 30) | (uint32(sfecRxFifo0) << 27) | (id1 << 16) | id2
	c.stdFilter = append(c.stdFilter, sfr)
	return nil
}

func (c *Compiler) emitStdRange(id1, id2 uint32) error {
	if len(c.stdFilter) >= c.maxStd {
		return canfilter.Full
	}
	if id1 > canfilter.MaxStdID || id2 > canfilter.MaxStdID || id1 > id2 {
		return canfilter.Param
	}
	sfr := (uint32(sftRange) << 30) | (uint32(sfecRxFifo0) << 27) | (id1 << 16) | id2
	c.stdFilter = append(c.stdFilter, sfr)
	return nil
}

func (c *Compiler) emitExtID(id1, id2 uint32) error {
	if len(c.extFilter) >= c.maxExt {
		return canfilter.Full
	}
	if id1 > canfilter.MaxExtID || id2 > canfilter.MaxExtID {
		return canfilter.Param
	}
	c.extFilter = append(c.extFilter, [2]uint32{
		(uint32(efecRxFifo0) << 29) | id1,
		(uint32(eftDual) << 30) | id2,
	})
	return nil
}

func (c *Compiler) emitExtRange(id1, id2 uint32) error {
	if len(c.extFilter) >= c.maxExt {
		return canfilter.Full
	}
	if id1 > canfilter.MaxExtID || id2 > canfilter.MaxExtID || id1 > id2 {
		return canfilter.Param
	}
	c.extFilter = append(c.extFilter, [2]uint32{
		(uint32(efecRxFifo0) << 29) | id1,
		(uint32(eftRange) << 30) | id2,
	})
	return nil
}
