// Package bxcan compiles CAN identifier filters into the bank image
// expected by bxCAN controllers (STM32 F0/F1/F3/F4/F7), which support only
// per-bank list or mask matching and no native range primitive. Ranges are
// decomposed into a minimal set of prefix/mask entries with a CIDR-style
// aggregation (see internal/bits).
package bxcan

import (
	"github.com/koendv/cangaroo-hwfilter/canfilter"
	"github.com/koendv/cangaroo-hwfilter/internal/bits"
)

const (
	stdWidth = 11
	extWidth = 29
)

var _ canfilter.Builder = (*Compiler)(nil)

type stdMaskPair struct {
	id, mask uint32
}

// Compiler builds a bxCAN hardware filter image for a controller with a
// fixed number of banks.
type Compiler struct {
	identity canfilter.Identity
	banks    int
	logger   canfilter.Logger

	bank int
	fs1r uint32
	fm1r uint32
	fa1r uint32
	fr1  []uint32
	fr2  []uint32

	stdList *bits.Accumulator[uint32]
	stdMask *bits.Accumulator[stdMaskPair]
	extList *bits.Accumulator[uint32]
}

// New14 returns a Compiler for bxCAN with 14 banks (STM32 F0/F1/F3).
func New14(logger canfilter.Logger) *Compiler {
	return newCompiler(canfilter.BxCAN14, 14, logger)
}

// New28 returns a Compiler for bxCAN with 28 banks (STM32 F4/F7).
func New28(logger canfilter.Logger) *Compiler {
	return newCompiler(canfilter.BxCAN28, 28, logger)
}

func newCompiler(identity canfilter.Identity, banks int, logger canfilter.Logger) *Compiler {
	c := &Compiler{identity: identity, banks: banks, logger: logger}
	c.Begin()
	return c
}

// Begin resets all accumulators and the hardware image.
func (c *Compiler) Begin() error {
	c.bank = 0
	c.fs1r, c.fm1r, c.fa1r = 0, 0, 0
	c.fr1 = make([]uint32, c.banks)
	c.fr2 = make([]uint32, c.banks)
	c.stdList = bits.NewAccumulator[uint32](4)
	c.stdMask = bits.NewAccumulator[stdMaskPair](2)
	c.extList = bits.NewAccumulator[uint32](2)
	return nil
}

// AddStdID adds one standard (11-bit) identifier.
func (c *Compiler) AddStdID(id uint32) error { return c.AddStdRange(id, id) }

// AddExtID adds one extended (29-bit) identifier.
func (c *Compiler) AddExtID(id uint32) error { return c.AddExtRange(id, id) }

// AddStdRange decomposes an inclusive standard range into list/mask
// entries via CIDR aggregation.
func (c *Compiler) AddStdRange(begin, end uint32) error {
	if begin > canfilter.MaxStdID || end > canfilter.MaxStdID {
		return canfilter.Param
	}
	return bits.AggregateRange(begin, end, stdWidth, func(base, mask uint32) error {
		if mask == canfilter.MaxStdID {
			if c.logger != nil {
				c.logger.Printf("bxcan std list id %#03x", base)
			}
			return c.addStdList(base)
		}
		if c.logger != nil {
			c.logger.Printf("bxcan std mask id %#03x mask %#03x", base, mask)
		}
		return c.addStdMask(base, mask)
	})
}

// AddExtRange decomposes an inclusive extended range into list/mask
// entries via CIDR aggregation. Extended masks are emitted immediately,
// one bank per mask block; extended lists are paired two-to-a-bank.
func (c *Compiler) AddExtRange(begin, end uint32) error {
	if begin > canfilter.MaxExtID || end > canfilter.MaxExtID {
		return canfilter.Param
	}
	return bits.AggregateRange(begin, end, extWidth, func(base, mask uint32) error {
		if mask == canfilter.MaxExtID {
			if c.logger != nil {
				c.logger.Printf("bxcan ext list id %#08x", base)
			}
			return c.addExtList(base)
		}
		if c.logger != nil {
			c.logger.Printf("bxcan ext mask id %#08x mask %#08x", base, mask)
		}
		return c.emitExtMask(base, mask)
	})
}

// End flushes any non-empty accumulator: std-list, then std-mask, then
// ext-list, in that order.
func (c *Compiler) End() error {
	if c.stdList.Pending() {
		s := c.stdList.Slots()
		if err := c.emitStdList(s[0], s[1], s[2], s[3]); err != nil {
			return err
		}
	}
	if c.stdMask.Pending() {
		s := c.stdMask.Slots()
		if err := c.emitStdMask(s[0], s[1]); err != nil {
			return err
		}
	}
	if c.extList.Pending() {
		s := c.extList.Slots()
		if err := c.emitExtList(s[0], s[1]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) addStdList(id uint32) error {
	if full := c.stdList.Add(id); full {
		s := c.stdList.Slots()
		defer c.stdList.Reset()
		return c.emitStdList(s[0], s[1], s[2], s[3])
	}
	return nil
}

func (c *Compiler) addStdMask(id, mask uint32) error {
	if full := c.stdMask.Add(stdMaskPair{id, mask}); full {
		s := c.stdMask.Slots()
		defer c.stdMask.Reset()
		return c.emitStdMask(s[0], s[1])
	}
	return nil
}

func (c *Compiler) addExtList(id uint32) error {
	if full := c.extList.Add(id); full {
		s := c.extList.Slots()
		defer c.extList.Reset()
		return c.emitExtList(s[0], s[1])
	}
	return nil
}
