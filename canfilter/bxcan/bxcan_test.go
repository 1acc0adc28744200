package bxcan

import (
	"encoding/binary"
	"testing"

	"github.com/koendv/cangaroo-hwfilter/canfilter"
	"github.com/stretchr/testify/require"
)

func imageFields(t *testing.T, img []byte, banks int) (fs1r, fm1r, ffa1r, fa1r uint32, fr1, fr2 []uint32) {
	t.Helper()
	require.Len(t, img, 4+4*4+banks*4+banks*4)
	require.Equal(t, byte(canfilter.BxCAN14), img[0])
	off := 4
	fs1r = binary.LittleEndian.Uint32(img[off:])
	off += 4
	fm1r = binary.LittleEndian.Uint32(img[off:])
	off += 4
	ffa1r = binary.LittleEndian.Uint32(img[off:])
	off += 4
	fa1r = binary.LittleEndian.Uint32(img[off:])
	off += 4
	fr1 = make([]uint32, banks)
	for i := 0; i < banks; i++ {
		fr1[i] = binary.LittleEndian.Uint32(img[off:])
		off += 4
	}
	fr2 = make([]uint32, banks)
	for i := 0; i < banks; i++ {
		fr2[i] = binary.LittleEndian.Uint32(img[off:])
		off += 4
	}
	return
}

// Scenario 1: a single standard ID goes into a 16-bit list bank, replicated
// into all four slots.
func TestScenario1SingleStdID(t *testing.T) {
	c := New14(nil)
	require.NoError(t, canfilter.Parse(c, "0x100"))
	require.NoError(t, c.End())

	fs1r, fm1r, _, fa1r, fr1, fr2 := imageFields(t, c.Image(), 14)
	require.Equal(t, uint32(1), fa1r)
	require.Equal(t, uint32(0), fs1r)
	require.Equal(t, uint32(1), fm1r)
	require.Equal(t, uint32(0x20002000), fr1[0])
	require.Equal(t, uint32(0x20002000), fr2[0])
	require.Equal(t, 1, c.bank)
}

// Scenario 2: 0x000-0x0FF collapses to one 16-bit mask bank (id=0, mask=0x700).
func TestScenario2StdRangeSingleMaskBank(t *testing.T) {
	c := New14(nil)
	require.NoError(t, canfilter.Parse(c, "0x000-0x0FF"))
	require.NoError(t, c.End())

	fs1r, fm1r, _, fa1r, fr1, fr2 := imageFields(t, c.Image(), 14)
	require.Equal(t, uint32(1), fa1r)
	require.Equal(t, uint32(0), fs1r)
	require.Equal(t, uint32(0), fm1r)
	require.Equal(t, uint32(0x700)<<21, fr1[0])
	require.Equal(t, uint32(0x700)<<21, fr2[0])
	require.Equal(t, 1, c.bank)
}

// Scenario 3: 0x000-0x1FF coalesces into a single 512-ID block (0, 0x600),
// not two 256-ID blocks.
func TestScenario3StdRangeCoalescedBlock(t *testing.T) {
	c := New14(nil)
	require.NoError(t, canfilter.Parse(c, "0x000-0x1FF"))
	require.NoError(t, c.End())

	_, _, _, fa1r, fr1, _ := imageFields(t, c.Image(), 14)
	require.Equal(t, uint32(1), fa1r)
	require.Equal(t, uint32(0x600)<<21, fr1[0])
	require.Equal(t, 1, c.bank)
}

// Scenario 4: 0x000-0x2FF needs two mask entries, (0,0x600) and
// (0x200,0x700), packed into a single bank's two slots.
func TestScenario4StdRangeTwoEntriesOneBank(t *testing.T) {
	c := New14(nil)
	require.NoError(t, canfilter.Parse(c, "0x000-0x2FF"))
	require.NoError(t, c.End())

	_, _, _, fa1r, fr1, fr2 := imageFields(t, c.Image(), 14)
	require.Equal(t, uint32(1), fa1r)
	require.Equal(t, uint32(0x600)<<21, fr1[0])
	require.Equal(t, uint32(0x700)<<21|uint32(0x200)<<5, fr2[0])
	require.Equal(t, 1, c.bank)
}

func TestExtIDGoesIntoExtListBank(t *testing.T) {
	c := New14(nil)
	require.NoError(t, c.AddExtID(0x123456))
	require.NoError(t, c.End())

	_, _, _, fa1r, fr1, fr2 := imageFields(t, c.Image(), 14)
	require.Equal(t, uint32(1), fa1r)
	require.Equal(t, uint32(0x123456<<3)|(1<<2), fr1[0])
	require.Equal(t, uint32(0x123456<<3)|(1<<2), fr2[0])
}

func TestExtRangeEmitsMaskBankImmediately(t *testing.T) {
	c := New14(nil)
	require.NoError(t, c.AddExtRange(0, 0xFF))
	// The mask block is emitted eagerly, so End must not touch bank 0 again.
	require.Equal(t, 1, c.bank)
	require.NoError(t, c.End())
	require.Equal(t, 1, c.bank)
}

func TestBanksExhaustedReturnsFull(t *testing.T) {
	c := New14(nil)
	for i := 0; i < 14; i++ {
		require.NoError(t, c.AddExtRange(uint32(i)*0x1000, uint32(i)*0x1000+0xFF))
	}
	err := c.AddExtRange(0xE000, 0xE0FF)
	require.ErrorIs(t, err, canfilter.Full)
}

func TestUsageReportsBankCount(t *testing.T) {
	c := New14(nil)
	require.NoError(t, c.AddStdID(0x100))
	require.NoError(t, c.End())
	usage := c.Usage()
	require.Len(t, usage, 1)
	require.Equal(t, "banks", usage[0].Name)
	require.Equal(t, 1, usage[0].Used)
	require.Equal(t, 14, usage[0].Cap)
}

func TestStringDecodesStdListBank(t *testing.T) {
	c := New14(nil)
	require.NoError(t, canfilter.Parse(c, "0x100"))
	require.NoError(t, c.End())
	s := c.String()
	require.Contains(t, s, "std list")
	require.Contains(t, s, "0x100")
}

func TestStringDecodesStdMaskRange(t *testing.T) {
	c := New14(nil)
	require.NoError(t, canfilter.Parse(c, "0x000-0x0FF"))
	require.NoError(t, c.End())
	s := c.String()
	require.Contains(t, s, "std mask")
	require.Contains(t, s, "0x000-0x0ff")
}

func TestAllowAllFillsExtMaskAndStdMask(t *testing.T) {
	c := New28(nil)
	require.NoError(t, canfilter.AllowAll(c))
	require.NoError(t, c.End())
	require.Greater(t, c.bank, 0)
}
