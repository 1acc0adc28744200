package canfilter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestUsagePercentBankersRounding(t *testing.T) {
	assert.Equal(t, 7, Usage{Used: 1, Cap: 14}.Percent())
	assert.Equal(t, 50, Usage{Used: 7, Cap: 14}.Percent())
	assert.Equal(t, 100, Usage{Used: 14, Cap: 14}.Percent())
	assert.Equal(t, 0, Usage{Used: 0, Cap: 14}.Percent())
}

func TestAsError(t *testing.T) {
	assert.NoError(t, AsError(Success))
	assert.Equal(t, Param, AsError(Param))
	assert.Equal(t, Full, AsError(Full))
}

func TestIdentityString(t *testing.T) {
	assert.Equal(t, "bxcan-14", BxCAN14.String())
	assert.Equal(t, "fdcan-128-64", FDCAN128x64.String())
}

type fakeBuilder struct {
	stdRanges, extRanges [][2]uint32
}

func (f *fakeBuilder) Begin() error         { return nil }
func (f *fakeBuilder) AddStdID(id uint32) error { return f.AddStdRange(id, id) }
func (f *fakeBuilder) AddExtID(id uint32) error { return f.AddExtRange(id, id) }
func (f *fakeBuilder) AddStdRange(a, b uint32) error {
	f.stdRanges = append(f.stdRanges, [2]uint32{a, b})
	return nil
}
func (f *fakeBuilder) AddExtRange(a, b uint32) error {
	f.extRanges = append(f.extRanges, [2]uint32{a, b})
	return nil
}
func (f *fakeBuilder) End() error     { return nil }
func (f *fakeBuilder) Image() []byte  { return nil }
func (f *fakeBuilder) Usage() []Usage { return nil }
func (f *fakeBuilder) String() string { return "fake" }

func TestAllowAll(t *testing.T) {
	f := &fakeBuilder{}
	assert.NoError(t, AllowAll(f))
	if diff := cmp.Diff([][2]uint32{{0, MaxStdID}}, f.stdRanges); diff != "" {
		t.Errorf("stdRanges mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][2]uint32{{0, MaxExtID}}, f.extRanges); diff != "" {
		t.Errorf("extRanges mismatch (-want +got):\n%s", diff)
	}
}
