package orchestrator

import (
	"errors"
	"testing"

	"github.com/koendv/cangaroo-hwfilter/canfilter"
	"github.com/koendv/cangaroo-hwfilter/ifresolve"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	info ifresolve.Info
	err  error
}

func (f fakeResolver) Resolve(ifName string) (ifresolve.Info, error) { return f.info, f.err }

type fakeDevice struct {
	hasFilter    bool
	capErr       error
	identity     canfilter.Identity
	identityErr  error
	setFilterErr error
	lastImage    []byte
	closed       bool
}

func (d *fakeDevice) HasHardwareFilter() (bool, error)     { return d.hasFilter, d.capErr }
func (d *fakeDevice) Identity() (canfilter.Identity, error) { return d.identity, d.identityErr }
func (d *fakeDevice) SetFilter(image []byte) error {
	d.lastImage = image
	return d.setFilterErr
}
func (d *fakeDevice) Close() error { d.closed = true; return nil }

func TestPushHappyPathBxCAN(t *testing.T) {
	dev := &fakeDevice{hasFilter: true, identity: canfilter.BxCAN14}
	resolver := fakeResolver{info: ifresolve.Info{VendorID: 0x1d50, ProductID: 0x606f}}
	open := func(vid, pid uint16, serial string) (Device, error) { return dev, nil }

	err := Push(resolver, open, nil, "can0", "0x100")
	require.NoError(t, err)
	require.NotEmpty(t, dev.lastImage)
	require.True(t, dev.closed)
}

func TestPushNoHardwareFilterFails(t *testing.T) {
	dev := &fakeDevice{hasFilter: false}
	resolver := fakeResolver{info: ifresolve.Info{VendorID: 1, ProductID: 2}}
	open := func(vid, pid uint16, serial string) (Device, error) { return dev, nil }

	err := Push(resolver, open, nil, "can0", "0x100")
	require.Error(t, err)
	require.Nil(t, dev.lastImage)
	require.True(t, dev.closed)
}

func TestPushResolveFailureNeverOpens(t *testing.T) {
	resolver := fakeResolver{err: errors.New("not found")}
	opened := false
	open := func(vid, pid uint16, serial string) (Device, error) {
		opened = true
		return nil, nil
	}

	err := Push(resolver, open, nil, "can0", "0x100")
	require.Error(t, err)
	require.False(t, opened)
}

func TestPushBadFilterSyntaxNeverCallsSetFilter(t *testing.T) {
	dev := &fakeDevice{hasFilter: true, identity: canfilter.BxCAN14}
	resolver := fakeResolver{info: ifresolve.Info{VendorID: 1, ProductID: 2}}
	open := func(vid, pid uint16, serial string) (Device, error) { return dev, nil }

	err := Push(resolver, open, nil, "can0", "not-a-number")
	require.Error(t, err)
	require.Nil(t, dev.lastImage)
}

func TestPushUnknownIdentityFails(t *testing.T) {
	dev := &fakeDevice{hasFilter: true, identity: canfilter.None}
	resolver := fakeResolver{info: ifresolve.Info{VendorID: 1, ProductID: 2}}
	open := func(vid, pid uint16, serial string) (Device, error) { return dev, nil }

	err := Push(resolver, open, nil, "can0", "0x100")
	require.Error(t, err)
}

func TestPushFDCANIdentity(t *testing.T) {
	dev := &fakeDevice{hasFilter: true, identity: canfilter.FDCAN128x64}
	resolver := fakeResolver{info: ifresolve.Info{VendorID: 1, ProductID: 2}}
	open := func(vid, pid uint16, serial string) (Device, error) { return dev, nil }

	err := Push(resolver, open, nil, "can0", "0x1FFF0000-0x1FFFFFFF")
	require.NoError(t, err)
	require.NotEmpty(t, dev.lastImage)
}

func TestPushDirectHappyPath(t *testing.T) {
	dev := &fakeDevice{hasFilter: true, identity: canfilter.BxCAN28}

	err := PushDirect(dev, nil, "0x100")
	require.NoError(t, err)
	require.NotEmpty(t, dev.lastImage)
	require.True(t, dev.closed)
}

func TestPushDirectNoHardwareFilterFails(t *testing.T) {
	dev := &fakeDevice{hasFilter: false}

	err := PushDirect(dev, nil, "0x100")
	require.Error(t, err)
	require.Nil(t, dev.lastImage)
	require.True(t, dev.closed)
}
