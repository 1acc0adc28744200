// Package orchestrator drives the end-to-end flow of pushing a text
// filter definition to a CAN interface's hardware acceptance filter:
// resolve the interface to its USB device, open it, probe its
// capability and identity, compile the filter for that identity, and
// ship the resulting image.
package orchestrator

import (
	"fmt"

	"github.com/koendv/cangaroo-hwfilter/canfilter"
	"github.com/koendv/cangaroo-hwfilter/canfilter/bxcan"
	"github.com/koendv/cangaroo-hwfilter/canfilter/fdcan"
	"github.com/koendv/cangaroo-hwfilter/ifresolve"
	"github.com/koendv/cangaroo-hwfilter/transport"
)

// Device is the subset of *transport.Device the orchestrator depends on,
// so tests can substitute a fake without opening real hardware.
type Device interface {
	HasHardwareFilter() (bool, error)
	Identity() (canfilter.Identity, error)
	SetFilter(image []byte) error
	Close() error
}

// Opener resolves a USB identity and returns an open Device, so tests can
// substitute transport.Open/transport.OpenShared with a fake.
type Opener func(vid, pid uint16, serial string) (Device, error)

// Push resolves ifName to its USB device, opens it, checks it advertises
// hardware filtering, compiles filterDef for the controller's reported
// identity, and ships the resulting image via SET_FILTER. It mirrors the
// reference implementation's setHardwareFilter step order exactly: any
// failed step aborts before SET_FILTER is attempted.
func Push(resolver ifresolve.Resolver, open Opener, logger canfilter.Logger, ifName, filterDef string) error {
	info, err := resolver.Resolve(ifName)
	if err != nil {
		return fmt.Errorf("hwfilter: interface not found: %w", err)
	}

	dev, err := open(info.VendorID, info.ProductID, info.Serial)
	if err != nil {
		return fmt.Errorf("hwfilter: could not open backend for interface: %w", err)
	}
	return pushToDevice(dev, logger, filterDef)
}

// PushDirect runs the same compile-and-ship flow as Push against an
// already-opened device, for callers that located the device by scanning
// a VID/PID candidate list instead of resolving a network interface name.
func PushDirect(dev Device, logger canfilter.Logger, filterDef string) error {
	return pushToDevice(dev, logger, filterDef)
}

func pushToDevice(dev Device, logger canfilter.Logger, filterDef string) error {
	defer dev.Close()

	hasFilter, err := dev.HasHardwareFilter()
	if err != nil {
		return fmt.Errorf("hwfilter: capability probe failed: %w", err)
	}
	if !hasFilter {
		return fmt.Errorf("hwfilter: controller does not have hardware filter")
	}

	identity, err := dev.Identity()
	if err != nil {
		return fmt.Errorf("hwfilter: identity probe failed: %w", err)
	}

	builder, err := newBuilder(identity, logger)
	if err != nil {
		return fmt.Errorf("hwfilter: %w", err)
	}

	if err := builder.Begin(); err != nil {
		return fmt.Errorf("hwfilter: begin failed: %w", err)
	}
	if err := canfilter.Parse(builder, filterDef); err != nil {
		return fmt.Errorf("hwfilter: filter syntax error: %w", err)
	}
	if err := builder.End(); err != nil {
		return fmt.Errorf("hwfilter: end failed: %w", err)
	}

	if err := dev.SetFilter(builder.Image()); err != nil {
		return fmt.Errorf("hwfilter: filter fail: %w", err)
	}

	if logger != nil {
		logger.Printf("hwfilter: filter success (%s)", builder)
	}
	return nil
}

// newBuilder dispatches on the controller identity tag reported by the
// device, matching setHardwareFilter's switch over canfilter_hardware_t.
func newBuilder(identity canfilter.Identity, logger canfilter.Logger) (canfilter.Builder, error) {
	switch identity {
	case canfilter.BxCAN14:
		return bxcan.New14(logger), nil
	case canfilter.BxCAN28:
		return bxcan.New28(logger), nil
	case canfilter.FDCAN28x8:
		return fdcan.New28x8(logger), nil
	case canfilter.FDCAN128x64:
		return fdcan.New128x64(logger), nil
	default:
		return nil, fmt.Errorf("invalid hardware filter identity %s", identity)
	}
}

// OpenTransport adapts transport.OpenShared to the Opener signature, so
// concurrent Push calls racing on the same VID/PID/serial collapse into
// one USB open.
func OpenTransport(vid, pid uint16, serial string) (Device, error) {
	return transport.OpenShared(vid, pid, serial)
}
