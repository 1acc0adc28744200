// Package transport speaks the gs_usb/candlelight vendor control protocol
// used to probe a CAN controller's hardware-filter capability and push a
// compiled filter image to it over USB.
package transport

import (
	"fmt"
	"time"

	"github.com/google/gousb"

	"github.com/koendv/cangaroo-hwfilter/canfilter"
)

// vendor control request codes, shared with candlelight firmware's
// gs_usb_breq enum. Only the subset this package uses is named.
const (
	breqBtConst   = 4
	breqSetFilter = 15
	breqGetFilter = 16
)

// featureFilter is the GS_CAN_FEATURE_FILTER capability bit in
// gs_device_capability.feature, returned by breqBtConst.
const featureFilter = 1 << 16

const controlTimeout = 1 * time.Second

// ctrlIn and ctrlOut are the bmRequestType bytes for vendor/interface
// control transfers, matching libusb's
// LIBUSB_REQUEST_TYPE_VENDOR|LIBUSB_RECIPIENT_INTERFACE combined with the
// transfer direction bit.
const (
	ctrlIn  = uint8(gousb.ControlVendor | gousb.ControlInterface | gousb.EndpointDirectionIn)
	ctrlOut = uint8(gousb.ControlVendor | gousb.ControlInterface | gousb.EndpointDirectionOut)
)

// Device is an open handle to a gs_usb-compatible CAN adapter.
type Device struct {
	ctx   *gousb.Context
	dev   *gousb.Device
	intf  *gousb.Interface
	done  func()
	vid   gousb.ID
	pid   gousb.ID
}

// Candidate is one VID/PID pair worth probing when no interface-specific
// identity is known.
type Candidate struct {
	VID uint16
	PID uint16
}

// Open claims the USB device matching vid/pid, and serial if non-empty.
// The kernel driver, if bound, is detached automatically for the duration
// of the claim and reattached on Close.
func Open(vid, pid uint16, serial string) (*Device, error) {
	ctx := gousb.NewContext()

	usbVID, usbPID := gousb.ID(vid), gousb.ID(pid)
	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == usbVID && desc.Product == usbPID
	})
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("enumerate usb devices: %w", err)
	}

	var chosen *gousb.Device
	for _, d := range devs {
		if chosen != nil || !matchesSerial(d, serial) {
			d.Close()
			continue
		}
		chosen = d
	}
	if chosen == nil {
		ctx.Close()
		return nil, fmt.Errorf("no usb device matching vid=%#04x pid=%#04x serial=%q", vid, pid, serial)
	}

	chosen.SetAutoDetach(true)
	chosen.ControlTimeout = controlTimeout
	intf, done, err := chosen.DefaultInterface()
	if err != nil {
		chosen.Close()
		ctx.Close()
		return nil, fmt.Errorf("claim default interface: %w", err)
	}

	return &Device{ctx: ctx, dev: chosen, intf: intf, done: done, vid: usbVID, pid: usbPID}, nil
}

// OpenCandidates tries each candidate VID/PID pair in order, via
// OpenShared, and returns the first device that opens successfully.
func OpenCandidates(candidates []Candidate, serial string) (*Device, error) {
	var lastErr error
	for _, c := range candidates {
		d, err := OpenShared(c.VID, c.PID, serial)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no candidates provided")
	}
	return nil, lastErr
}

func matchesSerial(d *gousb.Device, serial string) bool {
	if serial == "" {
		return true
	}
	s, err := d.SerialNumber()
	return err == nil && s == serial
}

// Close releases the claimed interface, reattaches any detached kernel
// driver, and frees the libusb context.
func (d *Device) Close() error {
	if d == nil {
		return nil
	}
	if d.done != nil {
		d.done()
	}
	var err error
	if d.dev != nil {
		err = d.dev.Close()
	}
	if d.ctx != nil {
		d.ctx.Close()
	}
	return err
}

// HasHardwareFilter probes BT_CONST and reports whether the controller
// advertises the hardware-filter feature bit.
func (d *Device) HasHardwareFilter() (bool, error) {
	buf := make([]byte, 40)
	n, err := d.dev.Control(ctrlIn, breqBtConst, 0, 0, buf)
	if err != nil {
		return false, fmt.Errorf("bt_const control transfer: %w", err)
	}
	if n < 4 {
		return false, fmt.Errorf("bt_const response too short: %d bytes", n)
	}
	feature := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	return feature&featureFilter != 0, nil
}

// Identity probes GET_FILTER and reports the controller's hardware-filter
// identity tag.
func (d *Device) Identity() (canfilter.Identity, error) {
	buf := make([]byte, 4)
	n, err := d.dev.Control(ctrlIn, breqGetFilter, 0, 0, buf)
	if err != nil {
		return canfilter.None, fmt.Errorf("get_filter control transfer: %w", err)
	}
	if n < 1 {
		return canfilter.None, fmt.Errorf("get_filter response too short: %d bytes", n)
	}
	return canfilter.Identity(buf[0]), nil
}

// SetFilter ships a compiled filter image to the controller via
// SET_FILTER. The transfer must write exactly len(image) bytes.
func (d *Device) SetFilter(image []byte) error {
	n, err := d.dev.Control(ctrlOut, breqSetFilter, 0, 0, image)
	if err != nil {
		return fmt.Errorf("set_filter control transfer: %w", err)
	}
	if n != len(image) {
		return fmt.Errorf("set_filter short write: wrote %d of %d bytes", n, len(image))
	}
	return nil
}
