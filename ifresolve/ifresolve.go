// Package ifresolve maps a network interface name (e.g. "can0") to the
// USB vendor/product IDs and serial number of the device backing it, by
// walking the sysfs device tree the kernel exposes for it.
package ifresolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Info is the USB identity backing a network interface.
type Info struct {
	VendorID  uint16
	ProductID uint16
	Serial    string
}

// Resolver resolves a network interface name to its backing USB device.
type Resolver interface {
	Resolve(ifName string) (Info, error)
}

// verifyLink confirms ifName names a live kernel interface before the
// sysfs walk begins. Overridden on Linux (netlink_linux.go's init) with a
// real RTM_GETLINK query; left as a no-op on platforms without
// mdlayher/netlink's Linux transport.
var verifyLink = func(ifName string) error { return nil }

// SysfsResolver resolves interfaces by walking /sys/class/net/<name>/device
// upward until it finds a directory with idVendor/idProduct files, exactly
// as the kernel lays out USB-backed network devices.
type SysfsResolver struct {
	// Root overrides the sysfs mount point, defaulting to "/sys" when empty.
	// Tests substitute a throwaway directory tree here.
	Root string
}

func (r SysfsResolver) root() string {
	if r.Root != "" {
		return r.Root
	}
	return "/sys"
}

// Resolve implements Resolver. On Linux it first confirms via netlink
// that ifName still names a live interface, since sysfs can lag an
// interface that was just renamed or removed; skipped when Root is
// overridden, which only happens in tests walking a fake sysfs tree with
// no matching kernel interface.
func (r SysfsResolver) Resolve(ifName string) (Info, error) {
	if r.Root == "" {
		if err := verifyLink(ifName); err != nil {
			return Info{}, fmt.Errorf("interface %s: %w", ifName, err)
		}
	}

	netPath := filepath.Join(r.root(), "class", "net", ifName)
	if _, err := os.Stat(netPath); err != nil {
		return Info{}, fmt.Errorf("interface %s not found: %w", ifName, err)
	}

	devicePath, err := filepath.EvalSymlinks(filepath.Join(netPath, "device"))
	if err != nil {
		return Info{}, fmt.Errorf("interface %s has no backing device: %w", ifName, err)
	}

	return findUSBInfo(devicePath)
}

// findUSBInfo walks startPath and its ancestors looking for a directory
// carrying idVendor and idProduct files, mirroring the reference
// implementation's upward sysfs walk.
func findUSBInfo(startPath string) (Info, error) {
	path := startPath
	for {
		vendorPath := filepath.Join(path, "idVendor")
		productPath := filepath.Join(path, "idProduct")

		if fileExists(vendorPath) && fileExists(productPath) {
			vendor, err := readHex16(vendorPath)
			if err != nil {
				return Info{}, err
			}
			product, err := readHex16(productPath)
			if err != nil {
				return Info{}, err
			}

			var serial string
			if serialPath := filepath.Join(path, "serial"); fileExists(serialPath) {
				serial, _ = readLine(serialPath)
			}

			return Info{VendorID: vendor, ProductID: product, Serial: serial}, nil
		}

		parent := filepath.Dir(path)
		if parent == path || parent == "/" || parent == "." {
			break
		}
		path = parent
	}

	return Info{}, fmt.Errorf("no usb device found above %s", startPath)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func readLine(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readHex16(path string) (uint16, error) {
	line, err := readLine(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(line, "0x"), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("parse %s as hex16: %w", path, err)
	}
	return uint16(v), nil
}
