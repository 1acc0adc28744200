package ifresolve

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildFakeSysfs creates:
//
//	root/class/net/can0 -> ../../devices/usbdev/1-1/1-1:1.0/net/can0
//	root/devices/usbdev/1-1/idVendor  = "1d50"
//	root/devices/usbdev/1-1/idProduct = "606f"
//	root/devices/usbdev/1-1/serial    = "ABC123"
func buildFakeSysfs(t *testing.T, serial string) string {
	t.Helper()
	root := t.TempDir()

	usbDir := filepath.Join(root, "devices", "usbdev", "1-1")
	require.NoError(t, os.MkdirAll(usbDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(usbDir, "idVendor"), []byte("1d50\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(usbDir, "idProduct"), []byte("606f\n"), 0o644))
	if serial != "" {
		require.NoError(t, os.WriteFile(filepath.Join(usbDir, "serial"), []byte(serial+"\n"), 0o644))
	}

	netIfaceDir := filepath.Join(usbDir, "1-1:1.0", "net", "can0")
	require.NoError(t, os.MkdirAll(netIfaceDir, 0o755))

	classNetDir := filepath.Join(root, "class", "net", "can0")
	require.NoError(t, os.MkdirAll(filepath.Dir(classNetDir), 0o755))
	require.NoError(t, os.Symlink(netIfaceDir, classNetDir))

	deviceLink := filepath.Join(classNetDir, "device")
	require.NoError(t, os.Symlink(usbDir, deviceLink))

	return root
}

func TestSysfsResolverFindsUSBInfo(t *testing.T) {
	root := buildFakeSysfs(t, "ABC123")
	r := SysfsResolver{Root: root}

	info, err := r.Resolve("can0")
	require.NoError(t, err)
	require.Equal(t, Info{VendorID: 0x1d50, ProductID: 0x606f, Serial: "ABC123"}, info)
}

func TestSysfsResolverNoSerial(t *testing.T) {
	root := buildFakeSysfs(t, "")
	r := SysfsResolver{Root: root}

	info, err := r.Resolve("can0")
	require.NoError(t, err)
	require.Equal(t, Info{VendorID: 0x1d50, ProductID: 0x606f}, info)
}

func TestSysfsResolverMissingInterface(t *testing.T) {
	root := buildFakeSysfs(t, "")
	r := SysfsResolver{Root: root}

	_, err := r.Resolve("can1")
	require.Error(t, err)
}

func TestFindUSBInfoWalksUpward(t *testing.T) {
	root := t.TempDir()
	usbDir := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(usbDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "idVendor"), []byte("16d0"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "idProduct"), []byte("10b8"), 0o644))

	info, err := findUSBInfo(usbDir)
	require.NoError(t, err)
	require.Equal(t, uint16(0x16d0), info.VendorID)
	require.Equal(t, uint16(0x10b8), info.ProductID)
}

func TestFindUSBInfoNotFound(t *testing.T) {
	root := t.TempDir()
	_, err := findUSBInfo(filepath.Join(root, "nothing", "here"))
	require.Error(t, err)
}

func TestResolveSkipsLinkVerifyWithCustomRoot(t *testing.T) {
	orig := verifyLink
	defer func() { verifyLink = orig }()
	called := false
	verifyLink = func(ifName string) error { called = true; return nil }

	root := buildFakeSysfs(t, "")
	_, err := SysfsResolver{Root: root}.Resolve("can0")
	require.NoError(t, err)
	require.False(t, called, "verifyLink must not run against a fake test sysfs tree")
}

func TestResolvePropagatesLinkVerifyFailure(t *testing.T) {
	orig := verifyLink
	defer func() { verifyLink = orig }()
	verifyLink = func(ifName string) error { return errors.New("no such link") }

	_, err := SysfsResolver{}.Resolve("can0")
	require.Error(t, err)
}
