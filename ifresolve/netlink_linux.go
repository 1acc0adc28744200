//go:build linux && go1.12

package ifresolve

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/mdlayher/netlink"
	"golang.org/x/sys/unix"
)

func init() {
	verifyLink = VerifyLink
}

// VerifyLink confirms, via a netlink RTM_GETLINK query, that ifName still
// names a live kernel interface at the moment of orchestration — sysfs
// alone can lag an interface that was just renamed or removed.
func VerifyLink(ifName string) error {
	iface, err := net.InterfaceByName(ifName)
	if err != nil {
		return fmt.Errorf("interface %s: %w", ifName, err)
	}

	c, err := netlink.Dial(unix.NETLINK_ROUTE, &netlink.Config{})
	if err != nil {
		return fmt.Errorf("dial netlink socket: %w", err)
	}
	defer c.Close()

	ifi := &ifInfoMsg{Index: int32(iface.Index)}
	req := netlink.Message{
		Header: netlink.Header{
			Flags: netlink.Request | netlink.Acknowledge,
			Type:  unix.RTM_GETLINK,
		},
		Data: ifi.marshalBinary(),
	}

	res, err := c.Execute(req)
	if err != nil {
		return fmt.Errorf("query link %s: %w", ifName, err)
	}
	if len(res) != 1 {
		return fmt.Errorf("link %s: expected 1 message, got %d", ifName, len(res))
	}
	return nil
}

// ifInfoMsg mirrors unix.IfInfomsg with an explicit little-endian
// marshaler, since the netlink wire format is fixed-endian regardless of
// host byte order.
type ifInfoMsg unix.IfInfomsg

func (ifi *ifInfoMsg) marshalBinary() []byte {
	buf := make([]byte, 2)
	buf[0] = ifi.Family
	buf[1] = 0 // reserved
	buf = binary.LittleEndian.AppendUint16(buf, ifi.Type)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(ifi.Index))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(ifi.Flags))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(ifi.Change))
	return buf
}
