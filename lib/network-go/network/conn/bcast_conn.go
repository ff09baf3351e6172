//go:build linux || darwin

package conn

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// DialBroadcastUDP opens a UDP socket bound to port on all interfaces that
// may send to the broadcast address. SO_REUSEADDR lets several nodes on one
// host share the port.
func DialBroadcastUDP(port int) (net.PacketConn, error) {
	s, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}
	if err := setBroadcastOptions(s); err != nil {
		unix.Close(s)
		return nil, err
	}
	if err := unix.Bind(s, &unix.SockaddrInet4{Port: port}); err != nil {
		unix.Close(s)
		return nil, fmt.Errorf("bind port %d: %w", port, err)
	}

	f := os.NewFile(uintptr(s), fmt.Sprintf("udp-broadcast-%d", port))
	defer f.Close()
	conn, err := net.FilePacketConn(f)
	if err != nil {
		return nil, fmt.Errorf("file packet conn: %w", err)
	}
	return conn, nil
}

func setBroadcastOptions(s int) error {
	if err := unix.SetsockoptInt(s, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
	}
	if err := unix.SetsockoptInt(s, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
		return fmt.Errorf("setsockopt SO_REUSEPORT: %w", err)
	}
	if err := unix.SetsockoptInt(s, unix.SOL_SOCKET, unix.SO_BROADCAST, 1); err != nil {
		return fmt.Errorf("setsockopt SO_BROADCAST: %w", err)
	}
	return nil
}

// BroadcastAddr is the limited broadcast address on port.
func BroadcastAddr(port int) *net.UDPAddr {
	return &net.UDPAddr{IP: net.IPv4bcast, Port: port}
}
