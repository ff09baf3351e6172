package localip

import (
	"fmt"
	"net"
	"sync"
)

var (
	mu      sync.Mutex
	localIP net.IP
)

// LocalIP returns the address of the interface used for outbound traffic.
// No packet is sent; dialing UDP only selects a route.
func LocalIP() (net.IP, error) {
	mu.Lock()
	defer mu.Unlock()
	if localIP != nil {
		return localIP, nil
	}
	conn, err := net.Dial("udp4", "8.8.8.8:53")
	if err != nil {
		return nil, fmt.Errorf("resolve local ip: %w", err)
	}
	defer conn.Close()
	localIP = conn.LocalAddr().(*net.UDPAddr).IP.To4()
	return localIP, nil
}

// NodeID derives a node id from the last octet of the local address, which
// is unique on a lab subnet.
func NodeID() (int, error) {
	ip, err := LocalIP()
	if err != nil {
		return 0, err
	}
	return LastOctet(ip)
}

func LastOctet(ip net.IP) (int, error) {
	v4 := ip.To4()
	if v4 == nil {
		return 0, fmt.Errorf("%v is not an IPv4 address", ip)
	}
	return int(v4[3]), nil
}
