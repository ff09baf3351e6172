package localip

import (
	"net"
	"testing"
)

func TestLastOctet(t *testing.T) {
	cases := []struct {
		ip       net.IP
		expected int
	}{
		{net.IPv4(10, 100, 23, 7), 7},
		{net.IPv4(192, 168, 0, 255), 255},
		{net.ParseIP("127.0.0.1"), 1},
	}
	for _, c := range cases {
		got, err := LastOctet(c.ip)
		if err != nil {
			t.Errorf("LastOctet(%v) returned error %v", c.ip, err)
			continue
		}
		if got != c.expected {
			t.Errorf("LastOctet(%v) returned %d, expected %d", c.ip, got, c.expected)
		}
	}
}

func TestLastOctetRejectsIPv6(t *testing.T) {
	if _, err := LastOctet(net.ParseIP("2001:db8::1")); err == nil {
		t.Errorf("LastOctet accepted an IPv6 address")
	}
}
