package network

import (
	"context"
	"errors"
	"iter"
	"net"
	"os"
	"sync"
	"time"

	"peerlift/lib/network-go/network/conn"
)

const bufSize = 1024

// Transport is a fire-and-forget datagram medium. Packets may be dropped,
// duplicated or reordered.
type Transport interface {
	Send(packet []byte) error
	// Packets yields received packets until ctx is done. Each yielded slice
	// is owned by the caller.
	Packets(ctx context.Context) iter.Seq[[]byte]
}

// Broadcast is a Transport over UDP broadcast on a single long-lived socket.
// Every node on the subnet, this one included, receives each packet.
type Broadcast struct {
	conn net.PacketConn
	addr net.Addr
}

func DialBroadcast(port int) (*Broadcast, error) {
	c, err := conn.DialBroadcastUDP(port)
	if err != nil {
		return nil, err
	}
	return &Broadcast{conn: c, addr: conn.BroadcastAddr(port)}, nil
}

func (b *Broadcast) Send(packet []byte) error {
	if len(packet) > bufSize {
		return errors.New("packet larger than receive buffer")
	}
	_, err := b.conn.WriteTo(packet, b.addr)
	return err
}

func (b *Broadcast) Packets(ctx context.Context) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		var buf [bufSize]byte
		for ctx.Err() == nil {
			if err := b.conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond)); err != nil {
				log.Error().Err(err).Msg("Setting read deadline")
				return
			}
			n, _, err := b.conn.ReadFrom(buf[:])
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			if err != nil {
				log.Error().Err(err).Msg("Broadcast receive failed")
				return
			}
			if !yield(append([]byte(nil), buf[:n]...)) {
				return
			}
		}
	}
}

func (b *Broadcast) Close() error {
	return b.conn.Close()
}

// MemBus connects in-process ports the way a broadcast segment connects
// nodes. Delivery is immediate and lossless unless Drop says otherwise.
type MemBus struct {
	mu    sync.Mutex
	ports []*MemPort
	// Drop, when set, is asked once per packet and receiving port.
	Drop func(packet []byte) bool
}

func NewMemBus() *MemBus {
	return &MemBus{}
}

// Join attaches a new port. Packets sent on it reach every other port.
func (m *MemBus) Join() *MemPort {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &MemPort{bus: m, inbox: make(chan []byte, 256)}
	m.ports = append(m.ports, p)
	return p
}

type MemPort struct {
	bus   *MemBus
	inbox chan []byte
}

func (p *MemPort) Send(packet []byte) error {
	p.bus.mu.Lock()
	defer p.bus.mu.Unlock()
	for _, other := range p.bus.ports {
		if other == p {
			continue
		}
		if p.bus.Drop != nil && p.bus.Drop(packet) {
			continue
		}
		select {
		case other.inbox <- append([]byte(nil), packet...):
		default:
			// A full inbox behaves like a lossy link.
		}
	}
	return nil
}

func (p *MemPort) Packets(ctx context.Context) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for {
			select {
			case <-ctx.Done():
				return
			case packet := <-p.inbox:
				if !yield(packet) {
					return
				}
			}
		}
	}
}
