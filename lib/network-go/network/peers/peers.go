package peers

import (
	"context"
	"errors"
	"net"
	"os"
	"slices"
	"time"
)

const (
	interval = 15 * time.Millisecond
	timeout  = 500 * time.Millisecond
)

type PeerUpdate struct {
	Peers []string
	New   string
	Lost  []string
}

// Transmitter broadcasts id on conn every interval until ctx is done.
func Transmitter(ctx context.Context, conn net.PacketConn, addr net.Addr, id string) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if _, err := conn.WriteTo([]byte(id), addr); err != nil {
			return err
		}
	}
}

// Receiver reads heartbeats from conn and sends an update on peerUpdateCh
// whenever a peer appears or goes silent for longer than timeout.
func Receiver(ctx context.Context, conn net.PacketConn, peerUpdateCh chan<- PeerUpdate) error {
	var buf [1024]byte
	var t Tracker
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := conn.SetReadDeadline(time.Now().Add(interval)); err != nil {
			return err
		}
		n, _, err := conn.ReadFrom(buf[:])
		if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
			return err
		}

		if p, updated := t.Observe(string(buf[:n]), time.Now()); updated {
			select {
			case peerUpdateCh <- p:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Tracker remembers when each peer was last heard from.
type Tracker struct {
	lastSeen map[string]time.Time
}

// Observe records a heartbeat from id at now (an empty id records nothing)
// and expires silent peers. It reports whether the peer set changed.
func (t *Tracker) Observe(id string, now time.Time) (PeerUpdate, bool) {
	if t.lastSeen == nil {
		t.lastSeen = make(map[string]time.Time)
	}
	var p PeerUpdate
	updated := false

	if id != "" {
		if _, known := t.lastSeen[id]; !known {
			p.New = id
			updated = true
		}
		t.lastSeen[id] = now
	}

	for k, v := range t.lastSeen {
		if now.Sub(v) > timeout {
			updated = true
			p.Lost = append(p.Lost, k)
			delete(t.lastSeen, k)
		}
	}

	if !updated {
		return PeerUpdate{}, false
	}
	p.Peers = make([]string, 0, len(t.lastSeen))
	for k := range t.lastSeen {
		p.Peers = append(p.Peers, k)
	}
	slices.Sort(p.Peers)
	slices.Sort(p.Lost)
	return p, true
}
