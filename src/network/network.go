// Package network moves events between the local registry and the other
// nodes. Every event is looped back locally at once and broadcast in a short
// burst; nothing is acknowledged.
package network

import (
	"context"
	"time"

	"peerlift/src/config"
	"peerlift/src/logger"
	"peerlift/src/types"
)

var log = logger.Get()

// FanOut is the node's single event exchange. Publish and Drain belong to the
// tick loop; transmission and reception run on their own goroutines.
type FanOut struct {
	transport   Transport
	repetitions int
	interval    time.Duration

	loopback []types.Event
	txBuf    chan types.Event
	rx       chan types.Event
}

func NewFanOut(transport Transport, tunables config.Tunables) *FanOut {
	return &FanOut{
		transport:   transport,
		repetitions: tunables.MsgRepetitions,
		interval:    tunables.MsgInterval,
		txBuf:       make(chan types.Event, 64),
		rx:          make(chan types.Event, 256),
	}
}

// Start launches the burst transmitter and the receiver. Both stop when ctx
// is done.
func (f *FanOut) Start(ctx context.Context) {
	go f.msgBuffer(ctx)
	go f.receive(ctx)
}

// Publish delivers ev to the local registry on the next Drain and hands it
// to the transmitter. It never blocks; if the transmitter is backed up the
// broadcast is dropped and the watchdogs recover.
func (f *FanOut) Publish(ev types.Event) {
	f.loopback = append(f.loopback, ev)
	select {
	case f.txBuf <- ev:
	default:
		log.Warn().Stringer("event", ev).Msg("Transmit buffer full, dropping broadcast")
	}
}

// Drain returns every event received since the last call, loopback first.
func (f *FanOut) Drain() []types.Event {
	events := f.loopback
	f.loopback = nil
	for {
		select {
		case ev := <-f.rx:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func (f *FanOut) receive(ctx context.Context) {
	for packet := range f.transport.Packets(ctx) {
		ev, err := Decode(packet)
		if err != nil {
			log.Debug().Err(err).Msg("Dropping packet")
			continue
		}
		select {
		case f.rx <- ev:
		case <-ctx.Done():
			return
		}
	}
}
