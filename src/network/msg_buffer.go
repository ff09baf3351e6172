package network

import (
	"context"
	"time"

	"peerlift/src/types"
)

// msgBuffer takes events off the transmit buffer one at a time and sends a
// burst of copies for each.
func (f *FanOut) msgBuffer(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-f.txBuf:
			f.burstTransmit(ctx, ev)
		}
	}
}

func (f *FanOut) burstTransmit(ctx context.Context, ev types.Event) {
	packet, err := Encode(ev)
	if err != nil {
		log.Error().Err(err).Msg("Encoding event")
		return
	}
	for i := 0; i < f.repetitions; i++ {
		if err := f.transport.Send(packet); err != nil {
			log.Warn().Err(err).Stringer("event", ev).Msg("Broadcast failed")
		}
		if i == f.repetitions-1 {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(f.interval):
		}
	}
}
