package network

import (
	"context"
	"testing"
	"time"

	"peerlift/src/config"
	"peerlift/src/types"
)

func testTunables() config.Tunables {
	t := config.Defaults()
	t.MsgInterval = time.Millisecond
	return t
}

// drainUntil polls f until n events have arrived or a second has passed.
func drainUntil(t *testing.T, f *FanOut, n int) []types.Event {
	t.Helper()
	var got []types.Event
	deadline := time.Now().Add(time.Second)
	for len(got) < n && time.Now().Before(deadline) {
		got = append(got, f.Drain()...)
		time.Sleep(time.Millisecond)
	}
	return got
}

func hallCall(verb types.Verb, floor, origin int) types.Event {
	return types.Event{Verb: verb, Request: types.Request{Floor: floor, Button: types.BT_HallUp}, Origin: origin}
}

func TestPublishLoopsBackImmediately(t *testing.T) {
	bus := NewMemBus()
	f := NewFanOut(bus.Join(), testTunables())

	ev := hallCall(types.VerbRequest, 2, 1)
	f.Publish(ev)
	got := f.Drain()
	if len(got) != 1 || got[0] != ev {
		t.Fatalf("Drain() returned %v, expected [%v]", got, ev)
	}
	if again := f.Drain(); len(again) != 0 {
		t.Errorf("second Drain() returned %v, expected nothing", again)
	}
}

func TestPublishBurstsToPeers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewMemBus()
	a := NewFanOut(bus.Join(), testTunables())
	b := NewFanOut(bus.Join(), testTunables())
	a.Start(ctx)
	b.Start(ctx)

	ev := hallCall(types.VerbClaimed, 1, 1)
	a.Publish(ev)

	got := drainUntil(t, b, config.MsgRepetitions)
	if len(got) != config.MsgRepetitions {
		t.Fatalf("peer received %d copies, expected %d", len(got), config.MsgRepetitions)
	}
	for _, e := range got {
		if e != ev {
			t.Errorf("peer received %v, expected %v", e, ev)
		}
	}
	if own := a.Drain(); len(own) != 1 {
		t.Errorf("publisher drained %v, expected only the loopback copy", own)
	}
}

func TestReceiverDropsMalformedPackets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewMemBus()
	raw := bus.Join()
	f := NewFanOut(bus.Join(), testTunables())
	f.Start(ctx)

	if err := raw.Send([]byte("node-1")); err != nil {
		t.Fatal(err)
	}
	ev := hallCall(types.VerbRequest, 3, 1)
	packet, err := Encode(ev)
	if err != nil {
		t.Fatal(err)
	}
	if err := raw.Send(packet); err != nil {
		t.Fatal(err)
	}

	got := drainUntil(t, f, 1)
	if len(got) != 1 || got[0] != ev {
		t.Errorf("Drain() returned %v, expected [%v]", got, ev)
	}
}

func TestLossyBusStillLoopsBack(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewMemBus()
	bus.Drop = func([]byte) bool { return true }
	a := NewFanOut(bus.Join(), testTunables())
	b := NewFanOut(bus.Join(), testTunables())
	a.Start(ctx)
	b.Start(ctx)

	a.Publish(hallCall(types.VerbFulfilled, 0, 1))
	if got := a.Drain(); len(got) != 1 {
		t.Errorf("publisher drained %v, expected its own event", got)
	}
	time.Sleep(20 * time.Millisecond)
	if got := b.Drain(); len(got) != 0 {
		t.Errorf("peer received %v over a link that drops everything", got)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	bus := NewMemBus()
	f := NewFanOut(bus.Join(), testTunables())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			f.Publish(hallCall(types.VerbRequest, i%4, 1))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no transmitter running")
	}
	if got := f.Drain(); len(got) != 1000 {
		t.Errorf("Drain() returned %d events, expected every loopback copy", len(got))
	}
}
