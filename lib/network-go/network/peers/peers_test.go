package peers

import (
	"slices"
	"testing"
	"time"
)

func TestTrackerReportsNewAndLostPeers(t *testing.T) {
	var tr Tracker
	start := time.Unix(0, 0)

	p, updated := tr.Observe("node-2", start)
	if !updated || p.New != "node-2" {
		t.Fatalf("Observe(node-2) returned %+v, %v, expected a new peer", p, updated)
	}
	p, _ = tr.Observe("node-1", start.Add(10*time.Millisecond))
	if !slices.Equal(p.Peers, []string{"node-1", "node-2"}) {
		t.Errorf("Peers = %v, expected sorted [node-1 node-2]", p.Peers)
	}

	if _, updated := tr.Observe("node-2", start.Add(20*time.Millisecond)); updated {
		t.Errorf("repeated heartbeat reported as a change")
	}

	p, updated = tr.Observe("node-2", start.Add(time.Second))
	if !updated || !slices.Equal(p.Lost, []string{"node-1"}) {
		t.Errorf("Observe after silence returned %+v, expected node-1 lost", p)
	}
	if !slices.Equal(p.Peers, []string{"node-2"}) {
		t.Errorf("Peers = %v, expected [node-2]", p.Peers)
	}
}

func TestTrackerIgnoresEmptyID(t *testing.T) {
	var tr Tracker
	if p, updated := tr.Observe("", time.Unix(0, 0)); updated {
		t.Errorf("empty read reported as %+v", p)
	}
}
