package network

import (
	"context"
	"fmt"

	"peerlift/lib/network-go/network/conn"
	"peerlift/lib/network-go/network/peers"
)

// WatchPeers runs the heartbeat on port and logs nodes coming and going.
// Peer membership is informational; allocation never consults it.
func WatchPeers(ctx context.Context, nodeID, port int) error {
	c, err := conn.DialBroadcastUDP(port)
	if err != nil {
		return fmt.Errorf("peers socket: %w", err)
	}
	defer c.Close()

	updates := make(chan peers.PeerUpdate)
	id := fmt.Sprintf("node-%d", nodeID)
	go func() {
		if err := peers.Transmitter(ctx, c, conn.BroadcastAddr(port), id); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("Peer heartbeat stopped")
		}
	}()
	go func() {
		if err := peers.Receiver(ctx, c, updates); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("Peer receiver stopped")
		}
	}()

	handlePeerUpdates(ctx, updates)
	return nil
}

func handlePeerUpdates(ctx context.Context, updates <-chan peers.PeerUpdate) {
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			logPeerUpdate(update)
		}
	}
}

func logPeerUpdate(update peers.PeerUpdate) {
	if update.New != "" {
		log.Info().Str("newPeer", update.New).Int("totalPeers", len(update.Peers)).Msg("New peer connected")
	}
	if len(update.Lost) > 0 {
		log.Info().Strs("lostPeers", update.Lost).Int("totalPeers", len(update.Peers)).Msg("Peer(s) lost")
	}
}
