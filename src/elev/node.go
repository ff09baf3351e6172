// Package elev assembles one node: a car, its task registry and the event
// fan-out, advanced together by a single tick loop.
package elev

import (
	"context"
	"time"

	"peerlift/src/config"
	"peerlift/src/dispatcher"
	"peerlift/src/executor"
	"peerlift/src/logger"
	"peerlift/src/network"
	"peerlift/src/timer"
)

var log = logger.Get()

type Node struct {
	id       int
	engine   *executor.Engine
	registry *dispatcher.Registry
	fanOut   *network.FanOut
	interval time.Duration
}

func NewNode(nodeID int, hw executor.Hardware, transport network.Transport, clock timer.Clock, tunables config.Tunables) *Node {
	fanOut := network.NewFanOut(transport, tunables)
	engine := executor.New(hw, fanOut, clock, nodeID, tunables)
	return &Node{
		id:       nodeID,
		engine:   engine,
		registry: dispatcher.NewRegistry(nodeID, engine, fanOut, clock, tunables),
		fanOut:   fanOut,
		interval: tunables.TickInterval,
	}
}

// Start puts the car in a known state and starts the network goroutines.
func (n *Node) Start(ctx context.Context) error {
	if err := n.engine.Init(); err != nil {
		return err
	}
	n.fanOut.Start(ctx)
	return nil
}

// Tick runs one scheduling step:
//   - the engine moves the car and reports new button presses
//   - every pending event, looped back or received, reaches the registry
//   - the registry steps every task
func (n *Node) Tick() error {
	if err := n.engine.Tick(); err != nil {
		return err
	}
	for _, ev := range n.fanOut.Drain() {
		n.registry.Ingest(ev)
	}
	return n.registry.Step()
}

// Run starts the node and ticks it until ctx is done or the hardware fails.
func (n *Node) Run(ctx context.Context) error {
	if err := n.Start(ctx); err != nil {
		return err
	}
	log.Info().Int("id", n.id).Dur("tick", n.interval).Msg("Node running")

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := n.Tick(); err != nil {
				return err
			}
		}
	}
}

func (n *Node) Engine() *executor.Engine { return n.engine }

func (n *Node) Registry() *dispatcher.Registry { return n.registry }
