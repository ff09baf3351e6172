package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"peerlift/lib/driver-go/elevio"
	"peerlift/lib/network-go/network/localip"
	"peerlift/src/config"
	"peerlift/src/elev"
	"peerlift/src/logger"
	"peerlift/src/network"
	"peerlift/src/timer"
)

func main() {
	if err := config.LoadEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	defaultID, err := localip.NodeID()
	if err != nil {
		defaultID = 0
	}
	args, err := config.ParseArgs(os.Args[1:], config.DefaultArgs(defaultID))
	if errors.Is(err, config.ErrHelp) {
		config.PrintUsage(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "peerlift:", err)
		config.PrintUsage(os.Stderr)
		os.Exit(2)
	}

	tunables, err := config.LoadTunables()
	if err != nil {
		fmt.Fprintln(os.Stderr, "peerlift:", err)
		os.Exit(2)
	}

	logFile, err := logger.Configure(args.NodeID, config.LogLevel(), config.LogDir())
	if err != nil {
		fmt.Fprintln(os.Stderr, "peerlift:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := elevio.Dial(args.HardwareAddr())
	if err != nil {
		log.Fatal().Err(err).Str("addr", args.HardwareAddr()).Msg("Connecting to elevator hardware")
	}
	defer driver.Close()

	transport, err := network.DialBroadcast(args.BroadcastPort)
	if err != nil {
		log.Fatal().Err(err).Int("port", args.BroadcastPort).Msg("Opening broadcast socket")
	}
	defer transport.Close()

	go func() {
		if err := network.WatchPeers(ctx, args.NodeID, args.PeersPort()); err != nil {
			log.Warn().Err(err).Msg("Peer watch unavailable")
		}
	}()

	log.Info().
		Int("node", args.NodeID).
		Int("broadcastPort", args.BroadcastPort).
		Str("hardware", args.HardwareAddr()).
		Int("floors", tunables.NumFloors).
		Msg("Starting node")

	node := elev.NewNode(args.NodeID, driver, transport, timer.Wall(), tunables)
	if err := node.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Hardware fault")
	}
	log.Info().Msg("Shutting down")
}
