package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
)

// ErrHelp is returned by ParseArgs when usage was requested.
var ErrHelp = flag.ErrHelp

const usage = `usage: peerlift [node_id] [broadcast_port] [hardware_ip] [hardware_port]

  node_id         small integer identifying this node (default: last octet of local IP)
  broadcast_port  UDP port for task events; heartbeats use broadcast_port+1 (default %d)
  hardware_ip     host of the elevator server (default %s)
  hardware_port   port of the elevator server (default %d)

environment:
  PEERLIFT_CONFIG     YAML file with timing and cost tunables
  PEERLIFT_LOG_LEVEL  zerolog level (default debug)
  PEERLIFT_LOG_DIR    directory for node<id>.log (default .)
`

type Args struct {
	NodeID        int
	BroadcastPort int
	HardwareHost  string
	HardwarePort  int
}

func DefaultArgs(nodeID int) Args {
	return Args{
		NodeID:        nodeID,
		BroadcastPort: DefaultBroadcastPort,
		HardwareHost:  DefaultHardwareHost,
		HardwarePort:  DefaultHardwarePort,
	}
}

func (a Args) HardwareAddr() string {
	return fmt.Sprintf("%s:%d", a.HardwareHost, a.HardwarePort)
}

func (a Args) PeersPort() int {
	return a.BroadcastPort + 1
}

func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usage, DefaultBroadcastPort, DefaultHardwareHost, DefaultHardwarePort)
}

// ParseArgs parses the positional command line (without the program name).
// Every position is optional; missing ones keep the value from defaults.
func ParseArgs(args []string, defaults Args) (Args, error) {
	fs := flag.NewFlagSet("peerlift", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return defaults, ErrHelp
		}
		return defaults, err
	}

	pos := fs.Args()
	if len(pos) > 4 {
		return defaults, fmt.Errorf("expected at most 4 arguments, got %d", len(pos))
	}
	out := defaults
	var err error
	if len(pos) > 0 {
		if out.NodeID, err = parseUint(pos[0], "node_id", 0, 255); err != nil {
			return defaults, err
		}
	}
	if len(pos) > 1 {
		if out.BroadcastPort, err = parseUint(pos[1], "broadcast_port", 1, 65534); err != nil {
			return defaults, err
		}
	}
	if len(pos) > 2 {
		if pos[2] == "" {
			return defaults, errors.New("hardware_ip must not be empty")
		}
		out.HardwareHost = pos[2]
	}
	if len(pos) > 3 {
		if out.HardwarePort, err = parseUint(pos[3], "hardware_port", 1, 65535); err != nil {
			return defaults, err
		}
	}
	return out, nil
}

func parseUint(s, name string, lo, hi int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, s)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s: %d out of range [%d, %d]", name, v, lo, hi)
	}
	return v, nil
}
