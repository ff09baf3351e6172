package config

import "time"

const (
	NumFloors            = 4
	DoorOpenDuration     = 3 * time.Second
	TickInterval         = 10 * time.Millisecond
	MsgRepetitions       = 3
	MsgInterval          = 10 * time.Millisecond
	CabWatchInterval     = 10 * time.Second
	CabGracePeriod       = 5 * time.Second
	DefaultBroadcastPort = 26665
	DefaultHardwareHost  = "localhost"
	DefaultHardwarePort  = 15657
)

// Tunables holds every timing and cost parameter a node runs with. The zero
// value is not useful; start from Defaults.
type Tunables struct {
	NumFloors        int           `yaml:"num_floors"`
	DoorOpenDuration time.Duration `yaml:"door_open_duration"`
	TickInterval     time.Duration `yaml:"tick_interval"`
	MsgRepetitions   int           `yaml:"msg_repetitions"`
	MsgInterval      time.Duration `yaml:"msg_interval"`
	CabWatchInterval time.Duration `yaml:"cab_watch_interval"`
	CabGracePeriod   time.Duration `yaml:"cab_grace_period"`
	Cost             CostWeights   `yaml:"cost"`
}

// CostWeights parameterises the bid delay. Idle* terms apply when the car has
// an empty drive queue, Busy* terms otherwise.
type CostWeights struct {
	IdleBase           time.Duration `yaml:"idle_base"`
	IdleDistance       time.Duration `yaml:"idle_distance"`
	IdleCab            time.Duration `yaml:"idle_cab"`
	BusyBase           time.Duration `yaml:"busy_base"`
	BusySpread         time.Duration `yaml:"busy_spread"`
	QueuePenalty       time.Duration `yaml:"queue_penalty"`
	IDTiebreak         time.Duration `yaml:"id_tiebreak"`
	PendingBidPenalty  time.Duration `yaml:"pending_bid_penalty"`
	CompletionPerFloor time.Duration `yaml:"completion_per_floor"`
}

func Defaults() Tunables {
	return Tunables{
		NumFloors:        NumFloors,
		DoorOpenDuration: DoorOpenDuration,
		TickInterval:     TickInterval,
		MsgRepetitions:   MsgRepetitions,
		MsgInterval:      MsgInterval,
		CabWatchInterval: CabWatchInterval,
		CabGracePeriod:   CabGracePeriod,
		Cost: CostWeights{
			IdleBase:           1000 * time.Millisecond,
			IdleDistance:       500 * time.Millisecond,
			IdleCab:            20 * time.Millisecond,
			BusyBase:           2000 * time.Millisecond,
			BusySpread:         5000 * time.Millisecond,
			QueuePenalty:       2500 * time.Millisecond,
			IDTiebreak:         150 * time.Millisecond,
			PendingBidPenalty:  time.Millisecond,
			CompletionPerFloor: 3 * time.Second,
		},
	}
}
