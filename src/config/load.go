package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath = "PEERLIFT_CONFIG"
	EnvLogLevel   = "PEERLIFT_LOG_LEVEL"
	EnvLogDir     = "PEERLIFT_LOG_DIR"
)

// LoadEnv reads a .env file into the process environment if one exists.
// Variables already set in the environment win.
func LoadEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// LoadTunables returns Defaults overlaid with the YAML file named by
// PEERLIFT_CONFIG. Keys absent from the file keep their default.
func LoadTunables() (Tunables, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tunables{}, fmt.Errorf("reading tunables: %w", err)
	}
	return ParseTunables(data)
}

func ParseTunables(data []byte) (Tunables, error) {
	t := Defaults()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tunables{}, fmt.Errorf("decoding tunables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tunables{}, err
	}
	return t, nil
}

func (t Tunables) Validate() error {
	switch {
	case t.NumFloors < 2:
		return fmt.Errorf("num_floors must be at least 2, got %d", t.NumFloors)
	case t.NumFloors > 255:
		return fmt.Errorf("num_floors must fit in a byte, got %d", t.NumFloors)
	case t.DoorOpenDuration <= 0:
		return errors.New("door_open_duration must be positive")
	case t.TickInterval <= 0:
		return errors.New("tick_interval must be positive")
	case t.MsgRepetitions < 1:
		return errors.New("msg_repetitions must be at least 1")
	case t.CabWatchInterval <= 0:
		return errors.New("cab_watch_interval must be positive")
	case t.MsgInterval < 0:
		return errors.New("msg_interval must not be negative")
	case t.CabGracePeriod < 0:
		return errors.New("cab_grace_period must not be negative")
	}
	return t.Cost.Validate()
}

// Validate rejects negative weights, which could make a bid delay negative.
func (w CostWeights) Validate() error {
	weights := []struct {
		name  string
		value time.Duration
	}{
		{"idle_base", w.IdleBase},
		{"idle_distance", w.IdleDistance},
		{"idle_cab", w.IdleCab},
		{"busy_base", w.BusyBase},
		{"busy_spread", w.BusySpread},
		{"queue_penalty", w.QueuePenalty},
		{"id_tiebreak", w.IDTiebreak},
		{"pending_bid_penalty", w.PendingBidPenalty},
		{"completion_per_floor", w.CompletionPerFloor},
	}
	for _, weight := range weights {
		if weight.value < 0 {
			return fmt.Errorf("cost.%s must not be negative, got %v", weight.name, weight.value)
		}
	}
	return nil
}

// LogLevel reads PEERLIFT_LOG_LEVEL, defaulting to debug.
func LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(os.Getenv(EnvLogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.DebugLevel
	}
	return lvl
}

func LogDir() string {
	if dir := os.Getenv(EnvLogDir); dir != "" {
		return dir
	}
	return "."
}
