package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestGetLogger(t *testing.T) {
	if Get() == nil {
		t.Fatalf("Get() = nil, expected a non-nil logger")
	}

	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func(routine int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if Get() == nil {
					t.Errorf("Get() = nil in goroutine %d", routine)
					return
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestSetOutputIsSeenThroughHeldPointer(t *testing.T) {
	held := Get()
	var buf bytes.Buffer
	SetOutput(&buf, zerolog.InfoLevel)
	defer SetOutput(os.Stdout, zerolog.DebugLevel)

	held.Debug().Msg("hidden")
	held.Info().Str("request", "HallUp(2)").Msg("claimed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "claimed") || !strings.Contains(out, "HallUp(2)") {
		t.Errorf("info line missing from output: %q", out)
	}
	if !strings.Contains(out, "logger_test.go:") {
		t.Errorf("caller not shortened to file:line: %q", out)
	}
}

func TestConfigureWritesNodeLog(t *testing.T) {
	dir := t.TempDir()
	closer, err := Configure(7, zerolog.DebugLevel, dir)
	if err != nil {
		t.Fatalf("Configure() returned %v", err)
	}
	Get().Info().Msg("hello from node")
	closer.Close()
	defer SetOutput(os.Stdout, zerolog.DebugLevel)

	data, err := os.ReadFile(filepath.Join(dir, "node7.log"))
	if err != nil {
		t.Fatalf("reading node log: %v", err)
	}
	if !strings.Contains(string(data), "hello from node") {
		t.Errorf("node7.log = %q, expected the logged message", data)
	}
}
