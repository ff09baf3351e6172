// Package logger owns the process-wide zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const timeFormat = "15:04:05"

var (
	once sync.Once
	log  zerolog.Logger
)

func defaultLogger(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = timeFormat
	zerolog.CallerMarshalFunc = shortCaller
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat}
	return zerolog.New(output).With().Timestamp().Caller().Logger()
}

// Get returns the shared logger. Packages keep the pointer; Configure swaps the
// logger behind it.
func Get() *zerolog.Logger {
	once.Do(func() {
		log = defaultLogger(os.Stdout)
	})
	return &log
}

// Configure tees the logger to stdout and dir/node<id>.log and sets the global
// level. It must run before any goroutine logs.
func Configure(nodeID int, level zerolog.Level, dir string) (io.Closer, error) {
	Get()
	file, err := os.OpenFile(filepath.Join(dir, fmt.Sprintf("node%d.log", nodeID)), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	log = defaultLogger(io.MultiWriter(os.Stdout, file)).With().Int("node", nodeID).Logger()
	zerolog.SetGlobalLevel(level)
	return file, nil
}

// SetOutput redirects the logger, mainly for tests.
func SetOutput(w io.Writer, level zerolog.Level) {
	Get()
	log = defaultLogger(w)
	zerolog.SetGlobalLevel(level)
}

func shortCaller(_ uintptr, file string, line int) string {
	if i := strings.LastIndexByte(file, '/'); i >= 0 {
		file = file[i+1:]
	}
	return fmt.Sprintf("%s:%d", file, line)
}
