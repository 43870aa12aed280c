package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const (
	logFileName = "backdrop.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging returns a disabled logger unless debug is set
// With debug, JSON lines go to dir/backdrop.log, rotated when it grows past maxLogSize
// The standard logger follows the same destination so nothing reaches the terminal
func setupLogging(debug bool, dir string) (zerolog.Logger, *os.File, error) {
	if !debug {
		log.SetOutput(io.Discard)
		return zerolog.Nop(), nil, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}

	logPath := filepath.Join(dir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(dir, fmt.Sprintf("backdrop-%s.log", time.Now().Format("20060102-150405")))
		if err := os.Rename(logPath, rotated); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log: %w", err)
	}
	log.SetOutput(f)

	logger := zerolog.New(f).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	return logger, f, nil
}
