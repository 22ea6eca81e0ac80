// Package logging sets up the process logger. The TUI owns the terminal, so
// log output only ever goes to a file.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const permission = 0o664

type Log struct {
	Logger zerolog.Logger
	file   *os.File
}

// Open appends JSON log lines to path at the given level. An empty path
// yields a disabled logger.
func Open(path, level string) (*Log, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return &Log{Logger: zerolog.Nop()}, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
	if err != nil {
		return nil, err
	}
	l := New(zerolog.SyncWriter(f), level)
	l.file = f
	return l, nil
}

// New logs to w; used by tests and by Open.
func New(w io.Writer, level string) *Log {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return &Log{Logger: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}
}

func (l *Log) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
