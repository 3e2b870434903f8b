// SPDX-License-Identifier: GPL-2.0-or-later

package conlog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mutex  sync.RWMutex
	logger = newLogger(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
)

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

// SetOutput replaces the sink of the shared logger. Loggers handed out
// before the call keep writing to the old sink.
func SetOutput(w io.Writer) {
	mutex.Lock()
	defer mutex.Unlock()
	lvl := logger.GetLevel()
	logger = newLogger(w).Level(lvl)
}

func SetDebug(on bool) {
	mutex.Lock()
	defer mutex.Unlock()
	if on {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}
}

func Logger() zerolog.Logger {
	mutex.RLock()
	defer mutex.RUnlock()
	return logger
}

// Component returns the shared logger tagged with a component name.
func Component(name string) zerolog.Logger {
	l := Logger()
	return l.With().Str("component", name).Logger()
}

func Printf(format string, v ...interface{}) {
	l := Logger()
	l.Info().Msgf(format, v...)
}

func Debugf(format string, v ...interface{}) {
	l := Logger()
	l.Debug().Msgf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	l := Logger()
	l.Warn().Msgf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	l := Logger()
	l.Error().Msgf(format, v...)
}
