package scheduler

import (
	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// cronLogger routes gocron's key/value logs into zerolog.
type cronLogger struct {
	l *zerolog.Logger
}

var _ gocron.Logger = cronLogger{}

func newCronLogger(l *zerolog.Logger) cronLogger {
	return cronLogger{l: l}
}

func (c cronLogger) Debug(msg string, args ...any) { c.l.Debug().Fields(args).Msg(msg) }
func (c cronLogger) Info(msg string, args ...any)  { c.l.Info().Fields(args).Msg(msg) }
func (c cronLogger) Warn(msg string, args ...any)  { c.l.Warn().Fields(args).Msg(msg) }
func (c cronLogger) Error(msg string, args ...any) { c.l.Error().Fields(args).Msg(msg) }
