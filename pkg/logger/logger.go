package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"uptime-monitor/config"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const prodStr string = "production"

func Init(cfg *config.Config) *zerolog.Logger {

	// Set global level based on environment
	switch cfg.Env {
	case prodStr:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var out io.Writer

	if cfg.Env == prodStr {
		out = os.Stdout
	} else {
		out = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
			NoColor:    false, // Enable colors
			PartsOrder: []string{
				"time", "level", "caller", "service", "env", "message", "err",
			},
			FormatLevel: func(i any) string {
				return strings.ToUpper(fmt.Sprintf("[%s]", i))
			},
			FormatCaller: func(caller any) string {
				return fmt.Sprintf("(%s)", caller)
			},
		}
	}

	// rotated file sink always gets JSON lines
	if cfg.Log.File != "" {
		out = zerolog.MultiLevelWriter(out, fileWriter(&cfg.Log))
	}

	baseLogger := zerolog.New(out).With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("env", cfg.Env).
		Logger() // finalize

	// Add caller info for dev
	if cfg.Env != prodStr {
		baseLogger = baseLogger.With().Caller().Logger()
	}

	zlog.Logger = baseLogger

	return &baseLogger
}

func fileWriter(cfg *config.LogConfig) io.Writer {
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB, // MB
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays, // days
		Compress:   true,
	}
}

// Nop returns a disabled logger, used by tests and tools that do not log.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
