package logger

import (
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Fields map[string]interface{}

// Logger wraps zerolog.Logger with caller and field helpers.
type Logger struct {
	logger zerolog.Logger
}

type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json, console
	Output      io.Writer
	EnableColor bool
}

var (
	globalLogger *Logger
	initMu       sync.Mutex
)

func Initialize(cfg Config) {
	initMu.Lock()
	defer initMu.Unlock()

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	var output io.Writer = os.Stdout
	if cfg.Output != nil {
		output = cfg.Output
	}
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.EnableColor,
		}
	}

	l := zerolog.New(output).With().Timestamp().Logger()
	globalLogger = &Logger{logger: l}
	log.Logger = l
}

func current() *Logger {
	initMu.Lock()
	defer initMu.Unlock()
	return globalLogger
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger, initializing a console logger on first use.
func Get() *Logger {
	if l := current(); l != nil {
		return l
	}
	Initialize(Config{Level: "info", Format: "console", EnableColor: true})
	return current()
}

func (l *Logger) WithContext(fields Fields) *Logger {
	ctx := l.logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{logger: ctx.Logger()}
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields []Fields) {
	pc, file, line, _ := runtime.Caller(2)
	event = event.Str("caller", zerolog.CallerMarshalFunc(pc, file, line))
	if len(fields) > 0 {
		for k, v := range fields[0] {
			event = event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

func (l *Logger) Debug(msg string, fields ...Fields) {
	l.emit(l.logger.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...Fields) {
	l.emit(l.logger.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...Fields) {
	l.emit(l.logger.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, err error, fields ...Fields) {
	l.emit(l.logger.Error().Err(err), msg, fields)
}

func (l *Logger) Fatal(msg string, err error, fields ...Fields) {
	l.emit(l.logger.Fatal().Err(err), msg, fields)
}

// Package level helpers use the global logger.

func Debug(msg string, fields ...Fields) {
	l := Get()
	l.emit(l.logger.Debug(), msg, fields)
}

func Info(msg string, fields ...Fields) {
	l := Get()
	l.emit(l.logger.Info(), msg, fields)
}

func Warn(msg string, fields ...Fields) {
	l := Get()
	l.emit(l.logger.Warn(), msg, fields)
}

func Error(msg string, err error, fields ...Fields) {
	l := Get()
	l.emit(l.logger.Error().Err(err), msg, fields)
}

func Fatal(msg string, err error, fields ...Fields) {
	l := Get()
	l.emit(l.logger.Fatal().Err(err), msg, fields)
}

func WithContext(fields Fields) *Logger {
	return Get().WithContext(fields)
}
