// Package logging provides the message log used by the import passes.
//
// Logger is deliberately tiny (error, warning, message) so passes do not
// depend on zap directly; the CLI wires a zap-backed implementation and tests
// use Nop or an observer core.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Error(text string)
	Warning(text string)
	Message(text string)
}

type zapLogger struct {
	s *zap.SugaredLogger
}

// FromZap adapts an existing zap logger.
func FromZap(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return zapLogger{s: l.Sugar()}
}

func (l zapLogger) Error(text string)   { l.s.Error(text) }
func (l zapLogger) Warning(text string) { l.s.Warn(text) }
func (l zapLogger) Message(text string) { l.s.Info(text) }

// Options configure the console logger.
type Options struct {
	// Out receives messages; nil means stderr.
	Out io.Writer
	// JSON switches to structured output for machine consumption.
	JSON bool
	// Quiet drops informational messages.
	Quiet bool
}

// New builds the console logger: "ERROR: text" / "WARNING: text" lines and
// plain messages, or JSON records when Options.JSON is set.
func New(opts Options) Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	level := zapcore.InfoLevel
	if opts.Quiet {
		level = zapcore.WarnLevel
	}

	var enc zapcore.Encoder
	if opts.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		enc = zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:       "msg",
			LevelKey:         "level",
			EncodeLevel:      levelPrefix,
			ConsoleSeparator: " ",
		})
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), level)
	return FromZap(zap.New(core))
}

func levelPrefix(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.InfoLevel, zapcore.DebugLevel:
		// plain messages carry no prefix
	case zapcore.WarnLevel:
		enc.AppendString("WARNING:")
	default:
		enc.AppendString(l.CapitalString() + ":")
	}
}

type nopLogger struct{}

func (nopLogger) Error(string)   {}
func (nopLogger) Warning(string) {}
func (nopLogger) Message(string) {}

// Nop returns a logger that drops everything.
func Nop() Logger { return nopLogger{} }
