// Package logging builds the zap loggers used by the horn commands.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to every writer, or to stderr when
// none is given. Answers go to stdout, so logs stay off it by default.
func New(debug bool, writers ...io.Writer) *zap.Logger {
	return NewAtLevel(Level(debug), writers...)
}

// Level is Debug when debug is set and Warn otherwise. The returned level can
// be raised after the logger is built.
func Level(debug bool) zap.AtomicLevel {
	if debug {
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zap.NewAtomicLevelAt(zap.WarnLevel)
}

// NewAtLevel is New with a caller-held level.
func NewAtLevel(level zap.AtomicLevel, writers ...io.Writer) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	if len(writers) == 0 {
		writers = []io.Writer{os.Stderr}
	}
	sinks := make([]zapcore.WriteSyncer, len(writers))
	for i, w := range writers {
		sinks[i] = zapcore.AddSync(w)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.NewMultiWriteSyncer(sinks...), level)
	return zap.New(core)
}
