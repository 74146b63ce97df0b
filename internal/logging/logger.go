package logging

import (
	"go.uber.org/zap"
)

// Fields carries structured context for a log entry.
type Fields map[string]interface{}

var logger = newLogger()

func newLogger() *zap.Logger {
	l, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		// zap.NewProduction only fails on sink setup; nothing useful can
		// run without a logger.
		panic(err)
	}
	return l
}

func zapFields(fields Fields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	logger.Info(msg, zapFields(fields)...)
}

// Error logs an error message and includes the error in the fields.
func Error(msg string, err error, fields Fields) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	logger.Error(msg, zf...)
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	logger.Fatal(msg, zf...)
}

// Sync flushes buffered entries; call before process exit.
func Sync() {
	_ = logger.Sync()
}
