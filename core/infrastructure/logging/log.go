// Package logging holds the process-wide logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the global logger instance
var Logger = logrus.New()

func init() {
	Logger.SetOutput(os.Stderr)
	Logger.SetLevel(logrus.WarnLevel)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// SetVerbosity maps a verbosity level (0=none, 1=debug, 2=raw output, 3=debug+raw) to a log level.
// Raw device output is logged at info level, so level 2 shows it without debug lines.
func SetVerbosity(verbosity int) {
	switch verbosity {
	case 1, 3:
		Logger.SetLevel(logrus.DebugLevel)
	case 2:
		Logger.SetLevel(logrus.InfoLevel)
	default:
		Logger.SetLevel(logrus.WarnLevel)
	}
}

// SetLogOutput sets the log output destination
func SetLogOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// WithDevice returns a logger with device context
func WithDevice(device string) *logrus.Entry {
	return Logger.WithField("device", device)
}

// WithOperation returns a logger with operation context
func WithOperation(operation string) *logrus.Entry {
	return Logger.WithField("operation", operation)
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	Logger.Warnf(format, args...)
}
