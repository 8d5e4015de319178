// Package logger provides the shared logger for graphsnap. Debug output is
// suppressed unless verbose mode is enabled via the --verbose flag.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return l
}

// SetVerbose enables or disables debug logging.
func SetVerbose(verbose bool) {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

// Debug logs a debug message. No-op unless verbose mode is on.
func Debug(format string, args ...any) {
	log.Debugf(format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	log.Infof(format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	log.Warnf(format, args...)
}

// Error logs an error.
func Error(format string, args ...any) {
	log.Errorf(format, args...)
}
