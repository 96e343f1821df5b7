package config

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger - creates text logger writing to stderr, debug enables debug level
func NewLogger(debug bool) *logrus.Logger {
	return newLogger(os.Stderr, debug)
}

func newLogger(out io.Writer, debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(logrus.InfoLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}
