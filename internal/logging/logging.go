package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Setup builds the process logger. Diagnostics go to stderr as JSON lines.
func Setup() *logrus.Logger {
	logger := logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:   os.Stderr,
		Level: logrus.InfoLevel,
	}

	return &logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}
