// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup applies level and format (text|json) to the standard logger and
// returns it. Unknown levels fall back to info.
func Setup(level, format string) *logrus.Logger {
	return configure(logrus.StandardLogger(), level, format, os.Stdout)
}

func configure(l *logrus.Logger, level, format string, out io.Writer) *logrus.Logger {
	l.SetOutput(out)
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}
