// Package logger configures the process-wide logrus logger and hands out
// component-scoped entries.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var base = newBase()

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Init sets the log level. Unknown levels keep the current one.
func Init(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		base.WithField("level", level).Warn("unknown log level, keeping default")
		return
	}
	base.SetLevel(lvl)
}

// For returns an entry tagged with the given component name.
func For(component string) *logrus.Entry {
	return base.WithField("component", component)
}
