package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New configures the process-wide logrus logger and returns it.
// Outside dev the output is JSON so it can be shipped as-is.
func New(appEnv, level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetOutput(os.Stdout)

	if appEnv == "dev" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
