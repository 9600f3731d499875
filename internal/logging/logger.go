package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type appNameHook struct {
	appName string
}

// Levels implements logrus.Hook interface.
func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook interface.
func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

// New builds the process logger. Unknown levels fall back to info.
func New(appName, level string) *logrus.Logger {
	return newLogger(os.Stdout, appName, level)
}

func newLogger(out io.Writer, appName, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level = strings.ToLower(level)
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid LOG_LEVEL '%s', defaulting to INFO", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if appName != "" {
		logger.AddHook(&appNameHook{appName})
	}

	return logger
}
