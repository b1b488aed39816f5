package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging sets the logrus level and, when logFile is set, tees output
// into a size-rotated file.
func setupLogging(level, logFile string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", level)
	}
	logrus.SetLevel(lvl)

	if logFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		logrus.SetOutput(io.MultiWriter(os.Stderr, rotated))
	}
	return nil
}
