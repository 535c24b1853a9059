// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ConsoleOutput selects stderr instead of a log file.
const ConsoleOutput = "console"

// Init parses the level and points the standard logger at logPath.
// An empty path or "console" keeps output on stderr.
func Init(logLevel string, logPath string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Errorf("failed parsing log-level %s: %s", logLevel, err)
		return err
	}

	log.SetOutput(Writer(logPath))
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetLevel(level)
	return nil
}

// Writer returns the destination for logPath.
func Writer(logPath string) io.Writer {
	if logPath == "" || logPath == ConsoleOutput {
		return os.Stderr
	}

	return &lumberjack.Logger{
		Filename:   filepath.ToSlash(logPath),
		MaxSize:    5, // MB
		MaxBackups: 10,
		MaxAge:     30, // days
		Compress:   true,
	}
}
