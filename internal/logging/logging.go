// Package logging configures the process-wide standard logger.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
)

// Setup sends the standard logger to stderr and, when logFile is set, to a rotating
// file as well. The returned closer releases the file; it is a no-op without one.
func Setup(logFile string) (io.Closer, error) {
	log.SetFlags(log.LstdFlags)
	if logFile == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0750); err != nil {
		return nil, err
	}
	fileLogger := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, fileLogger))
	return fileLogger, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
