package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"anonymizer/internal/config"
)

// Logger provides leveled logging (debug/info/warning/error) to stdout/stderr
// and, when a log directory is configured, to per-level files.
type Logger struct {
	debugLog   *log.Logger
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	debug      bool
	logDir     string
	mu         sync.Mutex
}

// NewLogger creates a Logger from the configured directory and level.
func NewLogger(config *config.Config) *Logger {
	logger := &Logger{
		logDir: config.LogDirectory,
		debug:  config.LogLevel == "debug",
	}

	if logger.logDir != "" {
		if err := os.MkdirAll(logger.logDir, 0755); err != nil {
			log.Printf("Failed to create log directory %s, logging to stdout only: %v", logger.logDir, err)
			logger.logDir = ""
		}
	}

	logger.setupLoggers(os.Stdout, os.Stderr)
	return logger
}

// New creates a Logger writing to the given writers only. Used by tests and tools.
func New(out, errOut io.Writer, debug bool) *Logger {
	logger := &Logger{debug: debug}
	logger.setupLoggers(out, errOut)
	return logger
}

// setupLoggers initializes writers and per-level loggers.
func (l *Logger) setupLoggers(out, errOut io.Writer) {
	infoWriter, warningWriter, errorWriter := out, out, errOut

	if l.logDir != "" {
		infoWriter = io.MultiWriter(out, l.openLogFile("info.log"))
		warningWriter = io.MultiWriter(out, l.openLogFile("warning.log"))
		errorWriter = io.MultiWriter(errOut, l.openLogFile("error.log"))
	}

	flags := log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile
	l.debugLog = log.New(infoWriter, "DEBUG   ", flags)
	l.infoLog = log.New(infoWriter, "INFO    ", flags)
	l.warningLog = log.New(warningWriter, "WARNING ", flags)
	l.errorLog = log.New(errorWriter, "ERROR   ", flags)
}

// openLogFile opens or creates a log file for appending. Falls back to io.Discard.
func (l *Logger) openLogFile(name string) io.Writer {
	filename := filepath.Join(l.logDir, name)
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Failed to open log file %s: %v", filename, err)
		return io.Discard
	}
	return file
}

// Debug writes a formatted debug-level entry when debug logging is enabled.
func (l *Logger) Debug(format string, v ...interface{}) {
	if !l.debug {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugLog.Output(2, fmt.Sprintf(format, v...))
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLog.Output(2, fmt.Sprintf(format, v...))
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLog.Output(2, fmt.Sprintf(format, v...))
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Output(2, fmt.Sprintf(format, v...))
}

// DebugEnabled reports whether debug lines are emitted.
func (l *Logger) DebugEnabled() bool {
	return l.debug
}
