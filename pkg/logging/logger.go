// Package logging provides run-scoped debug logging for patrol components.
// All components of one audit run append to a single file under
// ~/.patrol/logs/, keyed by a generated run ID, so a run's browser,
// check, and export activity can be read as one interleaved trace.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	runID     string
	runIDOnce sync.Once

	logDir  string
	dirOnce sync.Once
	dirErr  error
)

// RunID returns the identifier shared by all loggers in this process.
func RunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

func ensureLogDir() error {
	dirOnce.Do(func() {
		if logDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				dirErr = fmt.Errorf("resolve home directory: %w", err)
				return
			}
			logDir = filepath.Join(home, ".patrol", "logs")
		}
		if err := os.MkdirAll(logDir, 0750); err != nil {
			dirErr = fmt.Errorf("create log directory: %w", err)
		}
	})
	return dirErr
}

// Logger writes levelled, component-tagged entries to the run log file.
// When the log directory cannot be prepared it degrades to stderr rather
// than failing the caller; audit runs must never abort over logging.
type Logger struct {
	component string
	file      *os.File
	out       *log.Logger
	path      string
	mu        sync.Mutex
	closeOnce sync.Once
}

// New creates a logger for one component. The returned logger is always
// usable; the error only reports that file logging fell back to stderr.
func New(component string) (*Logger, error) {
	if err := ensureLogDir(); err != nil {
		return fallback(component, err), err
	}

	path := filepath.Join(logDir, RunID()+"-patrol.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("open log file: %w", err)
		return fallback(component, err), err
	}

	return &Logger{
		component: component,
		file:      file,
		out:       log.New(file, "", 0),
		path:      path,
	}, nil
}

func fallback(component string, cause error) *Logger {
	out := log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags)
	out.Printf("WARN: file logging unavailable, using stderr: %v", cause)
	return &Logger{component: component, out: out}
}

func (l *Logger) emit(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := time.Now().Format("2006-01-02 15:04:05.000")
	l.out.Printf("[%s] [%s] [%s] %s", ts, l.component, level, fmt.Sprintf(format, v...))
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) { l.emit("DEBUG", format, v...) }

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...interface{}) { l.emit("INFO", format, v...) }

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) { l.emit("WARN", format, v...) }

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) { l.emit("ERROR", format, v...) }

// Path returns the log file path, or "" when running on the stderr fallback.
func (l *Logger) Path() string {
	return l.path
}

// Close closes the underlying log file. Safe to call more than once.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
