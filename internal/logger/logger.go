// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// recentCap bounds the ring of recent lines replayed to new stream clients.
const recentCap = 200

// Logger writes to stdout plus an optional file and fans every line out to
// subscribed channels so the log stream endpoint can tail it live.
type Logger struct {
	file *os.File
	out  *log.Logger

	mu          sync.Mutex
	closed      bool
	subscribers map[chan string]struct{}
	recent      []string
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init sets up the process-wide logger. Repeat calls return the first
// instance.
func Init(logFile string) (*Logger, error) {
	var err error
	once.Do(func() {
		defaultLogger, err = New(logFile)
	})
	return defaultLogger, err
}

// New creates a logger appending to logFile. An empty path logs to stdout
// only.
func New(logFile string) (*Logger, error) {
	l := &Logger{
		subscribers: make(map[chan string]struct{}),
	}

	w := io.Writer(os.Stdout)
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		w = io.MultiWriter(os.Stdout, file)
	}
	l.out = log.New(w, "", log.LstdFlags|log.Lshortfile)

	return l, nil
}

// GetDefault returns the process-wide logger, creating a stdout-only one if
// Init was never called.
func GetDefault() *Logger {
	if defaultLogger == nil {
		defaultLogger, _ = New("")
	}
	return defaultLogger
}

// Subscribe registers a channel that receives every subsequent log line,
// primed with the recent-line backlog. Returns nil if the logger is closed.
func (l *Logger) Subscribe() chan string {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}

	ch := make(chan string, recentCap+16)
	for _, line := range l.recent {
		ch <- line
	}
	l.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (l *Logger) Unsubscribe(ch chan string) {
	if l == nil || ch == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.subscribers[ch]; ok {
		delete(l.subscribers, ch)
		close(ch)
	}
}

func (l *Logger) logMessage(level, format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	line := fmt.Sprintf("[%s] [%s] %s", time.Now().Format("2006-01-02 15:04:05"), level, message)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	l.out.Output(3, line)

	l.recent = append(l.recent, line)
	if len(l.recent) > recentCap {
		l.recent = l.recent[len(l.recent)-recentCap:]
	}

	// Slow subscribers drop lines rather than block logging.
	for ch := range l.subscribers {
		select {
		case ch <- line:
		default:
		}
	}
}

// Printf logs a message at INFO level.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.logMessage("INFO", format, v...)
}

// Println logs a message at INFO level.
func (l *Logger) Println(v ...interface{}) {
	l.logMessage("INFO", "%s", fmt.Sprint(v...))
}

// Errorf logs a message at ERROR level.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logMessage("ERROR", format, v...)
}

// Warnf logs a message at WARN level.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logMessage("WARN", format, v...)
}

// Debugf logs a message at DEBUG level.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.logMessage("DEBUG", format, v...)
}

// Fatalf logs a message at FATAL level and exits.
func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.logMessage("FATAL", format, v...)
	os.Exit(1)
}

// Close stops broadcasting, closes all subscriber channels, and closes the
// log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	for ch := range l.subscribers {
		close(ch)
	}
	l.subscribers = make(map[chan string]struct{})

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Package-level convenience functions on the default logger.
func Printf(format string, v ...interface{}) {
	GetDefault().Printf(format, v...)
}

func Println(v ...interface{}) {
	GetDefault().Println(v...)
}

func Errorf(format string, v ...interface{}) {
	GetDefault().Errorf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	GetDefault().Warnf(format, v...)
}

func Debugf(format string, v ...interface{}) {
	GetDefault().Debugf(format, v...)
}

func Fatalf(format string, v ...interface{}) {
	GetDefault().Fatalf(format, v...)
}
