package logging

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Fields map[string]interface{}

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu       sync.Mutex
	std      = log.New(os.Stderr, "", 0)
	minLevel = LevelInfo
)

// SetOutput redirects every log line to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// SetLevel drops lines below l.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

// ParseLevel maps a level name to a Level, defaulting to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func output(l Level, level, msg string, fields Fields) {
	mu.Lock()
	defer mu.Unlock()
	if l < minLevel {
		return
	}
	out := make(Fields, len(fields)+3)
	for k, v := range fields {
		out[k] = v
	}
	out["level"] = level
	out["ts"] = time.Now().UTC().Format(time.RFC3339)
	out["msg"] = msg
	b, err := json.Marshal(out)
	if err != nil {
		// fallback to plain logging
		std.Printf("%s: %s (%v)\n", level, msg, fields)
		return
	}
	std.Println(string(b))
}

// Debug logs a diagnostic message; hidden unless the level is debug.
func Debug(msg string, fields Fields) {
	output(LevelDebug, "debug", msg, fields)
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	output(LevelInfo, "info", msg, fields)
}

// Warn logs a recoverable problem.
func Warn(msg string, fields Fields) {
	output(LevelWarn, "warn", msg, fields)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	output(LevelError, "error", msg, withError(fields, err))
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	output(LevelError, "fatal", msg, withError(fields, err))
	os.Exit(1)
}

func withError(fields Fields, err error) Fields {
	out := make(Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	if err != nil {
		out["error"] = err.Error()
	}
	return out
}
