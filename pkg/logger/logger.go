package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Leveled logger shared by the catalog service and its CLI.
// Lines look like: 2024-01-02T15:04:05Z [INFO] message key=value key2=value2

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu     sync.RWMutex
	logger *log.Logger = log.New(os.Stdout, "", 0)
	level  Level       = LevelInfo
)

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Unknown values fall back to info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// SetOutput redirects log output, returning the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := logger.Writer()
	logger.SetOutput(w)
	return prev
}

// ParseLevel converts a level name into a Level.
func ParseLevel(l string) Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	}
	return "info"
}

func header(l Level) string {
	return fmt.Sprintf("%s [%s] ", time.Now().UTC().Format(time.RFC3339), strings.ToUpper(l.String()))
}

func shouldLog(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func output(l Level, fields Fields, format string, v ...interface{}) {
	if l != LevelFatal && !shouldLog(l) {
		return
	}
	msg := fmt.Sprintf(format, v...)
	if len(fields) > 0 {
		msg += " " + fields.String()
	}
	logger.Print(header(l) + msg)
}

func Debugf(format string, v ...interface{}) { output(LevelDebug, nil, format, v...) }
func Infof(format string, v ...interface{})  { output(LevelInfo, nil, format, v...) }
func Warnf(format string, v ...interface{})  { output(LevelWarn, nil, format, v...) }
func Errorf(format string, v ...interface{}) { output(LevelError, nil, format, v...) }

func Fatalf(format string, v ...interface{}) {
	output(LevelFatal, nil, format, v...)
	os.Exit(1)
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return level.String()
}

// Fields are key/value pairs appended to a log line in key order.
type Fields map[string]interface{}

func (f Fields) String() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := fmt.Sprint(f[k])
		if strings.ContainsAny(v, " \t\"=") {
			v = fmt.Sprintf("%q", v)
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, " ")
}

// Entry carries fields that are rendered with every line it logs.
type Entry struct {
	fields Fields
}

// With returns an Entry holding the given alternating key/value pairs.
// A trailing key without a value is logged with value "(missing)".
func With(kv ...interface{}) *Entry {
	return (&Entry{}).With(kv...)
}

// With returns a copy of e extended with more key/value pairs.
func (e *Entry) With(kv ...interface{}) *Entry {
	f := make(Fields, len(e.fields)+len(kv)/2)
	for k, v := range e.fields {
		f[k] = v
	}
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 < len(kv) {
			f[key] = kv[i+1]
		} else {
			f[key] = "(missing)"
		}
	}
	return &Entry{fields: f}
}

func (e *Entry) Debugf(format string, v ...interface{}) { output(LevelDebug, e.fields, format, v...) }
func (e *Entry) Infof(format string, v ...interface{})  { output(LevelInfo, e.fields, format, v...) }
func (e *Entry) Warnf(format string, v ...interface{})  { output(LevelWarn, e.fields, format, v...) }
func (e *Entry) Errorf(format string, v ...interface{}) { output(LevelError, e.fields, format, v...) }
