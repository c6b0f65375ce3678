package logger

import (
	"os"
	"strings"
)

var globalLogger *Logger

func init() {
	globalLogger = NewDefault()
	Configure(globalLogger, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure applies textual level and format settings to l. Unknown or empty
// values leave the current setting alone.
func Configure(l *Logger, level, format string) {
	if lv, ok := ParseLevel(level); ok {
		l.SetLevel(lv)
	}
	if f, ok := ParseFormat(format); ok {
		l.SetFormat(f)
	}
}

// ParseLevel parses a case-insensitive level name.
func ParseLevel(level string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	case "FATAL":
		return FATAL, true
	}
	return INFO, false
}

// ParseFormat parses "json" or "text".
func ParseFormat(format string) (LogFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, true
	case "text":
		return TextFormat, true
	}
	return JSONFormat, false
}

// Get returns the global logger
func Get() *Logger {
	return globalLogger
}

// SetGlobal replaces the global logger
func SetGlobal(l *Logger) {
	globalLogger = l
}

// Component returns a child of the global logger tagged with name.
func Component(name string) *Logger {
	return globalLogger.WithComponent(name)
}

// Info logs an info message using the global logger
func Info(message string, fields ...Fields) {
	globalLogger.write(INFO, message, first(fields), nil)
}

// Warn logs a warning message using the global logger
func Warn(message string, fields ...Fields) {
	globalLogger.write(WARN, message, first(fields), nil)
}

// Error logs an error message using the global logger
func Error(message string, err error, fields ...Fields) {
	globalLogger.write(ERROR, message, first(fields), err)
}

// Fatal logs using the global logger and exits
func Fatal(message string, err error, fields ...Fields) {
	globalLogger.write(FATAL, message, first(fields), err)
}
