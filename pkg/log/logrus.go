package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the name of the rotated log file inside the configured log directory.
const LogFileName = "rover.log"

// Ensure logrusLogger implements the Logger interface
var _ Logger = (*logrusLogger)(nil)

// logrusLogger wraps logrus to satisfy the Logger interface
type logrusLogger struct {
	entry *logrus.Entry
}

// FileOptions controls rotation of the on-disk log file.
type FileOptions struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewLogrusLogger creates and configures a new logger instance using logrus.
// It logs to the console and, when logDir is set, to a rotated logDir/rover.log.
func NewLogrusLogger(logLevel string, logDir string, opts FileOptions) (Logger, error) {
	consoleWriter := os.Stdout

	if logDir == "" {
		return NewLogrusLoggerWithWriter(logLevel, consoleWriter), nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory '%s': %w", logDir, err)
	}
	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, LogFileName),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}

	return NewLogrusLoggerWithWriter(logLevel, io.MultiWriter(consoleWriter, fileWriter)), nil
}

// NewLogrusLoggerWithWriter creates a logger writing only to w.
func NewLogrusLoggerWithWriter(logLevel string, w io.Writer) Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel // Default to Info if parsing fails
	}
	l.SetLevel(level)
	l.SetFormatter(&SimpleFormatter{
		TimestampFormat: "2006/01/02 15:04:05.000000",
	})
	l.SetOutput(w)

	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// --- Interface Method Implementations ---

func (l *logrusLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *logrusLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *logrusLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *logrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l *logrusLogger) Fatalf(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}

// --- Custom Formatter Implementation ---

// SimpleFormatter formats logs in a more concise way, similar to standard log
// Example: 2025/04/06 17:30:00.000000 [INF] Log message here key1=value1 key2=value2
type SimpleFormatter struct {
	TimestampFormat string
}

// Format implements the logrus.Formatter interface
func (f *SimpleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = "2006/01/02 15:04:05.000000"
	}

	b.WriteString(entry.Time.Format(timestampFormat))
	b.WriteString(" ")

	// Level (e.g., [INF], [WAR])
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 3 {
		level = level[:3]
	}
	fmt.Fprintf(b, "[%s] ", level)

	b.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys) // Sort for consistent output
		for _, k := range keys {
			b.WriteString(" ")
			fmt.Fprintf(b, "%s=%v", k, entry.Data[k])
		}
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}
