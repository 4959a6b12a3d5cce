package jsonlog

import (
	"bytes"
	"io"
	"os"
	"runtime/debug"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// Level 日志级别
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
	LevelFatal
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return ""
	}
}

func (l Level) charm() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelInfo:
		return log.InfoLevel
	case LevelError:
		return log.ErrorLevel
	case LevelFatal:
		return log.FatalLevel
	default:
		return log.FatalLevel + 1
	}
}

// Logger 每条日志输出为一行 JSON, 低于 minLevel 的日志会被丢弃
type Logger struct {
	out      *log.Logger
	minLevel Level
}

// New 返回写入 out 的 Logger
func New(out io.Writer, minLevel Level) *Logger {
	l := log.NewWithOptions(out, log.Options{
		Formatter:       log.JSONFormatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           minLevel.charm(),
	})

	return &Logger{out: l, minLevel: minLevel}
}

func (l *Logger) PrintDebug(message string, properties map[string]string) {
	l.print(LevelDebug, message, properties)
}

func (l *Logger) PrintInfo(message string, properties map[string]string) {
	l.print(LevelInfo, message, properties)
}

func (l *Logger) PrintError(err error, properties map[string]string) {
	l.print(LevelError, err.Error(), properties)
}

// PrintFatal 输出日志后退出进程
func (l *Logger) PrintFatal(err error, properties map[string]string) {
	l.print(LevelFatal, err.Error(), properties)
	os.Exit(1)
}

func (l *Logger) print(level Level, message string, properties map[string]string) {
	if level < l.minLevel {
		return
	}

	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	keyvals := make([]interface{}, 0, 2*len(keys)+2)
	for _, k := range keys {
		keyvals = append(keyvals, k, properties[k])
	}

	// ERROR 及以上级别附带调用栈
	if level >= LevelError {
		keyvals = append(keyvals, "trace", string(debug.Stack()))
	}

	l.out.Log(level.charm(), message, keyvals...)
}

// Write 实现 io.Writer, 用于 http.Server 的 ErrorLog
func (l *Logger) Write(message []byte) (n int, err error) {
	l.print(LevelError, string(bytes.TrimSpace(message)), nil)
	return len(message), nil
}
