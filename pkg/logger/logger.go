package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var (
	levelNames = map[Level]string{
		DEBUG: "DEBUG",
		INFO:  "INFO",
		WARN:  "WARN",
		ERROR: "ERROR",
	}
	levelColors = map[Level]string{
		DEBUG: "\033[36m",
		INFO:  "\033[32m",
		WARN:  "\033[33m",
		ERROR: "\033[31m",
	}
	reset = "\033[0m"
)

// Logger 简单的分级日志，输出到 stderr（或 SetOutput 指定的位置）
type Logger struct {
	mu       sync.Mutex
	level    Level
	out      *log.Logger
	useColor bool

	root   *Logger // WithPrefix 创建的子 logger 指向根 logger
	prefix string
}

var (
	std     *Logger
	stdOnce sync.Once
)

func newLogger(level Level, out io.Writer, useColor bool) *Logger {
	return &Logger{
		level:    level,
		out:      log.New(out, "", log.Ldate|log.Ltime),
		useColor: useColor,
	}
}

// Init 只生效一次，之后请用 SetLevel / SetOutput 调整
func Init(level string, useColor bool) {
	stdOnce.Do(func() {
		std = newLogger(parseLevel(level), os.Stderr, useColor)
	})
}

func Get() *Logger {
	if std == nil {
		Init("INFO", true)
	}
	return std
}

func SetLevel(level string) {
	l := Get()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = parseLevel(level)
}

// SetOutput 替换输出位置，测试里用来捕获日志
func SetOutput(w io.Writer, useColor bool) {
	l := Get()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.SetOutput(w)
	l.useColor = useColor
}

func parseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func Debug(format string, v ...interface{}) {
	Get().log(DEBUG, format, v...)
}

func Info(format string, v ...interface{}) {
	Get().log(INFO, format, v...)
}

func Warn(format string, v ...interface{}) {
	Get().log(WARN, format, v...)
}

func Error(format string, v ...interface{}) {
	Get().log(ERROR, format, v...)
}

func Fatal(format string, v ...interface{}) {
	Get().log(ERROR, format, v...)
	os.Exit(1)
}

func (l *Logger) Debug(format string, v ...interface{}) { l.log(DEBUG, format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.log(INFO, format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.log(WARN, format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.log(ERROR, format, v...) }

func (l *Logger) log(level Level, format string, v ...interface{}) {
	r := l
	if l.root != nil {
		r = l.root
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if level < r.level {
		return
	}

	msg := fmt.Sprintf(format, v...)
	levelStr := levelNames[level]

	var output string
	if r.useColor {
		output = fmt.Sprintf("%s[%s]%s %s", levelColors[level], levelStr, reset, msg)
	} else {
		output = fmt.Sprintf("[%s] %s", levelStr, msg)
	}

	if l.prefix != "" {
		output = fmt.Sprintf("[%s] %s", l.prefix, output)
	}

	r.out.Println(output)
}

// WithPrefix 共享根 logger 的级别和输出，只多一个前缀
func WithPrefix(prefix string) *Logger {
	return &Logger{root: Get(), prefix: prefix}
}
