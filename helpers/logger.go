package helpers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Mirror receives a copy of Info lines (telegram channel, tests)
type Mirror interface {
	Send(message string) error
}

type FileLogger struct {
	mu     sync.RWMutex
	logger *log.Logger
	mirror Mirror
}

func NewFileLogger(out io.Writer) *FileLogger {
	plainFormatter := new(PlainFormatter)
	plainFormatter.TimestampFormat = "2006-01-02 15:04:05"
	plainFormatter.LevelDesc = []string{"PANIC", "FATAL", "ERROR", "WARN ", "INFO ", "DEBUG", "TRACE"}

	logger := log.New()
	logger.SetOutput(out)
	logger.SetFormatter(plainFormatter)
	logger.SetLevel(log.InfoLevel)
	return &FileLogger{logger: logger}
}

var Logger = NewFileLogger(os.Stderr)

// ConfigureLogger points the shared logger to logFile (stderr when empty) at the given level
func ConfigureLogger(logFile string, level string, mirror Mirror) error {
	var out io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("error opening log file: %w", err)
		}
		out = f
	}

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}

	Logger.mu.Lock()
	defer Logger.mu.Unlock()
	Logger.logger.SetOutput(out)
	Logger.logger.SetLevel(lvl)
	Logger.mirror = mirror
	return nil
}

func (l *FileLogger) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetOutput(out)
}

func (l *FileLogger) SetLevel(level log.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetLevel(level)
}

func (l *FileLogger) SetMirror(mirror Mirror) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mirror = mirror
}

func (l *FileLogger) Errorln(args ...interface{}) {
	l.base().Errorln(args...)
}

func (l *FileLogger) Fatalln(args ...interface{}) {
	l.base().Fatalln(args...)
}

func (l *FileLogger) Warnln(args ...interface{}) {
	l.base().Warnln(args...)
}

func (l *FileLogger) Infoln(args ...interface{}) {
	l.base().Infoln(args...)

	l.mu.RLock()
	mirror := l.mirror
	l.mu.RUnlock()
	if mirror != nil && len(args) > 0 {
		if err := mirror.Send(fmt.Sprint(args...)); err != nil {
			l.base().Warnln("log mirror:", err)
		}
	}
}

func (l *FileLogger) Traceln(args ...interface{}) {
	l.base().Traceln(args...)
}

// Printf logs at debug level, used as the scheduler logger
func (l *FileLogger) Printf(format string, args ...interface{}) {
	l.Debugln(fmt.Sprintf(format, args...))
}

func (l *FileLogger) Debugln(args ...interface{}) {
	l.base().Debugln(args...)
}

func (l *FileLogger) base() *log.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger
}

type PlainFormatter struct {
	TimestampFormat string
	LevelDesc       []string
}

func (f PlainFormatter) Format(entry *log.Entry) ([]byte, error) {
	timestamp := entry.Time.Format(f.TimestampFormat)
	level := strings.ToUpper(entry.Level.String())
	if int(entry.Level) < len(f.LevelDesc) {
		level = f.LevelDesc[entry.Level]
	}
	return []byte(fmt.Sprintf("%s %s %s\n", level, timestamp, entry.Message)), nil
}
