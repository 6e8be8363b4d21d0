// Package obslog is the simulator's ambient logging layer, following
// the file-hook-plus-console pattern the pack's QuantFortressBot logs
// package uses: one logrus.Logger, console output for interactive use,
// and a lumberjack-rotated file for the run's full history. Nothing in
// bankcore ever imports this package; the core reports its findings as
// return values (events, errors), and only the CLI turns those into
// log lines.
package obslog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type fileHook struct {
	formatter logrus.Formatter
	writer    io.Writer
}

func (h *fileHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *fileHook) Fire(entry *logrus.Entry) error {
	b, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(b)
	return err
}

var (
	log  *logrus.Logger
	hook *fileHook
)

// Init sets up console logging at level plus a rotating file sink at
// logFilePath. An empty logFilePath disables the file sink.
func Init(level string, logFilePath string) error {
	log = logrus.New()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	log.SetOutput(os.Stdout)

	if logFilePath == "" {
		return nil
	}

	dir := filepath.Dir(logFilePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("obslog: create log dir: %w", err)
		}
	}

	writer := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     28,
		Compress:   true,
	}
	hook = &fileHook{writer: writer, formatter: &logrus.TextFormatter{DisableColors: true, FullTimestamp: true}}
	log.AddHook(hook)
	return nil
}

// Close flushes and closes the file sink, if one was configured.
func Close() {
	if hook == nil {
		return
	}
	if closer, ok := hook.writer.(io.Closer); ok {
		_ = closer.Close()
	}
}

func logger() *logrus.Logger {
	if log == nil {
		log = logrus.New()
	}
	return log
}

func Debugf(format string, args ...interface{}) { logger().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { logger().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { logger().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { logger().Errorf(format, args...) }

// WithFields returns an entry pre-populated with run/step context, the
// way the pipeline's Event stream is turned into structured log lines.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return logger().WithFields(fields)
}
