package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.AddHook(recentLogs)
}

// logBufferSize bounds the lines the control API can replay.
const logBufferSize = 200

// logBuffer is a logrus hook keeping the most recent formatted lines in
// memory for the log-tail endpoint.
type logBuffer struct {
	mu    sync.Mutex
	lines []string
}

var recentLogs = &logBuffer{}

func (b *logBuffer) Levels() []logrus.Level { return logrus.AllLevels }

func (b *logBuffer) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.lines = append(b.lines, strings.TrimSuffix(line, "\n"))
	if len(b.lines) > logBufferSize {
		b.lines = b.lines[len(b.lines)-logBufferSize:]
	}
	b.mu.Unlock()
	return nil
}

// RecentLogs returns up to n of the latest log lines, oldest first.
func RecentLogs(n int) []string {
	recentLogs.mu.Lock()
	defer recentLogs.mu.Unlock()
	if n <= 0 || n > len(recentLogs.lines) {
		n = len(recentLogs.lines)
	}
	out := make([]string, n)
	copy(out, recentLogs.lines[len(recentLogs.lines)-n:])
	return out
}

// SetLogLevel applies the configured level; unknown values keep info.
func SetLogLevel(level string) {
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logger.Warnf("unknown log level %q, keeping info", level)
		return
	}
	logger.SetLevel(parsed)
}

func Log(args ...interface{}) {
	logger.Info(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func Logf(format string, args ...interface{}) {
	logger.Infof(strings.TrimSuffix(format, "\n"), args...)
}
