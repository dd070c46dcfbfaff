package config

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

type debugLogger io.Writer

// OpenDebugLog attaches a rotating log file to Debugf output. Without it,
// debug lines only go to the terminal. The file defaults to
// ~/.topic/logs/topic.log and can be overridden with TOPIC_LOG_FILE.
func (c *Config) OpenDebugLog() {
	if !c.Debug {
		return
	}
	c.debugLog = &lumberjack.Logger{
		Filename:   DebugLogPath(),
		MaxSize:    1, // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	}
}

func DebugLogPath() string {
	if customPath := os.Getenv("TOPIC_LOG_FILE"); customPath != "" {
		return customPath
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "topic.log"
	}
	return filepath.Join(homeDir, ".topic", "logs", "topic.log")
}
