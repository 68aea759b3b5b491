package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"bogus", logrus.InfoLevel},
	}

	for _, tt := range tests {
		log := NewLogger(tt.level, "development")
		if log.GetLevel() != tt.expected {
			t.Errorf("level %q: expected %v, got %v", tt.level, tt.expected, log.GetLevel())
		}
	}
}

func TestNewLoggerProductionFormatter(t *testing.T) {
	log := NewLogger("info", "production")
	if _, ok := log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("expected JSON formatter in production, got %T", log.Formatter)
	}

	log = NewLogger("info", "development")
	if _, ok := log.Formatter.(*logrus.TextFormatter); !ok {
		t.Errorf("expected text formatter in development, got %T", log.Formatter)
	}
}
