package utils_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/temirov/tree/internal/utils"
)

func TestNewApplicationLoggerFollowsSharedLevel(t *testing.T) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	logger, loggerError := utils.NewApplicationLogger(level)
	if loggerError != nil {
		t.Fatalf("building logger: %v", loggerError)
	}
	if logger.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("debug must be disabled at info level")
	}
	level.SetLevel(zap.DebugLevel)
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("debug must be enabled after raising the shared level")
	}
}

func TestGetApplicationVersionIsNeverEmpty(t *testing.T) {
	if version := utils.GetApplicationVersion(); version == "" {
		t.Fatalf("expected a version string")
	}
}
