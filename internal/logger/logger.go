// Package logger holds the engine-wide zap logger.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv selects the log level ("debug", "info", "warn", "error").
const LevelEnv = "OCEAN_LOG_LEVEL"

// Log is safe to use before Init; it discards everything until then.
var Log = zap.NewNop()

func Init() {
	level := zapcore.InfoLevel
	if raw := strings.TrimSpace(os.Getenv(LevelEnv)); raw != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(raw))); err != nil {
			level = zapcore.InfoLevel
		}
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.DisableStacktrace = level > zapcore.DebugLevel

	built, err := config.Build()
	if err != nil {
		// Keep whatever logger we had, the engine should still run
		return
	}
	Log = built
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func Sync() {
	_ = Log.Sync()
}
