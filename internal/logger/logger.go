package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It discards everything until Initialize
// runs, so packages can log from tests and init paths without a nil check.
var Log *zap.Logger = zap.NewNop()

// Initialize replaces Log with a logger configured from the ENV variable.
func Initialize(verbose bool) {
	logger, err := newConfig(os.Getenv("ENV"), verbose).Build(
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	Log = logger
}

// newConfig picks colored console output for development and JSON for
// everything else, including an unset ENV.
func newConfig(env string, verbose bool) zap.Config {
	var config zap.Config
	switch env {
	case "development", "dev":
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if !verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	default:
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config
}

// Sync flushes any buffered log entries
func Sync() {
	_ = Log.Sync()
}
