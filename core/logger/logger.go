package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RunLogTimeLayout names run log files, e.g. 2024-05-01_031500.txt.
const RunLogTimeLayout = "2006-01-02_150405"

// New creates a new zap logger based on the configuration.
func New(cfg *Config) (*zap.Logger, error) {
	config := buildConfig(cfg)

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// RunLog is the per-invocation log file written next to the regular output.
type RunLog struct {
	// Path is the absolute or relative path of the log file.
	Path   string
	writer *lumberjack.Logger
}

// Text returns the full contents of the run log.
func (r *RunLog) Text() (string, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read run log: %w", err)
	}
	return string(data), nil
}

// Close flushes and closes the underlying file.
func (r *RunLog) Close() error {
	return r.writer.Close()
}

// NewWithRunLog creates a logger that additionally writes every entry to a fresh
// run log file under cfg.Dir, named after the start time.
func NewWithRunLog(cfg *Config, started time.Time) (*zap.Logger, *RunLog, error) {
	config := buildConfig(cfg)

	base, err := config.Build()
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 50
	}

	runLog := &RunLog{
		Path: filepath.Join(cfg.Dir, started.Format(RunLogTimeLayout)+".txt"),
	}
	runLog.writer = &lumberjack.Logger{
		Filename:   runLog.Path,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
	}

	// The run log is read by humans (and mailed), so it is always plain console text.
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	fileCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(runLog.writer),
		config.Level,
	)

	logger := base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	}))

	return logger, runLog, nil
}

// buildConfig maps the application config onto a zap config.
func buildConfig(cfg *Config) zap.Config {
	var config zap.Config

	if cfg.Level == "debug" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	if lvl, err := zapcore.ParseLevel(cfg.Level); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	if cfg.Format == "console" {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.DisableStacktrace = true
	} else {
		config.Encoding = "json"
	}

	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.MessageKey = "message"

	return config
}

// WithRayID returns a logger with the ray_id field set from the Fiber context.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	rid := c.Locals("ray_id")
	if str, ok := rid.(string); ok && str != "" {
		return l.With(zap.String("ray_id", str))
	}
	return l
}
