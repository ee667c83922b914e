package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Path of the JSON log file; rotated by size.
	Path string
	// Namespace is attached to every entry as "session".
	Namespace string
	// ConsoleLevel is the minimum level echoed to Console ("debug", "info",
	// "warn", "error"). The file always records info and above.
	ConsoleLevel string
	// Console defaults to stderr.
	Console io.Writer
}

// New creates a zap logger that writes JSON to a rotating file and a
// console rendering to stderr. Namespace and PID are initial fields.
func New(opts Options) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
		return nil, err
	}

	consoleLevel := zapcore.WarnLevel
	if opts.ConsoleLevel != "" {
		lvl, err := zapcore.ParseLevel(opts.ConsoleLevel)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		consoleLevel = lvl
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	jsonEncoder := zapcore.NewJSONEncoder(encoderCfg)
	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	fileCore := zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), zapcore.InfoLevel)
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.AddSync(console), consoleLevel)

	core := zapcore.NewTee(fileCore, consoleCore)

	logger := zap.New(core,
		zap.Fields(
			zap.String("session", opts.Namespace),
			zap.Int("pid", os.Getpid()),
		),
	)

	return logger, nil
}
