package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"coffee-store/internal/shared/contextkeys"

	"github.com/caarlos0/env/v6"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Constants for configuration
const (
	// Log levels
	logLevelDebug = "DEBUG"
	logLevelInfo  = "INFO"
	logLevelWarn  = "WARN"
	logLevelError = "ERROR"
	logLevelFatal = "FATAL"

	// Log formats
	logFormatJSON = "json"

	// Backends
	backendLogrus = "logrus"
	backendZap    = "zap"

	// Environment types
	envProduction = "production"
	envProd       = "prod"

	// Timestamp format
	timestampFormat = "2006-01-02T15:04:05.000Z07:00"
	textTimestamp   = "2006-01-02 15:04:05"
)

// Logger defines the interface for structured logging operations
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
	WithContext(ctx context.Context) Logger
	WithComponent(component string) Logger
}

// Config selects the backend, level, format and optional rotating file output.
type Config struct {
	Backend     string `env:"LOG_BACKEND" envDefault:"logrus"`
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Format      string `env:"LOG_FORMAT" envDefault:"text"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// File enables rotation through lumberjack; stdout is always written.
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// LoadConfig reads logging configuration from the environment.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the configuration used when the environment cannot be parsed.
func DefaultConfig() *Config {
	return &Config{
		Backend:     backendLogrus,
		Level:       "info",
		Format:      "text",
		Environment: "development",
		MaxSizeMB:   100,
		MaxBackups:  5,
		MaxAgeDays:  30,
		Compress:    true,
	}
}

// JSON reports whether structured JSON output is requested.
func (c *Config) JSON() bool {
	environment := strings.ToLower(c.Environment)
	return strings.ToLower(c.Format) == logFormatJSON || environment == envProduction || environment == envProd
}

// Output returns stdout, tee'd into a rotating file when File is set.
func (c *Config) Output() io.Writer {
	if c.File == "" {
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
		Compress:   c.Compress,
	})
}

// LogrusLogger implements the Logger interface using logrus
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogger creates a new logger instance from the environment
func NewLogger() Logger {
	cfg, err := LoadConfig()
	if err != nil {
		cfg = DefaultConfig()
	}
	return NewLoggerFromConfig(cfg)
}

// NewLoggerFromConfig builds the backend named by cfg.Backend.
func NewLoggerFromConfig(cfg *Config) Logger {
	if strings.ToLower(cfg.Backend) == backendZap {
		return NewZapLogger(cfg)
	}

	logger := logrus.New()
	logger.SetLevel(parseLogrusLevel(cfg.Level))
	logger.SetFormatter(getLogFormatter(cfg))
	logger.SetOutput(cfg.Output())

	return &LogrusLogger{
		entry: logrus.NewEntry(logger),
	}
}

// NewLoggerWithConfig creates a logrus logger with custom level and format
func NewLoggerWithConfig(level string, format string) Logger {
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.Format = format
	return NewLoggerFromConfig(cfg)
}

// Debug logs a debug message
func (l *LogrusLogger) Debug(args ...interface{}) {
	l.entry.Debug(args...)
}

// Info logs an info message
func (l *LogrusLogger) Info(args ...interface{}) {
	l.entry.Info(args...)
}

// Warn logs a warning message
func (l *LogrusLogger) Warn(args ...interface{}) {
	l.entry.Warn(args...)
}

// Error logs an error message
func (l *LogrusLogger) Error(args ...interface{}) {
	l.entry.Error(args...)
}

// Fatal logs a fatal message and exits
func (l *LogrusLogger) Fatal(args ...interface{}) {
	l.entry.Fatal(args...)
}

// Debugf logs a formatted debug message
func (l *LogrusLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// Infof logs a formatted info message
func (l *LogrusLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Warnf logs a formatted warning message
func (l *LogrusLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Errorf logs a formatted error message
func (l *LogrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Fatalf logs a formatted fatal message and exits
func (l *LogrusLogger) Fatalf(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}

// WithFields adds structured fields to the logger
func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{
		entry: l.entry.WithFields(logrus.Fields(fields)),
	}
}

// WithContext adds request-scoped values found in ctx
func (l *LogrusLogger) WithContext(ctx context.Context) Logger {
	fields := contextFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return &LogrusLogger{
		entry: l.entry.WithFields(logrus.Fields(fields)),
	}
}

// WithComponent adds component name to the logger
func (l *LogrusLogger) WithComponent(component string) Logger {
	return &LogrusLogger{
		entry: l.entry.WithField("component", component),
	}
}

// contextFields extracts the known context keys as log fields.
func contextFields(ctx context.Context) map[string]interface{} {
	fields := make(map[string]interface{})
	if ctx == nil {
		return fields
	}
	addContextField(ctx, contextkeys.RequestIDKey, "request_id", fields)
	addContextField(ctx, contextkeys.CollectionKey, "collection", fields)
	addContextField(ctx, contextkeys.OperationKey, "operation", fields)
	addContextField(ctx, contextkeys.ComponentKey, "component", fields)
	return fields
}

func addContextField(ctx context.Context, key interface{}, fieldName string, fields map[string]interface{}) {
	if val := ctx.Value(key); val != nil {
		if strVal, ok := val.(string); ok && strVal != "" {
			fields[fieldName] = strVal
		}
	}
}

func parseLogrusLevel(level string) logrus.Level {
	switch level {
	case logLevelDebug, "debug":
		return logrus.DebugLevel
	case logLevelInfo, "info":
		return logrus.InfoLevel
	case logLevelWarn, "warn", "WARNING", "warning":
		return logrus.WarnLevel
	case logLevelError, "error":
		return logrus.ErrorLevel
	case logLevelFatal, "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

func getLogFormatter(cfg *Config) logrus.Formatter {
	if cfg.JSON() {
		return &logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		}
	}

	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: textTimestamp,
		ForceColors:     cfg.File == "",
	}
}

// Global logger instance
var defaultLogger Logger

func init() {
	defaultLogger = NewLogger()
}

// Package-level convenience functions

// Debug logs a debug message using the default logger
func Debug(args ...interface{}) {
	defaultLogger.Debug(args...)
}

// Info logs an info message using the default logger
func Info(args ...interface{}) {
	defaultLogger.Info(args...)
}

// Warn logs a warning message using the default logger
func Warn(args ...interface{}) {
	defaultLogger.Warn(args...)
}

// Error logs an error message using the default logger
func Error(args ...interface{}) {
	defaultLogger.Error(args...)
}

// Infof logs a formatted info message using the default logger
func Infof(format string, args ...interface{}) {
	defaultLogger.Infof(format, args...)
}

// Errorf logs a formatted error message using the default logger
func Errorf(format string, args ...interface{}) {
	defaultLogger.Errorf(format, args...)
}

// WithContext creates a logger with context information
func WithContext(ctx context.Context) Logger {
	return defaultLogger.WithContext(ctx)
}

// WithComponent creates a logger with component information
func WithComponent(component string) Logger {
	return defaultLogger.WithComponent(component)
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(args ...interface{})                       {}
func (nopLogger) Info(args ...interface{})                        {}
func (nopLogger) Warn(args ...interface{})                        {}
func (nopLogger) Error(args ...interface{})                       {}
func (nopLogger) Fatal(args ...interface{})                       {}
func (nopLogger) Debugf(format string, args ...interface{})       {}
func (nopLogger) Infof(format string, args ...interface{})        {}
func (nopLogger) Warnf(format string, args ...interface{})        {}
func (nopLogger) Errorf(format string, args ...interface{})       {}
func (nopLogger) Fatalf(format string, args ...interface{})       {}
func (n nopLogger) WithFields(fields map[string]interface{}) Logger { return n }
func (n nopLogger) WithContext(ctx context.Context) Logger         { return n }
func (n nopLogger) WithComponent(component string) Logger          { return n }
