package logger

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the Logger interface on top of a sugared zap logger
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger creates a zap-backed logger honoring level, format and output of cfg
func NewZapLogger(cfg *Config) Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.MessageKey = "message"
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timestampFormat)

	var encoder zapcore.Encoder
	if cfg.JSON() {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(cfg.Output()), parseZapLevel(cfg.Level))
	return &ZapLogger{sugar: zap.New(core).Sugar()}
}

func parseZapLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *ZapLogger) Debug(args ...interface{}) { l.sugar.Debug(args...) }
func (l *ZapLogger) Info(args ...interface{})  { l.sugar.Info(args...) }
func (l *ZapLogger) Warn(args ...interface{})  { l.sugar.Warn(args...) }
func (l *ZapLogger) Error(args ...interface{}) { l.sugar.Error(args...) }
func (l *ZapLogger) Fatal(args ...interface{}) { l.sugar.Fatal(args...) }

func (l *ZapLogger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *ZapLogger) Infof(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *ZapLogger) Warnf(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *ZapLogger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }
func (l *ZapLogger) Fatalf(format string, args ...interface{}) { l.sugar.Fatalf(format, args...) }

// WithFields adds structured fields to the logger
func (l *ZapLogger) WithFields(fields map[string]interface{}) Logger {
	if len(fields) == 0 {
		return l
	}
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &ZapLogger{sugar: l.sugar.With(kv...)}
}

// WithContext adds request-scoped values found in ctx
func (l *ZapLogger) WithContext(ctx context.Context) Logger {
	return l.WithFields(contextFields(ctx))
}

// WithComponent adds component name to the logger
func (l *ZapLogger) WithComponent(component string) Logger {
	return &ZapLogger{sugar: l.sugar.With("component", component)}
}
