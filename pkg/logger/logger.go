package logger

import (
	"context"
	"errors"
	"log"
	"syscall"

	"github.com/spf13/viper"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const requestIDKey contextKey = "requestID"

var sugaredLogger *zap.SugaredLogger

func init() {
	viper.AutomaticEnv()
	New(getEnv())
}

func New(env string) {
	zapCfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(zap.DebugLevel),
		Development: env != "prod",
		Encoding:    "json",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "message",
			LevelKey:       "level",
			TimeKey:        "time",
			NameKey:        "logger",
			CallerKey:      "file",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeName:     zapcore.FullNameEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	if env == "prod" {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	if env == "local" {
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := zapCfg.Build(zap.WithCaller(true), zap.AddCallerSkip(1))
	if err != nil {
		log.Fatal(err)
	}
	sugaredLogger = l.Sugar()
}

// WithRequestID returns a copy of ctx carrying the request id that Context attaches to every entry.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}

func Context(ctx context.Context) *zap.SugaredLogger {
	args := make([]any, 0, 2)
	if requestID := RequestID(ctx); requestID != "" {
		args = append(args, zap.String("requestID", requestID))
	}

	return sugaredLogger.With(args...).WithOptions(zap.AddCallerSkip(-1))
}

func Info(args ...any) {
	sugaredLogger.Info(args...)
}

func Infof(template string, args ...any) {
	sugaredLogger.Infof(template, args...)
}

func Warnf(template string, args ...any) {
	sugaredLogger.Warnf(template, args...)
}

func Error(args ...any) {
	sugaredLogger.Error(args...)
}

func Errorf(template string, args ...any) {
	sugaredLogger.Errorf(template, args...)
}

func Fatal(args ...any) {
	sugaredLogger.Fatal(args...)
}

func Fatalf(template string, args ...any) {
	sugaredLogger.Fatalf(template, args...)
}

func getEnv() string {
	if env := viper.GetString("app_environment"); len(env) > 0 {
		return env
	}
	return "prod"
}

func Sync() {
	if err := sugaredLogger.Sync(); err != nil && !errors.Is(err, syscall.ENOTTY) && !errors.Is(err, syscall.EINVAL) {
		Error(err)
	}
}
