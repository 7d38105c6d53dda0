package logger

import (
	"context"
	"log"
	"log/slog"

	"github.com/axfleet/eventwatch/internal/configs"
	"go.mrchanchal.com/zaphandler"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *zap.Logger

type Options struct {
	globalConfigs *configs.LoggerConfigs
}

type Optioner func(o *Options)

func WithGlobalConfigs(c *configs.LoggerConfigs) Optioner {
	return func(o *Options) {
		o.globalConfigs = c
	}
}

func Init(ctx context.Context, options ...Optioner) {
	opts := &Options{}
	for _, o := range options {
		o(opts)
	}

	zapConfigs := zap.NewProductionConfig()
	zapConfigs.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if opts.globalConfigs != nil {
		if lvl, err := zapcore.ParseLevel(opts.globalConfigs.Level); err == nil {
			zapConfigs.Level = zap.NewAtomicLevelAt(lvl)
		}
		if opts.globalConfigs.Encoding != "" {
			zapConfigs.Encoding = opts.globalConfigs.Encoding
		}
	}

	l, err := zapConfigs.Build(zap.AddCallerSkip(1))
	if err != nil {
		log.Fatalf("logger.Init: err = %s", err)
		return
	}

	globalLogger = l
	zap.ReplaceGlobals(l)
	slog.SetDefault(slog.New(zaphandler.New(l)))
}

func Logger() *zap.Logger {
	return globalLogger
}

func Close() {
	if globalLogger != nil {
		globalLogger.Sync()
	}
}

func SDebug(msg string, fields ...zap.Field) {
	zap.L().Debug(msg, fields...)
}

func SInfo(msg string, fields ...zap.Field) {
	zap.L().Info(msg, fields...)
}

func SWarn(msg string, fields ...zap.Field) {
	zap.L().Warn(msg, fields...)
}

func SError(msg string, fields ...zap.Field) {
	zap.L().Error(msg, fields...)
}

func SFatal(msg string, fields ...zap.Field) {
	zap.L().Fatal(msg, fields...)
}
