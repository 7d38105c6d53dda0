package logger

import (
	"go.uber.org/zap"
)

type ZapToPahoLogger struct {
	logger *zap.SugaredLogger
}

func NewZapToPahoLogger(l *zap.Logger) *ZapToPahoLogger {
	return &ZapToPahoLogger{logger: l.Sugar()}
}

func (a *ZapToPahoLogger) Println(v ...interface{}) {
	a.logger.Debugln(v...)
}

func (a *ZapToPahoLogger) Printf(format string, v ...interface{}) {
	a.logger.Debugf(format, v...)
}

type ZapToAntsLogger struct {
	logger *zap.SugaredLogger
}

func NewZapToAntsLogger(l *zap.Logger) *ZapToAntsLogger {
	return &ZapToAntsLogger{logger: l.Sugar()}
}

func (l *ZapToAntsLogger) Printf(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}
