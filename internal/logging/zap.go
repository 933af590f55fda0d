package logging

import (
	"context"

	"go.uber.org/zap"
)

// ZapLogger adapts a zap logger to the Logger interface. The variadic
// key-value args map onto zap's sugared "w" methods.
type ZapLogger struct {
	l *zap.SugaredLogger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l.Sugar()}
}

func (z *ZapLogger) Info(_ context.Context, msg string, args ...any) {
	z.l.Infow(msg, args...)
}

func (z *ZapLogger) Warn(_ context.Context, msg string, args ...any) {
	z.l.Warnw(msg, args...)
}

func (z *ZapLogger) Error(_ context.Context, msg string, args ...any) {
	z.l.Errorw(msg, args...)
}

func (z *ZapLogger) With(args ...any) Logger {
	return &ZapLogger{l: z.l.With(args...)}
}

// Nop returns a logger that discards everything; handy as a default in
// constructors and tests.
func Nop() Logger {
	return NewZapLogger(zap.NewNop())
}
