package mlog

import "go.uber.org/zap"

// ZapLogger adapts a *zap.SugaredLogger to Logger. Grounded on the teacher's
// common/mzap.ZapWithTraceLogger, simplified to drop the otelzap/trace-span
// variants since this module wires no tracing dependency (see
// SPEC_FULL.md's DOMAIN STACK).
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// NewZap builds a production zap logger (JSON encoding, info level) wrapped
// as a Logger.
func NewZap() (*ZapLogger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &ZapLogger{logger: z.Sugar()}, nil
}

func FromZap(z *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{logger: z}
}

func (l *ZapLogger) Debug(msg string, keysAndValues ...any) { l.logger.Debugw(msg, keysAndValues...) }
func (l *ZapLogger) Info(msg string, keysAndValues ...any)  { l.logger.Infow(msg, keysAndValues...) }
func (l *ZapLogger) Warn(msg string, keysAndValues ...any)  { l.logger.Warnw(msg, keysAndValues...) }
func (l *ZapLogger) Error(msg string, keysAndValues ...any) { l.logger.Errorw(msg, keysAndValues...) }

// With returns a new ZapLogger; per Logger's contract this does not mutate
// the receiver (mirrors ZapWithTraceLogger.WithFields's immutable-copy
// pattern).
func (l *ZapLogger) With(keysAndValues ...any) Logger {
	return &ZapLogger{logger: l.logger.With(keysAndValues...)}
}
