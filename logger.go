// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// nopLogger, the default logger, drops everything.
type nopLogger struct{}

func (*nopLogger) Level() kgo.LogLevel { return kgo.LogLevelNone }
func (*nopLogger) Log(kgo.LogLevel, string, ...any) {
}

// ZapLogger adapts a zap logger to the kgo.Logger seam used throughout the
// package, so both the producer and its transport log through one instance.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	level kgo.LogLevel
}

var _ kgo.Logger = (*ZapLogger)(nil)

// NewZapLogger wraps logger, emitting records at or below level.
func NewZapLogger(logger *zap.Logger, level kgo.LogLevel) *ZapLogger {
	return &ZapLogger{
		// Skip this adapter's frame so call sites are attributed correctly.
		sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar(),
		level: level,
	}
}

func (z *ZapLogger) Level() kgo.LogLevel {
	return z.level
}

func (z *ZapLogger) Log(level kgo.LogLevel, msg string, keyvals ...any) {
	switch level {
	case kgo.LogLevelError:
		z.sugar.Errorw(msg, keyvals...)
	case kgo.LogLevelWarn:
		z.sugar.Warnw(msg, keyvals...)
	case kgo.LogLevelInfo:
		z.sugar.Infow(msg, keyvals...)
	case kgo.LogLevelDebug:
		z.sugar.Debugw(msg, keyvals...)
	}
}
