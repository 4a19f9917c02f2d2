package main

import (
	"context"

	"go.uber.org/zap"
)

// zapLogger adapts a zap logger to proxytrust.Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func (l zapLogger) WarnContext(_ context.Context, msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func newZapLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
