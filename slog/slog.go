// Package slog provides logging decorators for newsbrief services.
//
// Each decorator logs one record per call from a deferred closure, so the
// duration and error of the wrapped call are always captured. Failed calls
// are logged at warn level, everything else at info level.
package slog

import (
	"log/slog"
)

func level(err error) slog.Level {
	if err != nil {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
