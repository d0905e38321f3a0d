package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogRequest logs a finished page or file request
func LogRequest(l Logger, method, url string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
	}

	switch {
	case statusCode >= 500:
		l.ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		l.WarnWithFields("HTTP request client error", fields)
	default:
		l.DebugWithFields("HTTP request completed", fields)
	}
}

// LogDownload logs the outcome of one file download
func LogDownload(l Logger, key, path string, bytes int64, err error) {
	fields := map[string]interface{}{
		"key":  key,
		"path": path,
	}
	if err != nil {
		l.WithError(err).ErrorWithFields("Download failed", fields)
		return
	}
	fields["bytes"] = bytes
	l.InfoWithFields("Download completed", fields)
}

// LogSkip logs an item skipped because it was already downloaded
func LogSkip(l Logger, key, reason string) {
	l.DebugWithFields("Download skipped", map[string]interface{}{
		"key":    key,
		"reason": reason,
	})
}

// NewNopLogger creates a logger that discards everything
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(string)                                       {}
func (n *nopLogger) Info(string)                                        {}
func (n *nopLogger) Warn(string)                                        {}
func (n *nopLogger) Error(string)                                       {}
func (n *nopLogger) WithField(string, interface{}) Logger               { return n }
func (n *nopLogger) WithFields(map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(error) Logger                             { return n }
func (n *nopLogger) WithContext(context.Context) Logger                 { return n }
func (n *nopLogger) DebugWithFields(string, map[string]interface{})     {}
func (n *nopLogger) InfoWithFields(string, map[string]interface{})      {}
func (n *nopLogger) WarnWithFields(string, map[string]interface{})      {}
func (n *nopLogger) ErrorWithFields(string, map[string]interface{})     {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                        { return nil }
