package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

// NewTestAppender returns an appender that writes each entry through tb.Log, so output is
// attributed to the running test and only shown on failure or with -v.
func NewTestAppender(tb testing.TB) Appender {
	return zaptest.NewLogger(tb, zaptest.Level(zapcore.DebugLevel)).Core()
}
