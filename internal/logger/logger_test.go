package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, int(slog.LevelInfo))

	l.Debug("hidden")
	l.Info("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "key=value")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, 0).With("request_id", "abc")

	l.Info("done")

	assert.Contains(t, buf.String(), "request_id=abc")
}
