package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("info", &buf)

	l.Debug("hidden %d", 1)
	l.Info("shown %d", 2)
	l.Error("boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] shown 2")
	assert.Contains(t, out, "[ERROR] boom")
}

func TestErrorLevelSuppressesWarn(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("error", &buf)

	l.Warn("quiet")
	l.Info("quiet")
	assert.Empty(t, buf.String())
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("debug", &buf).Named("poller").Named("events")

	l.Debug("tick")
	assert.Contains(t, buf.String(), "[DEBUG] [poller] [events] tick")
}
