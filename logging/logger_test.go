package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Logger = (*ClientLogger)(nil)
	_ Logger = NoOpLogger{}
	_ Logger = (*SlogAdapter)(nil)
)

func newBufferLogger(level LogLevel) (*ClientLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig()
	cfg.Output = &buf
	cfg.Level = level
	cfg.AddSource = false
	return NewLogger(cfg), &buf
}

func TestClientLogger_ContextAttributes(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)
	l.WithComponent("decoder").WithSession("s1", "t1").Info("record skipped", "seq", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "record skipped", entry["msg"])
	assert.Equal(t, "decoder", entry["component"])
	assert.Equal(t, "s1", entry["session_id"])
	assert.Equal(t, "t1", entry["turn_id"])
	assert.EqualValues(t, 3, entry["seq"])
}

func TestClientLogger_LevelFilter(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)
	l.Info("hidden")
	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestClientLogger_WithDoesNotMutateParent(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	_ = l.WithContext("k", "v")
	l.Info("parent")
	assert.NotContains(t, buf.String(), `"k"`)
}

func TestClientLogger_Summaries(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.LogStreamSummary(5, 1, time.Second, errors.New("broken pipe"))
	assert.Contains(t, buf.String(), "Answer stream failed")
	assert.Contains(t, buf.String(), `"dropped_records":1`)

	buf.Reset()
	l.LogUploadSummary("partial_success", 5, 1, 3, 2, time.Second)
	assert.Contains(t, buf.String(), `"succeeded":3`)
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	assert.NoError(t, err)
	assert.Equal(t, LogLevelDebug, lvl)

	lvl, err = ParseLevel("loud")
	assert.Error(t, err)
	assert.Equal(t, LogLevelInfo, lvl)
}

func TestClientLogger_ErrorWithStack(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.ErrorWithStack(errors.New("boom"), "submitter panicked", "file", "a.pdf")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "a.pdf", entry["file"])
	assert.Contains(t, entry["stack_trace"], "goroutine")
}
