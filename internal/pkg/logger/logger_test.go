package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogger_ErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "pricing", Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithRequestID(context.Background(), "req-123")
	ctx = log.WithActor(ctx, "ops")
	log.Error(ctx, "boom", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-123"`)
	assert.Contains(t, out, `"actor":"ops"`)
	assert.Contains(t, out, `"service":"pricing"`)
	assert.Contains(t, out, `"stack"`)
}

func TestLogger_WarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Level: zerolog.DebugLevel, Output: buf})
	log.Warn(context.Background(), "quiet")
	assert.NotContains(t, buf.String(), `"stack"`)

	buf.Reset()
	log = New(Options{Level: zerolog.DebugLevel, Output: buf, WarnStack: true})
	log.Warn(context.Background(), "loud")
	assert.Contains(t, buf.String(), `"stack"`)
}

func TestLogger_LevelFilters(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{Level: zerolog.WarnLevel, Output: buf})

	log.Info(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("invalid"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
}

func TestNop(t *testing.T) {
	log := Nop()
	ctx := log.WithFields(context.Background(), map[string]any{"k": "v"})
	log.Info(ctx, "discarded")
	log.Error(ctx, "discarded", nil)
}
