package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"prod", "production", "dev", "", "nop"} {
		l, err := New(mode)
		require.NoError(t, err, "mode %q", mode)
		require.NotNil(t, l.SugaredLogger)
	}
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewWithCore(core).With("component", "analysis")

	l.Info("analysis complete", "score", 72)
	l.Warn("cache unavailable")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "analysis complete", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "analysis", ctx["component"])
	assert.EqualValues(t, 72, ctx["score"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Error("ignored", "k", "v")
	l.Sync()
}
