// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestMapToZapFields_SortedKeys(t *testing.T) {
	fields := mapToZapFields(map[string]interface{}{
		"zeta":  1,
		"alpha": "a",
		"mid":   true,
	})

	require.Len(t, fields, 3)
	assert.Equal(t, "alpha", fields[0].Key)
	assert.Equal(t, "mid", fields[1].Key)
	assert.Equal(t, "zeta", fields[2].Key)
	assert.Nil(t, mapToZapFields(nil))
}

func TestObservedLogger_CarriesContextFields(t *testing.T) {
	log, logs := NewObserved(zapcore.DebugLevel)

	scoped := log.WithFields(map[string]interface{}{"taskType": "rank-festival-matches"})
	scoped.WithError(errors.New("boom")).Warn("cache unavailable", map[string]interface{}{"key": "match:result:x"})

	entries := logs.FilterMessage("cache unavailable").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "rank-festival-matches", ctx["taskType"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, "match:result:x", ctx["key"])
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestObservedLogger_RespectsLevel(t *testing.T) {
	log, logs := NewObserved(zapcore.InfoLevel)
	log.Debug("hidden", nil)
	log.Info("shown", nil)

	assert.Equal(t, 0, logs.FilterMessage("hidden").Len())
	assert.Equal(t, 1, logs.FilterMessage("shown").Len())
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	l, err := New("verbose", "json", "stderr")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
