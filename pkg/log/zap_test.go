package log

import (
	"testing"

	klog "github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Log(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	helper := klog.NewHelper(klog.With(logger, "module", "data"))
	helper.Infof("category %d appended", 3)
	helper.Warnw("msg", "lock slow", "wait_ms", 120)

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "category 3 appended", entries[0].Message)
	assert.Equal(t, "data", entries[0].ContextMap()["module"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "lock slow", entries[1].Message)
	assert.EqualValues(t, 120, entries[1].ContextMap()["wait_ms"])
}

func TestZapLogger_LevelFilter(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := NewZapLogger(zap.New(core))

	require.NoError(t, logger.Log(klog.LevelDebug, "msg", "dropped"))
	require.NoError(t, logger.Log(klog.LevelError, "msg", "kept", "odd"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "KEYVALS UNPAIRED", entries[0].ContextMap()["odd"])
}

func TestNewZap(t *testing.T) {
	l, err := NewZap(Config{Level: "not-a-level", Format: "json", ServiceName: "product-service"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
