package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Disabled(t *testing.T) {
	l, err := New(false, true)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_Levels(t *testing.T) {
	l, err := New(true, false)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(true, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
