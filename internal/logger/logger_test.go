package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewBuildsForKnownEncodings(t *testing.T) {
	for _, encoding := range []string{"json", "console"} {
		l, err := New(Config{Level: "debug", Encoding: encoding})
		require.NoError(t, err, "encoding %s", encoding)
		assert.NotNil(t, l)
	}
}

func TestNewFallsBackOnBadInput(t *testing.T) {
	// Неизвестный уровень и кодировка не валят запуск сервиса.
	l, err := New(Config{Level: "loudest", Encoding: "yaml"})
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel), "после отката должен действовать уровень info")
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
