package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/fleshka4/polyswap/internal/config"
)

func TestNew(t *testing.T) {
	t.Parallel()

	l, err := New(config.Log{Level: "debug", Format: "json"})
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, l.GetLevel())
	require.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	l, err = New(config.Log{Level: "warn"})
	require.NoError(t, err)
	require.IsType(t, &logrus.TextFormatter{}, l.Formatter)

	_, err = New(config.Log{Level: "loud"})
	require.Error(t, err)

	_, err = New(config.Log{Level: "info", Format: "xml"})
	require.ErrorContains(t, err, "unknown log format")
}
