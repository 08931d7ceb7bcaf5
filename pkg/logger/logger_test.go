package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ventas/pkg/logger"
)

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "debug")

	sub := l.Component("caja")
	sub.Info().Str("cash_register_id", "r1").Msg("caja abierta")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "caja", entry["component"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "caja abierta", entry["message"])
}

func TestNivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, "verbose")
	l.Debug().Msg("no debe salir")
	assert.Zero(t, buf.Len())
}
