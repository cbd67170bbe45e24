package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel(" ERROR "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""), "nivel vacío cae en info")
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}

func TestNew_CamposDelServicio(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Service: "produccion-api", Storage: "memory", Out: &buf})

	l.Info().Msg("descartado por nivel")
	assert.Zero(t, buf.Len())

	l.Warn().Str("order_id", "ord-1").Msg("reserva rechazada")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "produccion-api", line["service"])
	assert.Equal(t, "memory", line["storage"])
	assert.Equal(t, "ord-1", line["order_id"])
	assert.Equal(t, "warn", line["level"])
	assert.Contains(t, line, "time")
}

func TestNop_NoEscribe(t *testing.T) {
	l := Nop()
	assert.Equal(t, zerolog.Disabled, l.Zerolog().GetLevel())
	l.Info().Str("order_id", "x").Msg("ignorado")
}
