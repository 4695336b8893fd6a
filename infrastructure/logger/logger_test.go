package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerAddsCallerFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(log.InfoLevel)

	GetLogger().WithField("keyword", "cats").Info("search started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "search started", entry["msg"])
	assert.Equal(t, "cats", entry["keyword"])
	assert.Contains(t, entry["function"], "TestGetLoggerAddsCallerFields")
	assert.Contains(t, entry["file"], "logger_test.go")
	assert.NotNil(t, entry["line"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, parseLevel(""))
	assert.Equal(t, log.WarnLevel, parseLevel("warn"))
	assert.Equal(t, log.DebugLevel, parseLevel("loud"))
}
