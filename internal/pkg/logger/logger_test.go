package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopvn/storefront/internal/config"
)

func TestNewJSON(t *testing.T) {
	cfg := &config.Config{Logging: config.LoggingConfig{Level: "warn", Format: "json"}}
	log := New(cfg)

	var buf bytes.Buffer
	log.SetOutput(&buf)

	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	log.WithField("component", "catalog").Info("dropped")
	assert.Empty(t, buf.String())

	log.WithField("component", "catalog").Warn("kept")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "catalog", line["component"])
	assert.Equal(t, "kept", line["msg"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	cfg := &config.Config{Logging: config.LoggingConfig{Level: "loud", Format: "text"}}
	log := New(cfg)

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	_, isText := log.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}
