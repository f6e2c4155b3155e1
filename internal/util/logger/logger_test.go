package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOutput_ExistingLogger(t *testing.T) {
	log := Logger("test/existing")

	buf := &bytes.Buffer{}
	SetOutput(buf)

	log.Warn("after switch", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "after switch")
	assert.Contains(t, out, "key=value")
	assert.Contains(t, out, "subsystem=test/existing")
}

func TestLogger_Cached(t *testing.T) {
	assert.Same(t, Logger("test/cached"), Logger("test/cached"))
}

func TestSetLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)

	log := Logger("test/level")
	SetLevel("test/level", slog.LevelError)
	log.Warn("hidden")
	assert.Empty(t, buf.String())

	SetLevel("test/level", slog.LevelDebug)
	log.With("k", 1).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestParseLevelConfig(t *testing.T) {
	cfg := &Config{DefaultLevel: slog.LevelInfo, SubsystemLevels: map[string]slog.Level{}}
	parseLevelConfig(cfg, "core/eventbus=debug, core/guard=warn ,error,bogus=nope")

	assert.Equal(t, slog.LevelError, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelDebug, cfg.LevelForSubsystem("core/eventbus"))
	assert.Equal(t, slog.LevelWarn, cfg.LevelForSubsystem("core/guard"))
	assert.Equal(t, slog.LevelError, cfg.LevelForSubsystem("cmd"))
	_, ok := cfg.SubsystemLevels["bogus"]
	assert.False(t, ok)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "core/metrics=error,debug")
	t.Setenv(EnvFormat, "json")
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg := ConfigFromEnv()
	require.NotNil(t, cfg)
	assert.Equal(t, slog.LevelDebug, cfg.DefaultLevel)
	assert.Equal(t, slog.LevelError, cfg.LevelForSubsystem("core/metrics"))
	assert.Equal(t, FormatJSON, cfg.Format)
}

func TestApply(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	buf := &bytes.Buffer{}
	SetOutput(buf)
	log := Logger("test/apply")
	SetLevel("test/apply", slog.LevelInfo)

	Apply("test/apply=error", "")
	log.Warn("dropped")
	assert.Empty(t, buf.String())
	assert.Equal(t, slog.LevelError, ConfigFromEnv().LevelForSubsystem("test/apply"))
}

func TestApply_FormatSwitchesExistingLogger(t *testing.T) {
	t.Setenv(EnvFormat, "")
	ResetConfig()
	t.Cleanup(ResetConfig)

	buf := &bytes.Buffer{}
	SetOutput(buf)
	log := Logger("test/format").With("peer", "alice")

	Apply("info", "json")
	log.Warn("as json", "key", "value")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "test/format", rec["subsystem"])
	assert.Equal(t, "alice", rec["peer"])
	assert.Equal(t, "warn", rec["level"])
	assert.Contains(t, rec, "ts")

	buf.Reset()
	Apply("info", "text")
	log.Warn("as text")
	assert.Contains(t, buf.String(), "subsystem=test/format")
}

func TestApply_EnvFormatWins(t *testing.T) {
	t.Setenv(EnvFormat, "text")
	ResetConfig()
	t.Cleanup(ResetConfig)

	buf := &bytes.Buffer{}
	SetOutput(buf)
	log := Logger("test/envformat")

	Apply("info", "json")
	log.Warn("still text")
	assert.Contains(t, buf.String(), "subsystem=test/envformat")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestApply_EnvLevelWins(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	ResetConfig()
	t.Cleanup(ResetConfig)

	log := Logger("test/envlevel")
	require.True(t, log.Enabled(context.Background(), slog.LevelDebug))

	Apply("info", "text")
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))
	assert.Equal(t, slog.LevelDebug, ConfigFromEnv().DefaultLevel)

	// levelSpec 中的子系统级别仍然生效，环境变量里的同名项覆盖它
	t.Setenv(EnvLevel, "test/envlevel=warn,debug")
	Apply("test/envlevel=error,core/guard=error", "")
	assert.False(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, log.Enabled(context.Background(), slog.LevelWarn))
	assert.Equal(t, slog.LevelError, ConfigFromEnv().LevelForSubsystem("core/guard"))
}
