package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T, level LogLevel) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevLevel, prevColor := CurrentLevel, NoColor
	SetOutput(&buf)
	CurrentLevel = level
	NoColor = true
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		CurrentLevel, NoColor = prevLevel, prevColor
	})
	return &buf
}

func TestLogLevelFiltering(t *testing.T) {
	buf := captureLog(t, LevelWarn)

	Debug("hidden %d", 1)
	Info("hidden %d", 2)
	Warn("shown %d", 3)
	Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown 3")
	assert.Contains(t, out, "[ERROR] shown 4")
}

func TestRaylibLogCallback(t *testing.T) {
	buf := captureLog(t, LevelWarn)

	RaylibLogCallback(3, "TEXTURE: loaded")
	assert.Empty(t, buf.String())

	RaylibLogCallback(4, "SHADER: failed")
	assert.Contains(t, buf.String(), "[WARN] [RAYLIB] SHADER: failed")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, LevelInfo, ParseLogLevel("info"))
	assert.Equal(t, LevelError, ParseLogLevel("error"))
	assert.Equal(t, LevelWarn, ParseLogLevel("loud"))
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestPointerTrackerStep(t *testing.T) {
	var p PointerTracker
	dx, dy := p.Step(100, 50)
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	dx, dy = p.Step(110, 45)
	assert.Equal(t, float32(10), dx)
	assert.Equal(t, float32(-5), dy)
}

func TestFindTextureFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "textures", "wood"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "textures", "planks.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "textures", "wood", "oak.tex"), []byte("tex"), 0o644))

	prev := AssetsRoot
	AssetsRoot = root
	t.Cleanup(func() { AssetsRoot = prev })

	assert.Equal(t, filepath.Join(root, "textures", "planks.png"), FindTextureFile("textures/planks.tex"))
	assert.Equal(t, filepath.Join(root, "textures", "wood", "oak.tex"), FindTextureFile("oak"))
	assert.Empty(t, FindTextureFile("missing"))
	assert.Empty(t, FindTextureFile(""))
}
