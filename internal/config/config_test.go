package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.70, c.SimilarityThreshold)
	assert.Equal(t, []string{"utf-8", "latin1", "windows-1252"}, c.Encodings)
	assert.Equal(t, "json", c.StoreBackend)
	assert.Equal(t, filepath.Join(home, ".timestudy", "sessions"), c.SessionsDir)
	assert.Empty(t, c.ReworkColumn)
	assert.Len(t, c.GroupPalette, 6)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TIMESTUDY_STORE_BACKEND", "sqlite")

	path := filepath.Join(home, "cfg.yaml")
	body := "activity_column: Task\ntime_column: Duration\nrework_column: Rework\nsimilarity_threshold: 0.8\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Task", c.ActivityColumn)
	assert.Equal(t, "Duration", c.TimeColumn)
	assert.Equal(t, "Rework", c.ReworkColumn)
	assert.Equal(t, 0.8, c.SimilarityThreshold)
	assert.Equal(t, "sqlite", c.StoreBackend)
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("similarity_threshold: 1.5\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	require.NoError(t, err)
	c.TimeColumn = "Seconds"
	c.GroupPalette = []string{"#000000"}
	require.NoError(t, Save(c, ""))

	again, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Seconds", again.TimeColumn)
	assert.Equal(t, []string{"#000000"}, again.GroupPalette)
}

func TestSaveRejectsBadColor(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	c, err := Load("")
	require.NoError(t, err)
	c.GroupPalette = []string{"blue"}
	assert.Error(t, Save(c, ""))
}
