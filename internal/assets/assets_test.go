package assets

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, dataPath, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(dataPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestResolveModWins(t *testing.T) {
	gameDir := t.TempDir()
	modDir := t.TempDir()
	writeFile(t, gameDir, "data/graphics/hull.cfg", "game")
	writeFile(t, modDir, "data/graphics/hull.cfg", "mod")

	r := NewResolver(gameDir, modDir, nil)
	resolved := r.Resolve("data/graphics/hull.cfg")
	assert.Equal(t, filepath.Join(modDir, "data", "graphics", "hull.cfg"), resolved)
}

func TestResolveGameFallback(t *testing.T) {
	gameDir := t.TempDir()
	modDir := t.TempDir()
	writeFile(t, gameDir, "data/graphics/hull.cfg", "game")

	r := NewResolver(gameDir, modDir, nil)
	assert.Equal(t, filepath.Join(gameDir, "data", "graphics", "hull.cfg"),
		r.Resolve("data/graphics/hull.cfg"))

	// Missing everywhere still names the game location.
	assert.Equal(t, filepath.Join(gameDir, "data", "missing.cfg"),
		r.Resolve("data/missing.cfg"))
}

func TestResolveWithoutModDir(t *testing.T) {
	gameDir := t.TempDir()
	r := NewResolver(gameDir, "", nil)
	assert.Equal(t, filepath.Join(gameDir, "data", "x.cfg"), r.Resolve("data/x.cfg"))
}

func TestToDataPath(t *testing.T) {
	gameDir := t.TempDir()
	modDir := t.TempDir()
	r := NewResolver(gameDir, modDir, nil)

	got, err := r.ToDataPath(filepath.Join(gameDir, "data", "graphics", "hull.cfg"))
	require.NoError(t, err)
	assert.Equal(t, "data/graphics/hull.cfg", got)

	got, err = r.ToDataPath(filepath.Join(modDir, "data", "x.cfg"))
	require.NoError(t, err)
	assert.Equal(t, "data/x.cfg", got)

	_, err = r.ToDataPath(filepath.Join(t.TempDir(), "elsewhere.cfg"))
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	gameDir := t.TempDir()
	writeFile(t, gameDir, "data/hull.cfg", "<Config></Config>")

	r := NewResolver(gameDir, "", nil)
	rc, err := r.Open("data/hull.cfg")
	require.NoError(t, err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "<Config></Config>", string(content))

	_, err = r.Open("data/missing.cfg")
	assert.Error(t, err)
}
