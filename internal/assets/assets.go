// Package assets resolves engine data paths against the extracted game
// files and an optional mod directory. The mod directory wins when it has
// the file, matching how the game itself layers mods over game data.
package assets

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Resolver locates files referenced by data path, e.g.
// "data/graphics/buildings/mill.cfg".
type Resolver struct {
	gameDir string
	modDir  string
	logger  *slog.Logger
}

// NewResolver returns a resolver over the extracted game directory and an
// optional mod directory (empty to disable the mod layer).
func NewResolver(gameDir, modDir string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{gameDir: gameDir, modDir: modDir, logger: logger}
}

// Resolve maps a data path to an absolute path. The mod directory is
// preferred when the file exists there, the game directory is the
// fallback even when the file is missing so error messages name the
// expected location.
func (r *Resolver) Resolve(dataPath string) string {
	gamePath := filepath.Join(r.gameDir, filepath.FromSlash(dataPath))
	if r.modDir == "" {
		return gamePath
	}
	modPath := filepath.Join(r.modDir, filepath.FromSlash(dataPath))
	if _, err := os.Stat(modPath); err == nil {
		return modPath
	}
	return gamePath
}

// ToDataPath maps an absolute path back into data-path form relative to
// either root, forward-slashed.
func (r *Resolver) ToDataPath(absPath string) (string, error) {
	for _, root := range []string{r.modDir, r.gameDir} {
		if root == "" {
			continue
		}
		rel, err := filepath.Rel(root, absPath)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		return filepath.ToSlash(rel), nil
	}
	return "", fmt.Errorf("assets: %s is outside the game and mod directories", absPath)
}

// Open opens the file behind a data path. It satisfies the mapper's file
// opener interface.
func (r *Resolver) Open(dataPath string) (io.ReadCloser, error) {
	full := r.Resolve(dataPath)
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("assets: open %s: %w", dataPath, err)
	}
	r.logger.Debug("opened data file", "path", dataPath, "resolved", full)
	return f, nil
}
