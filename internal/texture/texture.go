// Package texture loads the game's texture files for preview purposes.
// Stored texture paths reference the authoring format (.psd); on disk the
// extracted files exist as quality-suffixed .png variants, sometimes as
// .tga. Decoded images are cached per loader.
package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"io"
	"log/slog"
	"sync"

	_ "github.com/ftrvxmtrx/tga"

	"github.com/anno-mods/annocfg/pkg/material"
)

// Opener resolves a data path to readable file content, the same
// collaborator the mapper uses.
type Opener interface {
	Open(dataPath string) (io.ReadCloser, error)
}

// Loader decodes textures referenced by stored data paths.
type Loader struct {
	opener  Opener
	quality string
	logger  *slog.Logger

	mu    sync.Mutex
	cache map[string]*image.NRGBA
}

// NewLoader returns a loader reading through opener at the given quality
// level ("0" is the highest).
func NewLoader(opener Opener, quality string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if quality == "" {
		quality = "0"
	}
	return &Loader{
		opener:  opener,
		quality: quality,
		logger:  logger,
		cache:   make(map[string]*image.NRGBA),
	}
}

// Load decodes the texture stored under texPath, trying the
// quality-suffixed variant first and the literal path second.
func (l *Loader) Load(texPath string) (*image.NRGBA, error) {
	if texPath == "" {
		return nil, fmt.Errorf("texture: empty path")
	}
	l.mu.Lock()
	if img, ok := l.cache[texPath]; ok {
		l.mu.Unlock()
		return img, nil
	}
	l.mu.Unlock()

	candidates := []string{
		material.WithQualitySuffix(texPath, l.quality),
		texPath,
	}
	var lastErr error
	for _, candidate := range candidates {
		img, err := l.decode(candidate)
		if err != nil {
			l.logger.Debug("texture candidate not usable", "path", candidate, "error", err)
			lastErr = err
			continue
		}
		l.mu.Lock()
		l.cache[texPath] = img
		l.mu.Unlock()
		return img, nil
	}
	return nil, fmt.Errorf("texture: load %s: %w", texPath, lastErr)
}

func (l *Loader) decode(dataPath string) (*image.NRGBA, error) {
	rc, err := l.opener.Open(dataPath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", dataPath, err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any decoded image to NRGBA.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		draw.Draw(dst, b, src, b.Min, draw.Src)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.Pix[dst.PixOffset(x, y)+3] = 255
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				i := dst.PixOffset(x, y)
				dst.Pix[i] = c.R
				dst.Pix[i+1] = c.G
				dst.Pix[i+2] = c.B
				dst.Pix[i+3] = c.A
			}
		}
	}
	return dst
}
