package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpener struct {
	files map[string][]byte
}

func (f *fakeOpener) Open(dataPath string) (io.ReadCloser, error) {
	content, ok := f.files[dataPath]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", dataPath)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadQualityVariant(t *testing.T) {
	opener := &fakeOpener{files: map[string][]byte{
		"maps/wood_diff_0.png": encodePNG(t, 4, 4),
	}}
	loader := NewLoader(opener, "0", nil)

	img, err := loader.Load("maps/wood_diff.psd")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())

	// Decoded images are cached.
	again, err := loader.Load("maps/wood_diff.psd")
	require.NoError(t, err)
	assert.Same(t, img, again)
}

func TestLoadLiteralFallback(t *testing.T) {
	opener := &fakeOpener{files: map[string][]byte{
		"maps/wood_diff.png": encodePNG(t, 2, 2),
	}}
	loader := NewLoader(opener, "0", nil)

	img, err := loader.Load("maps/wood_diff.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
}

func TestLoadFailures(t *testing.T) {
	loader := NewLoader(&fakeOpener{files: map[string][]byte{}}, "0", nil)

	_, err := loader.Load("")
	assert.Error(t, err)

	_, err = loader.Load("maps/missing.psd")
	assert.Error(t, err)
}

func TestLoadUndecodableContent(t *testing.T) {
	opener := &fakeOpener{files: map[string][]byte{
		"maps/junk_0.png": []byte("not an image"),
		"maps/junk.psd":   []byte("also not an image"),
	}}
	loader := NewLoader(opener, "0", nil)

	_, err := loader.Load("maps/junk.psd")
	assert.Error(t, err)
}

func TestToNRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(0, 0, color.Gray{Y: 200})

	out := toNRGBA(gray)
	assert.Equal(t, uint8(200), out.Pix[0])
	assert.Equal(t, uint8(255), out.Pix[3])

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.SetRGBA(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	out = toNRGBA(rgba)
	assert.Equal(t, uint8(10), out.Pix[0])
	assert.Equal(t, uint8(30), out.Pix[2])
}

func TestThumbnail(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 512, 256))

	thumb := Thumbnail(src, 128)
	assert.Equal(t, image.Rect(0, 0, 128, 64), thumb.Bounds())

	small := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	assert.Same(t, small, Thumbnail(small, 128))

	tall := image.NewNRGBA(image.Rect(0, 0, 100, 400))
	assert.Equal(t, image.Rect(0, 0, 32, 128), Thumbnail(tall, 128).Bounds())
}

func TestWriteWebP(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))

	var buf bytes.Buffer
	require.NoError(t, WriteWebP(&buf, img))
	assert.NotEmpty(t, buf.Bytes())
	// RIFF container header.
	assert.Equal(t, "RIFF", string(buf.Bytes()[:4]))
}
