package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "slips/ab/one.png", bytes.NewReader([]byte("slip"))))

	rc, err := s.Get(ctx, "slips/ab/one.png")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "slip", string(data))

	require.NoError(t, s.Delete(ctx, "slips/ab/one.png"))
	require.NoError(t, s.Delete(ctx, "slips/ab/one.png"))

	_, err = s.Get(ctx, "slips/ab/one.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, p := range []string{"../outside", "/etc/passwd", "", "a/../../b"} {
		assert.Error(t, s.Save(ctx, p, bytes.NewReader(nil)), p)
	}
}

func TestThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 800, 400))
	for x := 0; x < 800; x++ {
		src.Set(x, x%400, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	thumb, err := Thumbnail(&buf, 200, 200)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(thumb)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 100, cfg.Height)

	_, err = Thumbnail(bytes.NewReader([]byte("not an image")), 200, 200)
	assert.Error(t, err)
}
