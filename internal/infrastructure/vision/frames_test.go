package vision

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"material-counter/internal/domain/port"
)

func TestDirFrameSource_ReadsInOrder(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "b.png"), 4, 2)
	writeTestPNG(t, filepath.Join(dir, "a.png"), 2, 2)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	src, err := NewDirFrameSource(dir)
	require.NoError(t, err)
	defer src.Close()
	ctx := context.Background()

	first, err := src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, first.Bounds().Dx())

	second, err := src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, second.Bounds().Dx())

	_, err = src.Next(ctx)
	require.ErrorIs(t, err, port.ErrEndOfStream)
}

func TestPNGFrameSink_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	sink, err := NewPNGFrameSink(dir)
	require.NoError(t, err)

	require.NoError(t, sink.Write(7, image.NewGray(image.Rect(0, 0, 2, 2))))
	_, err = os.Stat(filepath.Join(dir, "frame_000007.png"))
	require.NoError(t, err)
}

func TestIsImagePath(t *testing.T) {
	require.True(t, IsImagePath("a.JPG"))
	require.True(t, IsImagePath("a.bmp"))
	require.False(t, IsImagePath("a.mp4"))
}
