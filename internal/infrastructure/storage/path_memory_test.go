package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathMemory_CreatesFileWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "paths.env")

	m, err := OpenPathMemory(path)
	require.NoError(t, err)
	require.Equal(t, "", m.Get(KeyModelDir))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestPathMemory_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paths.env")

	m, err := OpenPathMemory(path)
	require.NoError(t, err)
	require.NoError(t, m.Set(KeyModelDir, "/models/SR.onnx"))
	require.NoError(t, m.RememberDir(KeyImageDir, "/shots/sample.png"))

	reopened, err := OpenPathMemory(path)
	require.NoError(t, err)
	require.Equal(t, "/models/SR.onnx", reopened.Get(KeyModelDir))
	require.Equal(t, "/shots", reopened.Get(KeyImageDir))
	require.Equal(t, "", reopened.Get(KeyVideoDir))
}

func TestPathMemory_RememberDirKeepsDirectory(t *testing.T) {
	root := t.TempDir()
	frames := filepath.Join(root, "frames")
	require.NoError(t, os.Mkdir(frames, 0o755))

	m, err := OpenPathMemory(filepath.Join(root, "paths.env"))
	require.NoError(t, err)

	require.NoError(t, m.RememberDir(KeyVideoDir, frames))
	require.Equal(t, frames, m.Get(KeyVideoDir))

	require.NoError(t, m.RememberDir(KeyVideoDir, filepath.Join(frames, "clip.mp4")))
	require.Equal(t, frames, m.Get(KeyVideoDir))
}

func TestPathMemory_RememberModel(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "paths.env")

	m, err := OpenPathMemory(path)
	require.NoError(t, err)
	require.NoError(t, m.RememberModel(filepath.Join(root, "models", "SR.onnx")))

	reopened, err := OpenPathMemory(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "models", "SR.onnx"), reopened.Get(KeyModelPath))
	require.Equal(t, filepath.Join(root, "models"), reopened.Get(KeyModelDir))
}
