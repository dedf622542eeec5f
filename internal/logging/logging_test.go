package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesFile(t *testing.T) {
	dir := t.TempDir()
	closeLog, err := Setup(dir, "debug")
	require.NoError(t, err)
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Info().Str("image", "sample.png").Msg("Image loaded")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `"image":"sample.png"`))
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestSetup_InvalidLevel(t *testing.T) {
	closeLog, err := Setup("", "loud")
	require.NoError(t, err)
	require.NoError(t, closeLog())
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
