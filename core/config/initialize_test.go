package config

import (
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeFs(t *testing.T) {
	fsys := afero.NewMemMapFs()
	logger := log.New(io.Discard, "", 0)

	cfg, err := InitializeFs(fsys, "/home/user/.pipesh", logger)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	t.Run("Load", func(t *testing.T) {
		loaded, err := LoadFs(fsys, "/home/user/.pipesh")
		require.NoError(t, err)
		assert.Equal(t, cfg.Prompt, loaded.Prompt)
	})

	t.Run("OpenAppLog", func(t *testing.T) {
		fd, err := cfg.OpenAppLog()
		require.NoError(t, err)
		fd.Close()
	})

	t.Run("rerun keeps existing config", func(t *testing.T) {
		custom := []byte("prompt: 'custom> '\ndefault_path: /bin\n")
		path := filepath.Join("/home/user/.pipesh", ConfigurationName)
		require.NoError(t, afero.WriteFile(fsys, path, custom, 0600))

		again, err := InitializeFs(fsys, "/home/user/.pipesh", logger)
		require.NoError(t, err)
		assert.Equal(t, "custom> ", again.Prompt)
	})
}
