package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultPrompt, cfg.Prompt)
	assert.Equal(t, HistoryName, cfg.HistoryFile)
	assert.NotEmpty(t, cfg.DefaultPath)
	assert.True(t, cfg.AnnounceStatus)
}

func TestLoadFs(t *testing.T) {
	fsys := afero.NewMemMapFs()
	dir := "/home/user/.pipesh"
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(dir, ConfigurationName),
		[]byte("prompt: '> '\n"), 0600))

	cfg, err := LoadFs(fsys, dir)
	require.NoError(t, err)

	// User values overlay the embedded defaults.
	assert.Equal(t, "> ", cfg.Prompt)
	assert.Equal(t, Default().DefaultPath, cfg.DefaultPath)
	assert.True(t, cfg.AnnounceStatus)
	assert.Equal(t, filepath.Join(dir, HistoryName), cfg.HistoryPath())
}

func TestLoadFsAcceptsConfigFilePath(t *testing.T) {
	fsys := afero.NewMemMapFs()
	dir := "/etc/pipesh"
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(dir, ConfigurationName),
		defaultConfigData, 0600))

	cfg, err := LoadFs(fsys, filepath.Join(dir, ConfigurationName))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, HistoryName), cfg.HistoryPath())
}

func TestLoadFsRejectsUnknownKeys(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/cfg/config.yaml",
		[]byte("no_such_option: true\n"), 0600))

	_, err := LoadFs(fsys, "/cfg")
	assert.Error(t, err)
}

func TestLoadFsMissing(t *testing.T) {
	_, err := LoadFs(afero.NewMemMapFs(), "/nowhere")
	assert.Error(t, err)
}

func TestValidateRequiresDefaultPath(t *testing.T) {
	cfg := Default()
	cfg.DefaultPath = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_path")
}

func TestHistoryPath(t *testing.T) {
	cases := []struct {
		name     string
		cfg      Configuration
		expected string
	}{
		{"disabled", Configuration{configDir: "/d"}, ""},
		{"relative", Configuration{configDir: "/d", HistoryFile: "history"}, "/d/history"},
		{"absolute", Configuration{HistoryFile: "/var/hist"}, "/var/hist"},
		{"relative without config dir", Configuration{HistoryFile: "history"}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.cfg.HistoryPath())
		})
	}
}
