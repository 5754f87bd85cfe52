package config

import (
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes a fresh configuration directory at dir. Existing
// files are left alone so re-running init is safe.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	return InitializeFs(afero.NewOsFs(), dir, logger)
}

// InitializeFs is Initialize over an explicit filesystem.
func InitializeFs(fsys afero.Fs, dir string, logger *log.Logger) (*Configuration, error) {
	if err := fsys.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch _, err := fsys.Stat(configPath); {
	case err == nil:
		logger.Printf("%s already exists, keeping it", configPath)
	default:
		if err := afero.WriteFile(fsys, configPath, defaultConfigData, 0600); err != nil {
			return nil, err
		}
		logger.Printf("wrote %s", configPath)
	}

	return LoadFs(fsys, dir)
}
