package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
	HistoryName       = "history"
	AppLogName        = "app.log"

	DefaultPrompt = `pipesh:\w\$ `
)

type Configuration struct {
	configFs  afero.Fs
	configDir string

	// Prompt is the readline prompt; \u, \h, \w and \$ expand at
	// display time.
	Prompt string `json:"prompt"`

	// HistoryFile persists readline history between sessions. Relative
	// paths are resolved against the configuration directory; empty
	// disables persistence.
	HistoryFile string `json:"history_file"`

	// DefaultPath is the search path used when PATH is unset.
	DefaultPath string `json:"default_path" validate:"required"`

	// AnnounceStatus prints "status: N" after each foreground pipeline.
	AnnounceStatus bool `json:"announce_status"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		c.configFs = afero.NewOsFs()
	}
	return c.configFs
}

// HistoryPath resolves the history file location, or "" when history
// persistence is disabled or there is no configuration directory to
// resolve against.
func (c *Configuration) HistoryPath() string {
	switch {
	case c.HistoryFile == "":
		return ""
	case filepath.IsAbs(c.HistoryFile):
		return c.HistoryFile
	case c.configDir == "":
		return ""
	default:
		return filepath.Join(c.configDir, c.HistoryFile)
	}
}

// OpenAppLog opens the application log in an append only state.
func (c *Configuration) OpenAppLog() (afero.File, error) {
	if c.configDir == "" {
		return nil, os.ErrNotExist
	}
	return c.fs().OpenFile(filepath.Join(c.configDir, AppLogName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// Default returns the embedded default configuration, used when no
// configuration directory exists.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
