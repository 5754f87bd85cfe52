package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/laevatin/pipesh/core"
	"github.com/laevatin/pipesh/core/config"
	"github.com/spf13/cobra"
)

var cfgPath string

// defaultConfigDir is ~/.pipesh, or "" when the home directory is
// unknown.
func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pipesh")
}

// loadConfig reads the config directory, falling back to the embedded
// defaults when none exists. The shell must come up without init.
func loadConfig() (*config.Configuration, error) {
	dir := cfgPath
	if dir == "" {
		dir = defaultConfigDir()
	}
	if dir == "" {
		return config.Default(), nil
	}

	configuration, err := config.Load(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return configuration, err
}

// setupAppLog routes diagnostics into the config dir's app log so they
// don't interleave with the terminal session.
func setupAppLog(configuration *config.Configuration) {
	if fd, err := configuration.OpenAppLog(); err == nil {
		log.SetOutput(fd)
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pipesh",
	Short: "A small job-control shell.",
	Long: `pipesh reads command lines, runs builtins in-process and launches
everything else as pipelines of external programs connected by pipes,
each pipeline owning the terminal as a proper foreground job.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}
		setupAppLog(configuration)

		sh, err := core.NewShell(configuration)
		if err != nil {
			return err
		}

		status := sh.Run()
		sh.Close()
		if status != 0 {
			os.Exit(status)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory (default ~/.pipesh)")
}
