package cmd

import (
	"log"

	"github.com/laevatin/pipesh/core/config"
	"github.com/spf13/cobra"
)

// initCmd seeds the shell's configuration directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the shell configuration directory.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)

		dir := cfgPath
		if dir == "" {
			dir = defaultConfigDir()
		}

		_, err := config.Initialize(dir, logger)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
