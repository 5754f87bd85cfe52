package cmd

import (
	"os"
	"strings"

	"github.com/laevatin/pipesh/core"
	"github.com/spf13/cobra"
)

// execCmd runs a single command line non-interactively and exits with
// the pipeline's status.
var execCmd = &cobra.Command{
	Use:   "exec -- COMMAND...",
	Short: "Run one command line and exit with its status.",
	Args:  cobra.MinimumNArgs(1),
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

		status := sh.Interpret(joinCommandLine(args))
		sh.Close()
		if status != 0 {
			os.Exit(status)
		}
		return nil
	},
}

// joinCommandLine rebuilds a command line from argv so the shell's
// tokenizer recovers the same word boundaries. Words that survive
// re-tokenization unchanged are left bare; everything else is
// single-quoted.
func joinCommandLine(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quoteWord(arg)
	}
	return strings.Join(quoted, " ")
}

func quoteWord(word string) string {
	if word != "" && !strings.ContainsAny(word, " \t\n|<>'\"\\") {
		return word
	}
	return "'" + strings.ReplaceAll(word, "'", `'\''`) + "'"
}

func init() {
	rootCmd.AddCommand(execCmd)
}
