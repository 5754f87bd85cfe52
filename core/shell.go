package core

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/laevatin/pipesh/core/config"
	"github.com/laevatin/pipesh/core/shell"
	"github.com/laevatin/pipesh/core/token"
)

const (
	EnvHome = "HOME"
	EnvPath = "PATH"
	EnvUser = "USER"
)

// Shell is the interactive loop: it reads lines, dispatches builtins and
// hands everything else to the pipeline runner.
type Shell struct {
	Config   *config.Configuration
	State    *ShellState
	Runner   *Runner
	Readline *readline.Instance

	stdout io.Writer
	stderr io.Writer

	history    []string
	lastStatus int
	exiting    bool
	exitStatus int
}

// NewShell builds a shell over the process's standard streams and
// controlling terminal.
func NewShell(cfg *config.Configuration) (*Shell, error) {
	state := NewShellState(os.Stdin)

	rlCfg := &readline.Config{
		HistoryFile: cfg.HistoryPath(),
		FuncIsTerminal: func() bool {
			return state.Interactive
		},
	}
	if err := rlCfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}

	return &Shell{
		Config:   cfg,
		State:    state,
		Runner:   NewRunner(state, cfg.DefaultPath),
		Readline: rl,
		stdout:   rl,
		stderr:   os.Stderr,
	}, nil
}

// Prompt renders the configured prompt. \u, \h and \w expand to the user,
// host and working directory; \$ is # for root and $ otherwise.
func (s *Shell) Prompt() string {
	prompt := s.Config.Prompt
	if prompt == "" {
		prompt = config.DefaultPrompt
	}

	prompt = strings.ReplaceAll(prompt, `\u`, os.Getenv(EnvUser))
	host, _ := os.Hostname()
	prompt = strings.ReplaceAll(prompt, `\h`, host)

	pwd, _ := os.Getwd()
	if home := os.Getenv(EnvHome); home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	if os.Getuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run drives the read/dispatch loop until EOF or the exit builtin and
// returns the shell's final status. Terminal modes are restored on the
// way out.
func (s *Shell) Run() int {
	if s.State.Interactive {
		stop := s.State.IgnoreJobSignals()
		defer stop()
	}
	defer s.State.RestoreTerminal()

	for {
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return s.lastStatus

		case err == readline.ErrInterrupt:
			continue // discard the partial line

		case err != nil:
			log.Printf("readline: %v", err)
			continue

		default:
			s.lastStatus = s.Interpret(line)
			if s.exiting {
				return s.exitStatus
			}
		}
	}
}

// Interpret tokenizes and runs a single command line, returning its
// status. The shell itself never fails here: every error becomes a
// message and a non-zero status.
func (s *Shell) Interpret(line string) int {
	if strings.TrimSpace(line) == "" {
		return 0
	}

	toks, err := token.Tokenize(line)
	if err != nil {
		fmt.Fprintf(s.stderr, "syntax error: %v\n", err)
		return 2
	}
	if toks.Len() == 0 {
		return 0
	}

	s.history = append(s.history, line)

	// Builtins run in-process and only as the line's first word; inside
	// a pipeline the same name resolves on PATH like any program.
	if name, _ := toks.Get(0); AllBuiltins[name] != nil {
		return AllBuiltins[name].Main(s, toks)
	}

	pipeline, err := shell.Parse(toks)
	if err != nil {
		fmt.Fprintln(s.stderr, err)
		return 2
	}
	if len(pipeline) == 0 {
		return 0
	}

	status := s.Runner.Run(pipeline)
	if s.Config.AnnounceStatus && s.State.Interactive {
		fmt.Fprintf(s.stdout, "status: %d\n", status)
	}
	return status
}

// Exit schedules shell termination with the given status once the current
// line finishes.
func (s *Shell) Exit(status int) {
	s.exiting = true
	s.exitStatus = status
}

func (s *Shell) Close() error {
	return s.Readline.Close()
}
