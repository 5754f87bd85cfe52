package core

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/laevatin/pipesh/core/token"
	getopt "github.com/pborman/getopt/v2"
)

// AllBuiltins holds every registered shell builtin by name. Builtins run
// in-process and never fork.
var AllBuiltins = make(map[string]ShellBuiltin)

// builtinDocs holds the one-line description help prints per builtin.
var builtinDocs = make(map[string]string)

type ShellBuiltin interface {
	Main(s *Shell, args token.Tokens) int
}

type ShellBuiltinFunc func(s *Shell, args token.Tokens) int

func (f ShellBuiltinFunc) Main(s *Shell, args token.Tokens) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

func registerBuiltin(name, doc string, fn ShellBuiltinFunc) {
	AllBuiltins[name] = fn
	builtinDocs[name] = doc
}

// Help prints the builtin table, one "name - doc" line each.
func Help(s *Shell, args token.Tokens) int {
	names := make([]string, 0, len(builtinDocs))
	for name := range builtinDocs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(s.stdout, "%s - %s\n", name, builtinDocs[name])
	}
	return 0
}

// Exit ends the shell, with the optional numeric argument as its status.
func Exit(s *Shell, args token.Tokens) int {
	status := 0
	if arg, ok := args.Get(1); ok {
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(s.stderr, "exit: %s: numeric argument required\n", arg)
			n = 2
		}
		status = n
	}
	s.Exit(status)
	return status
}

// Cd changes the working directory; with no argument it goes home. On
// failure the directory is left unchanged and the OS error is reported.
func Cd(s *Shell, args token.Tokens) int {
	dir, ok := args.Get(1)
	if !ok {
		dir = os.Getenv(EnvHome)
	}
	if _, extra := args.Get(2); extra {
		fmt.Fprintf(s.stderr, "cd: too many arguments\n")
		return 1
	}

	if err := os.Chdir(dir); err != nil {
		fmt.Fprintf(s.stderr, "%s: %s.\n", dir, osError(err))
		return 1
	}
	return 0
}

// Pwd prints the current working directory.
func Pwd(s *Shell, args token.Tokens) int {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(s.stderr, "error: %s.\n", osError(err))
		return 1
	}
	fmt.Fprintln(s.stdout, wd)
	return 0
}

// History lists the lines entered this session; -c clears them.
func History(s *Shell, args token.Tokens) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args.Strings(), nil); err != nil || *helpOpt {
		if err != nil {
			fmt.Fprintln(s.stderr, err)
		}
		fmt.Fprintln(s.stderr, "Display or manipulate the history list.")
		fmt.Fprintln(s.stderr)
		fmt.Fprintln(s.stderr, "Options:")
		opts.PrintOptions(s.stderr)
		return 1
	}

	if *clear {
		if s.Readline != nil {
			s.Readline.Operation.ResetHistory()
		}
		s.history = nil
		return 0
	}

	for i, line := range s.history {
		fmt.Fprintf(s.stdout, "% 5d  %s\n", i+1, line)
	}
	return 0
}

func init() {
	registerBuiltin("?", "show this help menu", Help)
	registerBuiltin("help", "show this help menu", Help)
	registerBuiltin("exit", "exit the command shell", Exit)
	registerBuiltin("cd", "changes the working directory to the given directory", Cd)
	registerBuiltin("pwd", "prints the current working directory to standard output", Pwd)
	registerBuiltin("history", "display or clear this session's command history", History)
}
