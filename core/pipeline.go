package core

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/fatih/color"
	"github.com/laevatin/pipesh/core/shell"
)

// Exit statuses for stages that never reach a program image, matching the
// values conventional shells report.
const (
	statusRedirectFailed = 1
	statusNotExecutable  = 126
	statusNotFound       = 127
)

// Runner launches pipelines as foreground jobs. Stdin and Stdout are the
// shell's own streams, inherited by any stage no pipe or redirect
// overrides; they must be real descriptors so children can share them.
type Runner struct {
	State  *ShellState
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// FallbackPath is consulted when PATH is absent from the
	// environment.
	FallbackPath string
}

// NewRunner builds a Runner over the process's standard streams.
func NewRunner(state *ShellState, fallbackPath string) *Runner {
	return &Runner{
		State:        state,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		FallbackPath: fallbackPath,
	}
}

// stage tracks one launched, or stillborn, pipeline command.
type stage struct {
	cmd    *exec.Cmd // nil when the launch failed
	status int       // the stage's status when cmd is nil
	abort  bool      // resource failure: stop launching later stages
}

// Run executes p and returns the exit status of its last stage. By the
// time it returns every started process has been reaped and every pipe
// descriptor the parent held is closed.
func (r *Runner) Run(p shell.Pipeline) int {
	if len(p) == 0 {
		return 0
	}

	var (
		stages   = make([]stage, 0, len(p))
		prevRead *os.File // read end feeding the next stage
		pgid     int
		reclaim  = func() {}
	)

	for i, spec := range p {
		var curRead, curWrite *os.File
		if i < len(p)-1 {
			var err error
			curRead, curWrite, err = os.Pipe()
			if err != nil {
				r.errorf("pipe: %v", err)
				break // reap whatever already started
			}
		}

		st := r.startStage(spec, prevRead, curWrite, pgid)
		stages = append(stages, st)

		if st.cmd != nil && pgid == 0 {
			// First live stage leads the pipeline's process group;
			// hand it the terminal before the shell blocks.
			pgid = st.cmd.Process.Pid
			reclaim = r.State.Foreground(pgid)
		}

		// The children hold their own copies of these ends now.
		// Closing the parent's is what lets EOF travel down the
		// chain once a writer exits.
		if prevRead != nil {
			prevRead.Close()
		}
		if curWrite != nil {
			curWrite.Close()
		}
		prevRead = curRead

		if st.abort {
			break
		}
	}

	if prevRead != nil {
		// Only reachable when the launch loop stopped early.
		prevRead.Close()
	}

	status := r.reap(stages)
	reclaim()
	return status
}

// startStage wires one command's standard streams and launches it.
// pipeIn and pipeOut are nil for the first and last stages respectively;
// file redirects override both. A failure here is fatal to this stage
// only: the rest of the pipeline still runs.
func (r *Runner) startStage(spec shell.Command, pipeIn, pipeOut *os.File, pgid int) stage {
	stdin := r.Stdin
	if pipeIn != nil {
		stdin = pipeIn
	}
	stdout := r.Stdout
	if pipeOut != nil {
		stdout = pipeOut
	}

	if spec.InputPath != "" {
		f, err := os.Open(spec.InputPath)
		if err != nil {
			r.errorf("%s: %s.", spec.InputPath, osError(err))
			return stage{status: statusRedirectFailed}
		}
		defer f.Close()
		stdin = f
	}
	if spec.OutputPath != "" {
		f, err := os.OpenFile(spec.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			r.errorf("%s: %s.", spec.OutputPath, osError(err))
			return stage{status: statusRedirectFailed}
		}
		defer f.Close()
		stdout = f
	}

	attr := &syscall.SysProcAttr{Setpgid: true}
	if pgid != 0 {
		attr.Pgid = pgid
	}

	var started *exec.Cmd
	name := spec.Argv[0]
	err := resolveAndStart(name, r.searchPath(), func(path string) error {
		cmd := &exec.Cmd{
			Path:        path,
			Args:        spec.Argv,
			Stdin:       stdin,
			Stdout:      stdout,
			Stderr:      r.Stderr,
			SysProcAttr: attr,
		}
		if err := cmd.Start(); err != nil {
			return err
		}
		started = cmd
		return nil
	})

	switch {
	case err == nil:
		return stage{cmd: started}
	case errors.Is(err, ErrNotFound):
		r.errorf("%s: command not found.", name)
		return stage{status: statusNotFound}
	default:
		r.errorf("%s: %s.", name, osError(err))
		return stage{status: statusNotExecutable, abort: isResourceErr(err)}
	}
}

// isResourceErr reports whether err means process creation itself failed
// rather than the resolved program being unrunnable.
func isResourceErr(err error) bool {
	for _, errno := range []syscall.Errno{syscall.EAGAIN, syscall.ENOMEM, syscall.EMFILE, syscall.ENFILE} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// reap waits for every launched stage exactly once, in stage order, and
// returns the last stage's exit status. Earlier stages finish in whatever
// order the kernel schedules them; only the last one's status matters.
func (r *Runner) reap(stages []stage) int {
	status := 0
	for _, st := range stages {
		if st.cmd == nil {
			status = st.status
			continue
		}
		status = exitStatus(st.cmd.Wait())
	}
	return status
}

func (r *Runner) searchPath() string {
	if path := os.Getenv(EnvPath); path != "" {
		return path
	}
	return r.FallbackPath
}

func (r *Runner) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if r.State != nil && r.State.Interactive {
		color.New(color.FgRed).Fprintln(r.Stderr, msg)
		return
	}
	fmt.Fprintln(r.Stderr, msg)
}

// exitStatus converts a Wait error into a shell status code.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if ws.Signaled() {
				return 128 + int(ws.Signal())
			}
			return ws.ExitStatus()
		}
	}
	return 1
}

// osError unwraps err down to the bare OS error text, the way the shell
// reports redirect and chdir failures.
func osError(err error) string {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno.Error()
	}
	return err.Error()
}
