package core

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// ShellState holds the process-wide terminal and process-group identity.
// It is built once at startup and read by every pipeline; pipelines never
// mutate the shell's own process group.
type ShellState struct {
	// Interactive is true when the shell's input is a terminal.
	Interactive bool
	// TerminalFd is the controlling-terminal descriptor used for
	// foreground-group transfer.
	TerminalFd int
	// ShellPgid is the shell's own process group, reinstated as the
	// terminal's foreground group after every pipeline.
	ShellPgid int

	savedTermios *unix.Termios
}

// NewShellState probes tty for interactivity and, when it is a terminal,
// saves its mode so RestoreTerminal can put it back at shell exit.
func NewShellState(tty *os.File) *ShellState {
	s := &ShellState{
		TerminalFd:  int(tty.Fd()),
		ShellPgid:   unix.Getpgrp(),
		Interactive: isatty.IsTerminal(tty.Fd()),
	}

	if s.Interactive {
		tio, err := unix.IoctlGetTermios(s.TerminalFd, unix.TCGETS)
		if err != nil {
			log.Printf("save terminal mode: %v", err)
		} else {
			s.savedTermios = tio
		}
	}

	return s
}

// RestoreTerminal puts the saved terminal mode back. Called once at shell
// shutdown.
func (s *ShellState) RestoreTerminal() {
	if s.savedTermios == nil {
		return
	}
	if err := unix.IoctlSetTermios(s.TerminalFd, unix.TCSETSW, s.savedTermios); err != nil {
		log.Printf("restore terminal mode: %v", err)
	}
}

// Foreground hands the controlling terminal to pgid and returns the
// function that reclaims it for the shell once the pipeline is reaped.
// Transfer failure is not fatal to the pipeline; the job simply runs
// without foreground semantics.
func (s *ShellState) Foreground(pgid int) (reclaim func()) {
	if !s.Interactive {
		return func() {}
	}

	// Changing the foreground group from the controller side raises
	// SIGTTOU; route it to a channel nobody reads for the duration so
	// the shell keeps running.
	ttou := make(chan os.Signal, 1)
	signal.Notify(ttou, syscall.SIGTTOU)

	if err := unix.IoctlSetPointerInt(s.TerminalFd, unix.TIOCSPGRP, pgid); err != nil {
		log.Printf("foreground transfer to pgid %d: %v", pgid, err)
	}

	return func() {
		if err := unix.IoctlSetPointerInt(s.TerminalFd, unix.TIOCSPGRP, s.ShellPgid); err != nil {
			log.Printf("foreground reclaim: %v", err)
		}
		signal.Stop(ttou)
	}
}

// IgnoreJobSignals keeps terminal-generated signals from terminating the
// shell itself. Handled signals are reset to their default dispositions
// when a child execs, so launched programs still die on ctrl-C.
func (s *ShellState) IgnoreJobSignals() (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGCONT)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
