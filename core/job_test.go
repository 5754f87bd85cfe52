package core

import (
	"os"
	"runtime"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestPty(t *testing.T) (ptmx, tty *os.File) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("terminal tests target linux")
	}
	m, s, err := pty.Open()
	if err != nil {
		t.Skipf("no pseudo-terminal available: %v", err)
	}
	t.Cleanup(func() {
		m.Close()
		s.Close()
	})
	return m, s
}

func TestNewShellStateOnTerminal(t *testing.T) {
	_, tty := openTestPty(t)

	state := NewShellState(tty)

	assert.True(t, state.Interactive)
	assert.Equal(t, int(tty.Fd()), state.TerminalFd)
	assert.NotZero(t, state.ShellPgid)
	require.NotNil(t, state.savedTermios, "terminal mode must be saved for restore at exit")

	// Round-trips without touching a nil mode.
	state.RestoreTerminal()
}

func TestNewShellStateNonInteractive(t *testing.T) {
	devNull, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer devNull.Close()

	state := NewShellState(devNull)

	assert.False(t, state.Interactive)
	assert.Nil(t, state.savedTermios)

	// Both are no-ops off a terminal.
	reclaim := state.Foreground(state.ShellPgid)
	reclaim()
	state.RestoreTerminal()
}

func TestForegroundFailureIsNonFatal(t *testing.T) {
	// The test process is not this pty's session leader, so the
	// transfer cannot succeed; it must degrade to a logged no-op.
	_, tty := openTestPty(t)

	state := NewShellState(tty)
	reclaim := state.Foreground(state.ShellPgid)
	reclaim()
}

func TestIgnoreJobSignalsStops(t *testing.T) {
	state := &ShellState{}

	stop := state.IgnoreJobSignals()
	stop()
}
