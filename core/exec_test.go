package core

import (
	"io/fs"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLauncher records candidate paths and fails them per the errs map;
// unlisted candidates start successfully.
type fakeLauncher struct {
	calls []string
	errs  map[string]error
}

func (f *fakeLauncher) start(path string) error {
	f.calls = append(f.calls, path)
	return f.errs[path]
}

func enoent(path string) error {
	return &fs.PathError{Op: "fork/exec", Path: path, Err: syscall.ENOENT}
}

func TestResolveAndStartDirect(t *testing.T) {
	l := &fakeLauncher{}

	err := resolveAndStart("/bin/prog", "/a:/b", l.start)

	require.NoError(t, err)
	assert.Equal(t, []string{"/bin/prog"}, l.calls, "a direct hit must not consult the search path")
}

func TestResolveAndStartWalksPathInOrder(t *testing.T) {
	l := &fakeLauncher{errs: map[string]error{
		"prog":    enoent("prog"),
		"/a/prog": enoent("/a/prog"),
	}}

	err := resolveAndStart("prog", "/a:/b", l.start)

	require.NoError(t, err)
	assert.Equal(t, []string{"prog", "/a/prog", "/b/prog"}, l.calls)
}

func TestResolveAndStartEmptyPrefixMeansDot(t *testing.T) {
	l := &fakeLauncher{errs: map[string]error{
		"prog":    enoent("prog"),
		"/a/prog": enoent("/a/prog"),
	}}

	err := resolveAndStart("prog", "/a::/b", l.start)

	require.NoError(t, err)
	// filepath.Join(".", "prog") cleans to "prog", which misses again
	// before the scan moves on.
	assert.Equal(t, []string{"prog", "/a/prog", "prog", "/b/prog"}, l.calls)
}

func TestResolveAndStartStopsOnDefinitiveError(t *testing.T) {
	denied := &fs.PathError{Op: "fork/exec", Path: "/a/prog", Err: syscall.EACCES}
	l := &fakeLauncher{errs: map[string]error{
		"prog":    enoent("prog"),
		"/a/prog": denied,
		"/b/prog": nil, // would succeed, must never be tried
	}}

	err := resolveAndStart("prog", "/a:/b", l.start)

	assert.Equal(t, denied, err)
	assert.Equal(t, []string{"prog", "/a/prog"}, l.calls, "a permission error ends the scan")
}

func TestResolveAndStartNotFound(t *testing.T) {
	l := &fakeLauncher{errs: map[string]error{
		"prog":    enoent("prog"),
		"/a/prog": enoent("/a/prog"),
		"/b/prog": enoent("/b/prog"),
	}}

	err := resolveAndStart("prog", "/a:/b", l.start)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsNotExist(t *testing.T) {
	assert.True(t, isNotExist(enoent("x")))
	assert.True(t, isNotExist(&fs.PathError{Err: syscall.ENOTDIR}))
	assert.False(t, isNotExist(&fs.PathError{Err: syscall.EACCES}))
}
