package core

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"syscall"
)

// ErrNotFound is the error resulting if a path search failed to find an
// executable file.
var ErrNotFound = exec.ErrNotFound

// launchFunc attempts to start a process image at path. A nil return
// means the process is live and the search is over.
type launchFunc func(path string) error

// resolveAndStart launches name by trying it directly and then, if the
// direct attempt failed because the file does not exist, retrying under
// each prefix of the colon-separated search path in order.
//
// A candidate that fails for any reason other than "does not exist" stops
// the scan and surfaces that error: a permission failure on a resolved
// path is a definitive answer, not a miss. ErrNotFound is returned only
// when every candidate was a miss.
func resolveAndStart(name, searchPath string, start launchFunc) error {
	err := start(name)
	if err == nil || !isNotExist(err) {
		return err
	}

	for _, dir := range filepath.SplitList(searchPath) {
		if dir == "" {
			// Unix shell semantics: path element "" means ".".
			dir = "."
		}
		err := start(filepath.Join(dir, name))
		if err == nil {
			return nil
		}
		if !isNotExist(err) {
			return err
		}
	}

	return ErrNotFound
}

// isNotExist reports whether err means the candidate path cannot name an
// executable file at all, as opposed to naming one that failed to start.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
