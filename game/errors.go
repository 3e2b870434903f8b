// SPDX-License-Identifier: GPL-2.0-or-later

package game

import (
	"os"

	"github.com/pkg/errors"
)

// ErrFileNotFound is wrapped by every error caused by a missing file.
var ErrFileNotFound = errors.New("file not found")

func notFound(path string) error {
	return errors.Wrap(ErrFileNotFound, path)
}

// IsNotFound reports whether err was caused by a missing file.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound) || errors.Is(err, os.ErrNotExist)
}

// RecoverableError is a failure the user may fix, for example by clearing
// an invalid game path. Query asks whether Recover should run.
type RecoverableError struct {
	Err     error
	Query   string
	Recover func() error
}

func (e *RecoverableError) Error() string {
	return e.Err.Error()
}

func (e *RecoverableError) Unwrap() error {
	return e.Err
}

// AsRecoverable returns the recoverable error in the chain of err.
func AsRecoverable(err error) (*RecoverableError, bool) {
	var r *RecoverableError
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
