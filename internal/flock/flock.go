// Package flock serializes writers of a file through an advisory lock on a
// sibling ".lock" file.
package flock

import (
	"fmt"
	"os"
)

// With runs fn while holding an exclusive lock on path+".lock".
func With(path string, fn func() error) error {
	lockPath := path + ".lock"
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("creating lock file: %w", err)
	}
	defer func() { _ = f.Close() }()
	defer func() { _ = os.Remove(lockPath) }()

	if err := Lock(f.Fd()); err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer func() { _ = Unlock(f.Fd()) }()

	return fn()
}
