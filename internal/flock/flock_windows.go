//go:build windows

package flock

// Lock is a no-op on Windows; the lock file itself is the only guard.
func Lock(fd uintptr) error {
	return nil
}

func Unlock(fd uintptr) error {
	return nil
}
