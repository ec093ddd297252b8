//go:build !windows

package flock

import "syscall"

// Lock blocks until it holds an exclusive lock on fd.
func Lock(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_EX)
}

func Unlock(fd uintptr) error {
	return syscall.Flock(int(fd), syscall.LOCK_UN)
}
