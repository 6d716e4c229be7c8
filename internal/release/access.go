//go:build !windows

package release

import "golang.org/x/sys/unix"

// NeedsElevation returns true if dir cannot be written by the current user,
// which means a binary could only be placed there with elevated privileges.
func NeedsElevation(dir string) bool {
	return unix.Access(dir, unix.W_OK) != nil
}
