//go:build darwin

package pxid

import (
	"golang.org/x/sys/unix"
)

// platformHostID returns the kernel boot UUID, stable for the lifetime of
// the installation.
func platformHostID() (string, error) {
	return unix.Sysctl("kern.uuid")
}
