// Package pxid - machineid.go resolves the identity baked into every ID:
// the 3-byte machine id and the 16-bit process id. Resolution happens once
// per Factory construction; generation never queries the platform again.

package pxid

import (
	"crypto/md5"
	"errors"
	"os"
)

// Identity errors surfaced by Factory construction.
var (
	// ErrMachineIDUnavailable is returned when neither a platform host
	// identifier nor the hostname can be obtained.
	ErrMachineIDUnavailable = errors.New("no host identifier could be obtained")

	// ErrProcessIDUnavailable is returned when the platform exposes no
	// process identifier. Supported Go targets always have one; the error
	// exists for ports where they do not.
	ErrProcessIDUnavailable = errors.New("no process identifier could be obtained")

	// ErrInvalidMachineID is returned when a Config machine id override
	// is not exactly 3 bytes.
	ErrInvalidMachineID = errors.New("machine id override must be exactly 3 bytes")
)

// errNoHostID is the platform lookup's "nothing found" result; the caller
// falls back to the hostname before giving up.
var errNoHostID = errors.New("host identifier not found")

// resolveMachineID derives the 3-byte machine id: a platform-stable host
// identifier, digested with MD5, truncated to the first 3 bytes.
//
// MD5 is not used for security here; it only spreads the host identifier
// evenly over 3 bytes, and keeps the derived machine id identical for
// other implementations hashing the same host identifier.
func resolveMachineID() ([3]byte, error) {
	var m [3]byte

	hostID, err := platformHostID()
	if err != nil || hostID == "" {
		// Containerized hosts often lack a machine id store; the hostname
		// still distinguishes machines in practice.
		hostID, err = os.Hostname()
		if err != nil {
			return m, newIdentityError("machine id", ErrMachineIDUnavailable, err)
		}
		if hostID == "" {
			return m, newIdentityError("machine id", ErrMachineIDUnavailable, nil)
		}
	}

	sum := md5.Sum([]byte(hostID))
	copy(m[:], sum[:3])
	return m, nil
}

// resolveProcessID returns the low 16 bits of the OS process id.
func resolveProcessID() (uint16, error) {
	pid := os.Getpid()
	if pid < 0 {
		return 0, newIdentityError("process id", ErrProcessIDUnavailable, nil)
	}
	return uint16(pid), nil
}
