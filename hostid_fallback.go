//go:build !linux && !darwin && !windows

package pxid

// platformHostID has no host identifier store to consult on this platform;
// machine id resolution proceeds straight to the hostname fallback.
func platformHostID() (string, error) {
	return "", errNoHostID
}
