//go:build linux

package pxid

import (
	"os"
	"strings"
)

// platformHostID reads the machine id the OS assigned at install time.
// Checked locations in order; first non-empty hit wins.
func platformHostID() (string, error) {
	for _, path := range []string{
		"/etc/machine-id",
		"/var/lib/dbus/machine-id",
		"/sys/class/dmi/id/product_uuid",
		"/proc/sys/kernel/random/boot_id",
	} {
		b, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if id := strings.TrimSpace(string(b)); id != "" {
			return id, nil
		}
	}
	return "", errNoHostID
}
