package pxid

import (
	"crypto/md5"
	"os"
	"testing"
)

// TestResolveMachineID tests that identity resolution succeeds and is stable
func TestResolveMachineID(t *testing.T) {
	first, err := resolveMachineID()
	if err != nil {
		t.Fatalf("resolveMachineID() error = %v", err)
	}

	second, err := resolveMachineID()
	if err != nil {
		t.Fatalf("resolveMachineID() error = %v", err)
	}
	if first != second {
		t.Errorf("resolveMachineID() not stable: %x vs %x", first, second)
	}
}

// TestResolveMachineIDMatchesDigest tests the derivation: MD5 of the host
// identifier, truncated to 3 bytes
func TestResolveMachineIDMatchesDigest(t *testing.T) {
	hostID, err := platformHostID()
	if err != nil || hostID == "" {
		hostID, err = os.Hostname()
		if err != nil || hostID == "" {
			t.Skip("no host identifier available on this platform")
		}
	}

	sum := md5.Sum([]byte(hostID))
	var want [3]byte
	copy(want[:], sum[:3])

	got, err := resolveMachineID()
	if err != nil {
		t.Fatalf("resolveMachineID() error = %v", err)
	}
	if got != want {
		t.Errorf("resolveMachineID() = %x, want %x (md5 of %q)", got, want, hostID)
	}
}

// TestResolveProcessID tests the pid truncation to 16 bits
func TestResolveProcessID(t *testing.T) {
	pid, err := resolveProcessID()
	if err != nil {
		t.Fatalf("resolveProcessID() error = %v", err)
	}
	if want := uint16(os.Getpid()); pid != want {
		t.Errorf("resolveProcessID() = %d, want %d", pid, want)
	}
}

// TestFactoryIdentity tests that a default factory carries the resolved
// platform identity
func TestFactoryIdentity(t *testing.T) {
	machineID, err := resolveMachineID()
	if err != nil {
		t.Fatalf("resolveMachineID() error = %v", err)
	}

	factory, err := New("host")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := factory.MachineID(); got != machineID {
		t.Errorf("MachineID() = %x, want %x", got, machineID)
	}
	if got := factory.ProcessID(); got != uint16(os.Getpid()) {
		t.Errorf("ProcessID() = %d, want %d", got, uint16(os.Getpid()))
	}

	// Two factories on one host agree on identity, so their IDs interleave
	// correctly when sorted.
	other, err := New("peer")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if factory.MachineID() != other.MachineID() {
		t.Errorf("factories disagree on machine id: %x vs %x",
			factory.MachineID(), other.MachineID())
	}
}
