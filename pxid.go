// Package pxid provides prefixed, time-sortable, globally unique identifiers
// generated without central coordination.
//
// # Overview
//
// A pxid carries a short human-readable namespace prefix in front of an
// xid-style binary payload, rendered as a fixed-width text token:
//
//	acct_9m4e2mr0ui3e8a215n4g
//
// IDs are:
//   - Sortable by generation time (second resolution), even as strings
//   - Collision resistant across machines and processes with no coordinator
//   - Fixed width: 16 bytes raw, 20 token characters plus the prefix
//   - Cheap: one clock read and one atomic increment per ID
//
// # ID Structure (16 bytes)
//
//	┌──────────────┬───────────────┬─────────────┬─────────────┬─────────────┐
//	│ 4 bytes:     │ 4 bytes:      │ 3 bytes:    │ 2 bytes:    │ 3 bytes:    │
//	│ prefix       │ timestamp     │ machine id  │ process id  │ counter     │
//	└──────────────┴───────────────┴─────────────┴─────────────┴─────────────┘
//
// The timestamp, machine id, process id and counter form the 12-byte
// payload encoded by the token; the prefix travels in clear text.
//
// # Generation
//
// A Factory resolves the machine id (hashed host identifier) and process id
// once at construction, seeds a 24-bit counter from crypto/rand, and then
// every Generate call reads the clock and bumps the counter atomically.
// Within one second a Factory can mint 2^24 distinct IDs; across seconds
// the timestamp separates them; across processes and hosts the identity
// fields do.
//
// # Production Features
//
//   - Eager validation: prefix and identity problems surface at
//     construction, never during generation
//   - Lock-free hot path: a single atomic add, no mutex
//   - Embedded Metrics: atomic counters for observability
//   - Batch generation amortizing the clock read
//   - Text, JSON, binary, SQL and GraphQL marshaling on the ID type
//
// # Usage
//
//	// Reusable factory (recommended)
//	factory, err := pxid.New("acct")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	id := factory.Generate()
//	fmt.Println(id) // acct_9m4e2mr0ui3e8a215n4g
//
//	// One-off convenience via the package-level default factory
//	id, err := pxid.Generate("sess")
//
//	// Parsing untrusted input
//	id, err := pxid.Parse("acct_9m4e2mr0ui3e8a215n4g")
package pxid

import (
	"crypto/rand"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// counterMask keeps the low 24 bits, the width of the packed counter field.
const counterMask = 1<<24 - 1

// Config holds construction options for a Factory.
//
// The zero value of every field except Prefix means "resolve from the
// platform", so Config{Prefix: "acct"} behaves exactly like New("acct").
type Config struct {
	// Prefix is the namespace tag for generated IDs: at most 4 bytes of
	// printable UTF-8 without the separator. Empty generates bare tokens.
	Prefix string

	// MachineID overrides platform machine id resolution when set.
	// Must be exactly 3 bytes. Useful for fleet-assigned identity and
	// for tests that need deterministic IDs.
	MachineID []byte

	// ProcessID overrides the OS process id when non-zero.
	ProcessID uint16

	// Clock supplies the current time; nil means time.Now.
	// Generated IDs truncate it to whole seconds.
	Clock func() time.Time
}

// DefaultConfig returns a Config that resolves everything from the
// platform and tags IDs with the given prefix.
func DefaultConfig(prefix string) Config {
	return Config{Prefix: prefix}
}

// Validate checks the configuration without resolving any identity.
//
// Returns a *PrefixError for a malformed prefix and ErrInvalidMachineID
// for an override of the wrong size.
func (c *Config) Validate() error {
	if err := validatePrefix(c.Prefix); err != nil {
		return err
	}
	if c.MachineID != nil && len(c.MachineID) != 3 {
		return ErrInvalidMachineID
	}
	return nil
}

// Metrics holds runtime counters for monitoring and observability.
//
// All counters increase monotonically and are read atomically; use
// GetMetrics() for a consistent snapshot.
type Metrics struct {
	Generated    uint64 // Total IDs generated by this Factory
	CounterWraps uint64 // Times the 24-bit counter window rolled over
}

// Factory generates IDs with a fixed prefix and cached identity.
//
// # Thread Safety
//
// A Factory is safe for concurrent use. The identity fields are written
// once before the constructor returns; the only mutable generation state
// is an atomic counter, so concurrent Generate calls never contend on a
// lock and never produce equal IDs within one counter window.
//
// # Lifecycle
//
// Construction resolves identity and validates the prefix; both can fail.
// After that, Generate and GenerateAt cannot fail, and WithPrefix can fail
// only on the caller-supplied prefix.
type Factory struct {
	prefix    string
	machineID [3]byte
	processID uint16
	clock     func() time.Time

	// counter is the only mutable generation state, randomly seeded so
	// sibling processes on one host never start in lockstep.
	counter atomic.Uint32

	// Metrics counters using atomic operations for lock-free reads.
	generated    atomic.Uint64
	counterWraps atomic.Uint64
}

// New creates a Factory that tags every generated ID with prefix.
//
// The prefix is validated eagerly (at most 4 bytes, printable UTF-8, no
// separator) and the machine and process identity are resolved here, so
// later Generate calls cannot fail.
//
// Example:
//
//	factory, err := pxid.New("acct")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	id := factory.Generate()
//
// Returns:
//   - *Factory: the initialized factory
//   - error: a *PrefixError or *IdentityError describing what failed
func New(prefix string) (*Factory, error) {
	return NewWithConfig(DefaultConfig(prefix))
}

// NewWithoutPrefix creates a Factory that generates bare 20-character
// tokens. Individual calls can still attach a prefix via WithPrefix.
func NewWithoutPrefix() (*Factory, error) {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a Factory from an explicit configuration.
//
// Identity fields left at their zero value are resolved from the platform:
// the machine id from the host identifier (hashed to 3 bytes), the process
// id from os.Getpid(). The counter always starts at a random value drawn
// from crypto/rand.
//
// Example:
//
//	cfg := pxid.DefaultConfig("evnt")
//	cfg.MachineID = []byte{0x60, 0xf4, 0x86} // fleet-assigned
//	factory, err := pxid.NewWithConfig(cfg)
func NewWithConfig(cfg Config) (*Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &Factory{
		prefix: cfg.Prefix,
		clock:  cfg.Clock,
	}
	if f.clock == nil {
		f.clock = time.Now
	}

	if cfg.MachineID != nil {
		copy(f.machineID[:], cfg.MachineID)
	} else {
		machineID, err := resolveMachineID()
		if err != nil {
			return nil, err
		}
		f.machineID = machineID
	}

	if cfg.ProcessID != 0 {
		f.processID = cfg.ProcessID
	} else {
		pid, err := resolveProcessID()
		if err != nil {
			return nil, err
		}
		f.processID = pid
	}

	f.counter.Store(counterSeed())
	return f, nil
}

// Generate mints a new ID with the Factory's prefix.
//
// Cannot fail: identity and prefix were validated at construction and the
// clock read is treated as infallible.
//
// Performance: ~100ns per call, lock-free, zero allocations
// Thread-safe: yes, single atomic increment
//
// Example:
//
//	id := factory.Generate()
//	fmt.Println(id) // acct_9m4e2mr0ui3e8a215n4g
func (f *Factory) Generate() ID {
	return f.generate(f.prefix, f.clock())
}

// GenerateAt mints an ID carrying the given time instead of the current
// clock reading. The machine id, process id and counter advance exactly
// as in Generate.
//
// Intended for backfills and tests; IDs minted "in the past" sort among
// their contemporaries.
func (f *Factory) GenerateAt(t time.Time) ID {
	return f.generate(f.prefix, t)
}

// WithPrefix mints an ID with a one-call prefix override, leaving the
// Factory's own prefix untouched.
//
// The override is validated per call; this is the only generation path
// that can fail, and only on the caller-supplied prefix.
//
// Example:
//
//	id, err := factory.WithPrefix("sess")
func (f *Factory) WithPrefix(prefix string) (ID, error) {
	if err := validatePrefix(prefix); err != nil {
		return ID{}, err
	}
	return f.generate(prefix, f.clock()), nil
}

// MustWithPrefix is like WithPrefix but panics on an invalid prefix.
//
// Use with literal prefixes known to be valid.
func (f *Factory) MustWithPrefix(prefix string) ID {
	id, err := f.WithPrefix(prefix)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateBatch mints count IDs in one call, reading the clock once.
//
// All IDs in the batch share one timestamp and carry consecutive counter
// values, so they are distinct and order by generation. A non-positive
// count returns an empty slice.
//
// Performance: ~40ns per ID in batch (single clock read amortized)
//
// Example:
//
//	ids := factory.GenerateBatch(1000)
func (f *Factory) GenerateBatch(count int) []ID {
	if count <= 0 {
		return []ID{}
	}

	ids := make([]ID, 0, count)
	t := f.clock()
	for i := 0; i < count; i++ {
		ids = append(ids, packParts(f.prefix, t, f.machineID, f.processID, f.nextCounter()))
	}

	f.generated.Add(uint64(count))
	return ids
}

// generate is the shared single-ID path behind Generate, GenerateAt and
// WithPrefix. The prefix must already be validated.
func (f *Factory) generate(prefix string, t time.Time) ID {
	id := packParts(prefix, t, f.machineID, f.processID, f.nextCounter())
	f.generated.Add(1)
	return id
}

// nextCounter advances the shared counter and records when the packed
// 24-bit window rolls over to zero. Wraparound is silent: the timestamp
// and identity fields keep concurrent windows apart.
func (f *Factory) nextCounter() uint32 {
	c := f.counter.Add(1)
	if c&counterMask == 0 {
		f.counterWraps.Add(1)
	}
	return c
}

// counterSeed draws a random 24-bit counter starting point.
func counterSeed() uint32 {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Errorf("pxid: cannot seed counter: %w", err))
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// Prefix returns the prefix this Factory stamps on generated IDs.
func (f *Factory) Prefix() string {
	return f.prefix
}

// MachineID returns the resolved 3-byte machine id.
func (f *Factory) MachineID() [3]byte {
	return f.machineID
}

// ProcessID returns the resolved 16-bit process id.
func (f *Factory) ProcessID() uint16 {
	return f.processID
}

// GetMetrics returns a snapshot of the Factory's counters.
//
// Example:
//
//	m := factory.GetMetrics()
//	fmt.Printf("generated %d ids (%d counter wraps)\n", m.Generated, m.CounterWraps)
func (f *Factory) GetMetrics() Metrics {
	return Metrics{
		Generated:    f.generated.Load(),
		CounterWraps: f.counterWraps.Load(),
	}
}

// ResetMetrics resets all counters to zero.
//
// Primarily useful in tests; production metrics should stay monotonic for
// rate calculations.
func (f *Factory) ResetMetrics() {
	f.generated.Store(0)
	f.counterWraps.Store(0)
}

// ============================================================================
// Default Factory
// ============================================================================

var (
	defaultFactory     *Factory
	defaultFactoryOnce sync.Once
	defaultFactoryErr  error
)

// initDefaultFactory initializes the package-level factory without a
// prefix. Called exactly once via sync.Once; any error is cached.
func initDefaultFactory() {
	defaultFactory, defaultFactoryErr = NewWithoutPrefix()
}

// Generate mints an ID with the given prefix using the package-level
// default factory, resolving identity on first use.
//
// The simplest way to get an ID without managing a Factory. Applications
// generating many IDs should hold their own Factory per prefix.
//
// Example:
//
//	id, err := pxid.Generate("acct")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Generate(prefix string) (ID, error) {
	defaultFactoryOnce.Do(initDefaultFactory)
	if defaultFactoryErr != nil {
		return ID{}, defaultFactoryErr
	}
	return defaultFactory.WithPrefix(prefix)
}

// MustGenerate is like Generate but panics when identity resolution or the
// prefix fails.
//
// Example:
//
//	id := pxid.MustGenerate("acct")
func MustGenerate(prefix string) ID {
	id, err := Generate(prefix)
	if err != nil {
		panic(err)
	}
	return id
}

// GetDefaultMetrics returns metrics from the package-level default
// factory, initializing it on first use.
func GetDefaultMetrics() (Metrics, error) {
	defaultFactoryOnce.Do(initDefaultFactory)
	if defaultFactoryErr != nil {
		return Metrics{}, defaultFactoryErr
	}
	return defaultFactory.GetMetrics(), nil
}
