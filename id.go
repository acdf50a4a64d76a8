// Package pxid - id.go defines the ID value type: construction, parsing,
// field access, ordering, and every serialization surface.

package pxid

import (
	"bytes"
	"database/sql/driver"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// Dimensions of the raw binary form and its text rendering.
const (
	// RawLen is the size of the binary ID value in bytes.
	RawLen = 16

	// MaxPrefixLen is the maximum prefix length in bytes. Shorter prefixes
	// are zero-padded on the right inside the raw value.
	MaxPrefixLen = 4

	// MaxStringLen is the longest possible text form:
	// a 4-byte prefix, the separator, and the 20-character token.
	MaxStringLen = MaxPrefixLen + 1 + EncodedLen

	// Separator divides the prefix from the token in the text form.
	// It is banned inside prefixes so parsing can split on its last
	// occurrence unambiguously.
	Separator = '_'
)

// Byte offsets of the packed fields inside the raw value.
const (
	timestampOffset = MaxPrefixLen        // 4
	machineOffset   = timestampOffset + 4 // 8
	processOffset   = machineOffset + 3   // 11
	counterOffset   = processOffset + 2   // 13
)

// Identifier errors returned by constructors and parsers.
var (
	// ErrPrefixTooLong is returned when a prefix exceeds 4 bytes.
	ErrPrefixTooLong = errors.New("prefix exceeds 4 bytes")

	// ErrInvalidPrefix is returned when a prefix is not printable UTF-8
	// or contains the separator character.
	ErrInvalidPrefix = errors.New("prefix must be printable UTF-8 without the separator")

	// ErrInvalidRawLength is returned when binary input is not exactly
	// 16 bytes.
	ErrInvalidRawLength = errors.New("raw ID must be exactly 16 bytes")
)

// ID is a prefixed, time-sortable, globally unique identifier.
//
// # Structure (16 bytes)
//
//	┌──────────────┬───────────────┬─────────────┬─────────────┬─────────────┐
//	│ 4 bytes:     │ 4 bytes:      │ 3 bytes:    │ 2 bytes:    │ 3 bytes:    │
//	│ prefix       │ timestamp     │ machine id  │ process id  │ counter     │
//	│ (zero-pad)   │ (seconds, BE) │ (MD5 of     │ (pid, BE)   │ (BE, wraps) │
//	│              │               │  host id)   │             │             │
//	└──────────────┴───────────────┴─────────────┴─────────────┴─────────────┘
//
// The trailing 12 bytes are the payload; the text form encodes only those,
// as a fixed 20-character base32 token, with the prefix prepended in clear
// text: "acct_9m4e2mr0ui3e8a215n4g". An empty prefix omits the separator.
//
// The zero value is the zero ID (empty prefix, zero payload); use IsZero
// to detect it.
//
// # Ordering
//
// Compare, Before and After order by the payload bytes, so IDs sort
// chronologically (second resolution) regardless of prefix, with ties
// broken by machine id, process id, counter, and finally the prefix.
type ID [RawLen]byte

// ============================================================================
// Constructors
// ============================================================================

// FromParts assembles an ID from explicit field values.
//
// The prefix is validated (ErrPrefixTooLong, ErrInvalidPrefix); the
// timestamp is truncated to whole seconds, the counter to its low 24 bits.
// This is the assembly step behind Factory generation and is exposed for
// tests, backfills, and interop tooling.
//
// Example:
//
//	id, err := pxid.FromParts("acct", time.Now(), machineID, pid, counter)
func FromParts(prefix string, t time.Time, machineID [3]byte, processID uint16, counter uint32) (ID, error) {
	if err := validatePrefix(prefix); err != nil {
		return ID{}, err
	}
	return packParts(prefix, t, machineID, processID, counter), nil
}

// packParts packs already validated fields at their fixed offsets.
func packParts(prefix string, t time.Time, machineID [3]byte, processID uint16, counter uint32) ID {
	var id ID
	copy(id[:MaxPrefixLen], prefix)
	binary.BigEndian.PutUint32(id[timestampOffset:machineOffset], uint32(t.Unix()))
	copy(id[machineOffset:processOffset], machineID[:])
	binary.BigEndian.PutUint16(id[processOffset:counterOffset], processID)
	id[counterOffset] = byte(counter >> 16)
	id[counterOffset+1] = byte(counter >> 8)
	id[counterOffset+2] = byte(counter)
	return id
}

// FromPayload rebuilds an ID around an existing 12-byte payload.
//
// Useful for re-prefixing an ID or importing payloads minted elsewhere.
// Only the prefix is validated; any payload bytes are accepted.
func FromPayload(prefix string, payload [PayloadLen]byte) (ID, error) {
	if err := validatePrefix(prefix); err != nil {
		return ID{}, err
	}
	return pack(prefix, &payload), nil
}

// FromBytes converts a raw 16-byte value back into an ID.
//
// The input must be exactly 16 bytes (ErrInvalidRawLength) and its leading
// prefix region must hold a valid zero-padded prefix, so a corrupted blob
// cannot produce an ID whose String() output would not re-parse.
func FromBytes(b []byte) (ID, error) {
	if len(b) != RawLen {
		return ID{}, ErrInvalidRawLength
	}
	var id ID
	copy(id[:], b)
	if err := validatePrefixBytes(id); err != nil {
		return ID{}, err
	}
	return id, nil
}

// Parse converts the text form back into an ID.
//
// The input splits on the LAST separator occurrence: everything before it
// is the prefix, everything after must be a 20-character token. Input
// without a separator is a bare token with an empty prefix. A leading
// separator ("_9m4e...") is rejected: the empty prefix always omits it.
//
// All failures return a *ParseError wrapping the precise cause
// (ErrInvalidLength, ErrInvalidCharacter, ErrPrefixTooLong,
// ErrInvalidPrefix), so callers can match with errors.Is().
//
// Performance: ~60ns, zero allocations on the error-free path
//
// Example:
//
//	id, err := pxid.Parse("acct_9m4e2mr0ui3e8a215n4g")
//	if err != nil {
//	    return err
//	}
//	id.Prefix() // "acct"
func Parse(s string) (ID, error) {
	if len(s) < EncodedLen {
		return ID{}, newParseError(s, ErrInvalidLength)
	}

	prefix, token := "", s
	if i := strings.LastIndexByte(s, Separator); i >= 0 {
		prefix, token = s[:i], s[i+1:]
		if prefix == "" {
			return ID{}, newParseError(s, newPrefixError(prefix, "empty prefix must omit the separator", ErrInvalidPrefix))
		}
		if err := validatePrefix(prefix); err != nil {
			return ID{}, newParseError(s, err)
		}
	}

	payload, err := Decode(token)
	if err != nil {
		return ID{}, newParseError(s, err)
	}
	return pack(prefix, &payload), nil
}

// MustParse is like Parse but panics on invalid input.
//
// Only use this with trusted literals, typically in tests and fixtures.
//
// Example:
//
//	id := pxid.MustParse("acct_9m4e2mr0ui3e8a215n4g")
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// pack assembles an ID from an already validated prefix and a payload.
func pack(prefix string, payload *[PayloadLen]byte) ID {
	var id ID
	copy(id[:MaxPrefixLen], prefix)
	copy(id[MaxPrefixLen:], payload[:])
	return id
}

// validatePrefix enforces the prefix rules: at most 4 bytes of printable
// UTF-8 with no separator. The empty prefix is valid.
func validatePrefix(prefix string) error {
	if len(prefix) > MaxPrefixLen {
		return newPrefixError(prefix, "exceeds 4 bytes", ErrPrefixTooLong)
	}
	if !utf8.ValidString(prefix) {
		return newPrefixError(prefix, "not valid UTF-8", ErrInvalidPrefix)
	}
	for _, r := range prefix {
		if r == Separator {
			return newPrefixError(prefix, "contains the separator character", ErrInvalidPrefix)
		}
		if !unicode.IsPrint(r) {
			return newPrefixError(prefix, "contains a non-printable character", ErrInvalidPrefix)
		}
	}
	return nil
}

// validatePrefixBytes checks the leading region of a raw value: the prefix
// must be followed only by zero padding and must itself pass validatePrefix.
func validatePrefixBytes(id ID) error {
	n := 0
	for n < MaxPrefixLen && id[n] != 0 {
		n++
	}
	for i := n; i < MaxPrefixLen; i++ {
		if id[i] != 0 {
			return newPrefixError(string(id[:MaxPrefixLen]), "contains interior zero padding", ErrInvalidPrefix)
		}
	}
	return validatePrefix(string(id[:n]))
}

// ============================================================================
// Component Extraction
// ============================================================================

// Prefix returns the namespace prefix, without padding.
//
// Returns "" for IDs generated without a prefix.
func (id ID) Prefix() string {
	n := 0
	for n < MaxPrefixLen && id[n] != 0 {
		n++
	}
	return string(id[:n])
}

// Time returns the generation time with second resolution.
//
// Example:
//
//	age := time.Since(id.Time())
func (id ID) Time() time.Time {
	return time.Unix(int64(id.Timestamp()), 0)
}

// Timestamp returns the raw timestamp field: seconds since the Unix epoch.
func (id ID) Timestamp() uint32 {
	return binary.BigEndian.Uint32(id[timestampOffset:machineOffset])
}

// MachineID returns the 3-byte machine id field.
//
// All IDs generated on one host by any process carry the same machine id.
func (id ID) MachineID() [3]byte {
	var m [3]byte
	copy(m[:], id[machineOffset:processOffset])
	return m
}

// ProcessID returns the process id field (low 16 bits of the OS pid).
func (id ID) ProcessID() uint16 {
	return binary.BigEndian.Uint16(id[processOffset:counterOffset])
}

// Counter returns the 24-bit counter field.
func (id ID) Counter() uint32 {
	return uint32(id[counterOffset])<<16 | uint32(id[counterOffset+1])<<8 | uint32(id[counterOffset+2])
}

// Payload returns the 12-byte payload: everything except the prefix.
//
// This is exactly what the text token encodes, and the value that Compare
// orders by.
func (id ID) Payload() [PayloadLen]byte {
	var p [PayloadLen]byte
	copy(p[:], id[MaxPrefixLen:])
	return p
}

// Components returns the payload fields in one call.
//
// Example:
//
//	ts, machine, pid, counter := id.Components()
func (id ID) Components() (timestamp uint32, machineID [3]byte, processID uint16, counter uint32) {
	return id.Timestamp(), id.MachineID(), id.ProcessID(), id.Counter()
}

// ============================================================================
// Formatting
// ============================================================================

// String returns the canonical text form: "<prefix>_<token>", or the bare
// 20-character token when the prefix is empty.
//
// The output always re-parses to an equal ID.
//
// Performance: ~60ns, single allocation
//
// Example:
//
//	fmt.Println(id) // "acct_9m4e2mr0ui3e8a215n4g"
func (id ID) String() string {
	payload := id.Payload()
	var token [EncodedLen]byte
	encodePayload(&token, &payload)

	prefix := id.Prefix()
	if prefix == "" {
		return string(token[:])
	}

	b := make([]byte, 0, len(prefix)+1+EncodedLen)
	b = append(b, prefix...)
	b = append(b, Separator)
	b = append(b, token[:]...)
	return string(b)
}

// Token returns the 20-character token alone, without prefix or separator.
//
// Two IDs that differ only in prefix share the same token.
func (id ID) Token() string {
	return Encode(id.Payload())
}

// Bytes returns a copy of the raw 16-byte value.
//
// The inverse of FromBytes. For the text form, use String().
func (id ID) Bytes() []byte {
	b := make([]byte, RawLen)
	copy(b, id[:])
	return b
}

// ============================================================================
// Binary Marshaling
// ============================================================================

// MarshalBinary implements encoding.BinaryMarshaler.
//
// Returns the raw 16-byte value for compact storage in binary formats
// (gob, msgpack, CBOR, custom protocols).
func (id ID) MarshalBinary() ([]byte, error) {
	return id.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// Accepts exactly 16 bytes and validates the prefix region, mirroring
// FromBytes.
func (id *ID) UnmarshalBinary(data []byte) error {
	parsed, err := FromBytes(data)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ============================================================================
// JSON Marshaling
// ============================================================================

// MarshalJSON implements json.Marshaler.
//
// The ID marshals as its text form in a JSON string.
//
// Example:
//
//	type Account struct {
//	    ID pxid.ID `json:"id"`
//	}
//	// Marshals as: {"id": "acct_9m4e2mr0ui3e8a215n4g"}
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler.
//
// Accepts a JSON string in the canonical text form. JSON null leaves the
// zero ID, matching the common treatment of nullable columns.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ID{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ============================================================================
// Text Marshaling (XML, YAML, map keys, etc.)
// ============================================================================

// MarshalText implements encoding.TextMarshaler.
//
// Lets the ID serve directly as a map key in encoding/json and as a value
// in XML, YAML and TOML documents.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ============================================================================
// SQL Database Integration
// ============================================================================

// Scan implements sql.Scanner for reading from a database.
//
// Supported source types:
//   - string: the text form, from VARCHAR/TEXT columns
//   - []byte: the raw 16-byte value, or the text form from TEXT columns
//   - nil: NULL, leaves the zero ID
//
// Example:
//
//	var id pxid.ID
//	err := db.QueryRow("SELECT id FROM accounts WHERE email = ?", email).Scan(&id)
func (id *ID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*id = ID{}
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	case []byte:
		if len(v) == RawLen {
			parsed, err := FromBytes(v)
			if err != nil {
				return err
			}
			*id = parsed
			return nil
		}
		parsed, err := Parse(string(v))
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into pxid.ID", value)
	}
}

// Value implements driver.Valuer for writing to a database.
//
// Stores the text form; with the fixed token width, a CHAR(25) or
// VARCHAR(25) column fits every ID, and ORDER BY on same-prefix columns
// is chronological.
//
// Recommended schema:
//
//	CREATE TABLE accounts (id VARCHAR(25) PRIMARY KEY, ...);
func (id ID) Value() (driver.Value, error) {
	return id.String(), nil
}

// ============================================================================
// GraphQL Integration
// ============================================================================

// MarshalGQL writes the ID as a GraphQL string scalar.
//
// Together with UnmarshalGQL this satisfies the marshaler pair expected by
// gqlgen-style code generators for custom scalar types; both are thin
// adapters over String and Parse.
func (id ID) MarshalGQL(w io.Writer) {
	io.WriteString(w, strconv.Quote(id.String()))
}

// UnmarshalGQL reads the ID from a GraphQL string scalar.
func (id *ID) UnmarshalGQL(v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("pxid.ID must be a string, got %T", v)
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ============================================================================
// Comparison & Utilities
// ============================================================================

// IsZero reports whether this is the zero ID.
//
// The zero ID never comes out of a Factory (its timestamp would be 1970);
// it appears as the result of failed constructors, JSON null, and SQL NULL.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Age returns the time elapsed since the ID was generated.
func (id ID) Age() time.Duration {
	return time.Since(id.Time())
}

// Before reports whether this ID was generated before the other.
//
// Ordering is chronological across factories and prefixes, because the
// payload begins with the big-endian timestamp.
//
// Example:
//
//	if a.Before(b) {
//	    fmt.Println("a is older")
//	}
func (id ID) Before(other ID) bool {
	return id.Compare(other) < 0
}

// After reports whether this ID was generated after the other.
func (id ID) After(other ID) bool {
	return id.Compare(other) > 0
}

// Equal reports whether two IDs are exactly equal, prefix included.
//
// ID is a comparable array type, so == works too; Equal exists for
// API symmetry with Before and After.
func (id ID) Equal(other ID) bool {
	return id == other
}

// Compare returns the ordering of two IDs.
//
// Returns:
//   - -1 if id was generated before other
//   - 0 if the IDs are identical
//   - +1 if id was generated after other
//
// The payload bytes compare first (timestamp, machine id, process id,
// counter), then the prefix bytes break the remaining ties, so Compare
// returns 0 exactly when the IDs are equal.
//
// Example:
//
//	sort.Slice(ids, func(i, j int) bool { return ids[i].Before(ids[j]) })
func (id ID) Compare(other ID) int {
	if c := bytes.Compare(id[MaxPrefixLen:], other[MaxPrefixLen:]); c != 0 {
		return c
	}
	return bytes.Compare(id[:MaxPrefixLen], other[:MaxPrefixLen])
}

// ============================================================================
// Sharding Support
// ============================================================================

// Shard assigns this ID to one of numShards buckets by hashing the payload.
//
// Uses xxHash for uniform distribution regardless of how skewed the
// timestamp and counter bits are. Stable: the same ID always lands in the
// same bucket.
//
// Example:
//
//	table := fmt.Sprintf("events_%d", id.Shard(16))
func (id ID) Shard(numShards int) int {
	if numShards <= 0 {
		return 0
	}
	return int(xxhash.Sum64(id[MaxPrefixLen:]) % uint64(numShards))
}

// ShardByMachine assigns all IDs generated on one host to the same bucket.
//
// Useful for affinity routing: every ID minted on a given machine maps to
// one shard, keeping a host's writes together.
func (id ID) ShardByMachine(numShards int) int {
	if numShards <= 0 {
		return 0
	}
	m := id.MachineID()
	v := uint32(m[0])<<16 | uint32(m[1])<<8 | uint32(m[2])
	return int(v % uint32(numShards))
}

// ShardByTime returns the time bucket this ID belongs to, for time-series
// partitioning. Older buckets can be archived or dropped wholesale.
//
// Example:
//
//	day := id.ShardByTime(24 * time.Hour)
//	table := fmt.Sprintf("events_%s", time.Unix(day*86400, 0).Format("2006_01_02"))
func (id ID) ShardByTime(bucketSize time.Duration) int64 {
	if bucketSize < time.Second {
		// Timestamps have second resolution, so finer buckets degenerate
		// to one bucket per second.
		return int64(id.Timestamp())
	}
	return id.Time().Unix() / int64(bucketSize/time.Second)
}
