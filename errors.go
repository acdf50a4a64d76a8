// Package pxid - errors.go provides custom error types with rich context.
//
// Sentinel errors live next to the code that returns them (encoding.go,
// id.go, pxid.go); the types below wrap those sentinels with the input
// that triggered them, so callers can both match with errors.Is() and
// report the offending value.

package pxid

import (
	"errors"
	"fmt"
)

// ============================================================================
// Custom Error Types
// ============================================================================

// IdentityError reports a failure to resolve the process identity at
// Factory construction time.
//
// Identity resolution happens exactly once per Factory; after a successful
// construction this error can no longer occur. Callers may retry
// construction or fall back to a Config-supplied identity.
//
// Example usage:
//
//	if _, err := pxid.New("acct"); err != nil {
//	    var idErr *pxid.IdentityError
//	    if errors.As(err, &idErr) {
//	        log.Printf("cannot resolve %s: %v", idErr.Source, idErr.Cause)
//	    }
//	}
type IdentityError struct {
	// Source names the identity component that failed to resolve:
	// "machine id" or "process id".
	Source string

	// Err is the sentinel this error wraps (ErrMachineIDUnavailable or
	// ErrProcessIDUnavailable).
	Err error

	// Cause is the underlying platform error, if any.
	Cause error
}

// Error implements the error interface.
func (e *IdentityError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot resolve %s: %v", e.Source, e.Cause)
	}
	return fmt.Sprintf("cannot resolve %s", e.Source)
}

// Unwrap returns the underlying sentinel for errors.Is() compatibility.
func (e *IdentityError) Unwrap() error {
	return e.Err
}

// PrefixError reports a malformed prefix supplied to a constructor.
//
// The prefix is always the caller's input; the error is never produced by
// generation itself because Factory validates its prefix eagerly.
//
// Example usage:
//
//	if _, err := pxid.FromParts(prefix, t, machine, pid, counter); err != nil {
//	    var prefErr *pxid.PrefixError
//	    if errors.As(err, &prefErr) {
//	        log.Printf("rejected prefix %q: %s", prefErr.Prefix, prefErr.Reason)
//	    }
//	}
type PrefixError struct {
	// Prefix is the rejected prefix exactly as supplied.
	Prefix string

	// Reason is a human-readable explanation of the rejection.
	Reason string

	// Err is the sentinel this error wraps (ErrPrefixTooLong or
	// ErrInvalidPrefix).
	Err error
}

// Error implements the error interface.
func (e *PrefixError) Error() string {
	return fmt.Sprintf("invalid prefix %q: %s", e.Prefix, e.Reason)
}

// Unwrap returns the underlying sentinel for errors.Is() compatibility.
func (e *PrefixError) Unwrap() error {
	return e.Err
}

// ParseError reports a malformed ID string handed to Parse or one of the
// unmarshaling methods.
//
// The wrapped error pinpoints which rule the input broke: a codec sentinel
// (ErrInvalidLength, ErrInvalidCharacter), a *PrefixError, or
// ErrInvalidRawLength for binary input. Treat it as input validation, not
// a system fault.
//
// Example usage:
//
//	if _, err := pxid.Parse(userInput); err != nil {
//	    var parseErr *pxid.ParseError
//	    if errors.As(err, &parseErr) {
//	        http.Error(w, fmt.Sprintf("bad id %q", parseErr.Input), 400)
//	    }
//	}
type ParseError struct {
	// Input is the rejected string exactly as supplied.
	Input string

	// Err is the specific validation failure.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %v", e.Input, e.Err)
}

// Unwrap returns the underlying validation error for errors.Is()
// compatibility, so errors.Is(err, ErrInvalidCharacter) matches through
// the ParseError wrapper.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ============================================================================
// Error Helper Functions
// ============================================================================

// IsIdentityError checks if an error is or wraps an IdentityError.
//
// Example:
//
//	if _, err := pxid.New("acct"); IsIdentityError(err) {
//	    // Fall back to a Config-supplied machine id
//	}
func IsIdentityError(err error) bool {
	var identityErr *IdentityError
	return errors.As(err, &identityErr)
}

// IsPrefixError checks if an error is or wraps a PrefixError.
//
// Example:
//
//	if _, err := factory.WithPrefix(prefix); IsPrefixError(err) {
//	    // Reject the caller-supplied prefix
//	}
func IsPrefixError(err error) bool {
	var prefixErr *PrefixError
	return errors.As(err, &prefixErr)
}

// IsParseError checks if an error is or wraps a ParseError.
//
// Example:
//
//	if _, err := pxid.Parse(s); IsParseError(err) {
//	    // Malformed external input
//	}
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// GetIdentityError extracts the IdentityError from an error chain.
//
// Returns the IdentityError and true if found, nil and false otherwise.
func GetIdentityError(err error) (*IdentityError, bool) {
	var identityErr *IdentityError
	if errors.As(err, &identityErr) {
		return identityErr, true
	}
	return nil, false
}

// GetPrefixError extracts the PrefixError from an error chain.
//
// Returns the PrefixError and true if found, nil and false otherwise.
func GetPrefixError(err error) (*PrefixError, bool) {
	var prefixErr *PrefixError
	if errors.As(err, &prefixErr) {
		return prefixErr, true
	}
	return nil, false
}

// GetParseError extracts the ParseError from an error chain.
//
// Returns the ParseError and true if found, nil and false otherwise.
func GetParseError(err error) (*ParseError, bool) {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr, true
	}
	return nil, false
}

// ============================================================================
// Error Constructor Helpers
// ============================================================================

// newIdentityError creates an IdentityError for the given identity source.
func newIdentityError(source string, sentinel, cause error) *IdentityError {
	return &IdentityError{
		Source: source,
		Err:    sentinel,
		Cause:  cause,
	}
}

// newPrefixError creates a PrefixError with a consistent message shape.
func newPrefixError(prefix, reason string, sentinel error) *PrefixError {
	return &PrefixError{
		Prefix: prefix,
		Reason: reason,
		Err:    sentinel,
	}
}

// newParseError creates a ParseError wrapping the specific failure.
func newParseError(input string, err error) *ParseError {
	return &ParseError{
		Input: input,
		Err:   err,
	}
}
