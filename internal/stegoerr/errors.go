// Package stegoerr is the shared error taxonomy for the steganography
// engine. Every core and collaborator package returns errors that are
// errors.Is-comparable to one of the sentinels below, so callers never
// need to string-match an error message to decide how to react.
package stegoerr

import "errors"

// Sentinel errors for the engine's failure taxonomy.
var (
	// ErrCapacity is returned when a payload does not fit in the carrier body.
	ErrCapacity = errors.New("payload exceeds carrier capacity")

	// ErrFormat is returned for a malformed container: bad magic, version,
	// end marker, CRC mismatch, or an invalid per-file name.
	ErrFormat = errors.New("malformed container")

	// ErrAuth is returned for any crypto failure: wrong password, tag
	// mismatch, truncated blob, or unknown cipher version. The message is
	// deliberately uniform across all of these causes.
	ErrAuth = errors.New("authentication failed")

	// ErrKeyRequired is returned when an encrypted container is found but
	// no password was supplied and no PasswordProvider could produce one.
	ErrKeyRequired = errors.New("password required")

	// ErrCancelled is returned when a PasswordProvider requests
	// cancellation or a caller's context is cancelled mid-operation.
	ErrCancelled = errors.New("operation cancelled")

	// ErrNoData is returned by decode when a stream holds no detectable
	// hidden payload. The Analyzer reports that case as HasData=false
	// instead of returning an error.
	ErrNoData = errors.New("no hidden data detected")

	// ErrLossyTarget is returned by a Transcoder when asked to re-encode a
	// steganographic PCM stream to a lossy target format directly; the
	// core's round-trip contract forbids it.
	ErrLossyTarget = errors.New("refusing to re-encode steganographic PCM to a lossy format")
)

// OpError wraps a sentinel with the component and a short operation tag,
// for callers that want to log structured context without losing
// errors.Is comparability against the sentinel.
type OpError struct {
	Component string // e.g. "container", "cryptenv", "lsb"
	Op        string // e.g. "parse", "seal", "embed"
	Err       error  // one of the sentinels above
}

func (e *OpError) Error() string {
	return e.Component + " " + e.Op + ": " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Wrap builds an OpError, keeping Is/As comparisons against Err working.
func Wrap(component, op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Component: component, Op: op, Err: err}
}
