package shrine

import (
	"errors"
	"fmt"
)

// Sentinel errors. Matching kinds are compared with errors.Is; the
// structured types below carry the offending value and are matched with
// errors.As, following the same split the teacher's errors.go used
// between plain sentinels and detail-carrying structs.
var (
	ErrRead               = errors.New("invalid shrine file")
	ErrUnauthorized       = errors.New("passphrase unknown for shrine")
	ErrForbidden          = errors.New("passphrase rejected by shrine")
	ErrInvalidTransition  = errors.New("operation not valid in current shrine state")
	ErrUnsupported        = errors.New("operation not supported by this shrine")
	ErrCrypto             = errors.New("decryption failed")
	ErrNilPasswordProvider = errors.New("password provider cannot be nil")
)

// FileNotFoundError is returned when a load is attempted against a path
// that does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("shrine file not found: %s", e.Path)
}

// FileAlreadyExistsError is returned by init without --force.
type FileAlreadyExistsError struct {
	Path string
}

func (e *FileAlreadyExistsError) Error() string {
	return fmt.Sprintf("shrine file already exists: %s", e.Path)
}

// IOError wraps a filesystem read or write failure.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s error: %s: %s", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// InvalidFileError carries the detail behind ErrRead (bad magic, unknown
// tag, corrupt payload framing).
type InvalidFileError struct {
	Detail string
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("invalid shrine file: %s", e.Detail)
}

func (e *InvalidFileError) Unwrap() error { return ErrRead }

// UnsupportedVersionError is returned when the file declares a version
// byte above VERSION.
type UnsupportedVersionError struct {
	Version uint8
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported shrine file version: %d", e.Version)
}

// KeyNotFoundError is returned by Get/Rm against a missing key.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key not found: %q", e.Key)
}

// InvalidKeyError is returned by Set when the key is malformed for the
// requested namespace.
type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %q: %s", e.Key, e.Reason)
}

// InvalidPatternError wraps a regexp.Compile failure from ls/rm/dump.
type InvalidPatternError struct {
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// GitError wraps a git collaborator failure. The agent does not return
// it: a failed auto-commit there is logged, and the already-persisted file
// is kept.
type GitError struct {
	Err error
}

func (e *GitError) Error() string {
	return fmt.Sprintf("git: %s", e.Err)
}

func (e *GitError) Unwrap() error { return e.Err }

// IsFileNotFound reports whether err is a FileNotFoundError.
func IsFileNotFound(err error) bool {
	var e *FileNotFoundError
	return errors.As(err, &e)
}

// IsKeyNotFound reports whether err is a KeyNotFoundError.
func IsKeyNotFound(err error) bool {
	var e *KeyNotFoundError
	return errors.As(err, &e)
}

// IsInvalidKey reports whether err is an InvalidKeyError.
func IsInvalidKey(err error) bool {
	var e *InvalidKeyError
	return errors.As(err, &e)
}

// IsCrypto reports whether err is (or wraps) ErrCrypto. A wrong passphrase
// and a tampered ciphertext are indistinguishable by design (spec.md §4.E).
func IsCrypto(err error) bool {
	return errors.Is(err, ErrCrypto)
}
