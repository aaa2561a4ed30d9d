package shrine

import "time"

// Mode tags the interpretation of a Secret's byte payload.
type Mode uint8

const (
	// Text marks a secret whose bytes are a UTF-8 string.
	Text Mode = iota
	// Binary marks a secret whose bytes are an opaque blob.
	Binary
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Text:
		return "text"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// Secret is an immutable byte payload tagged with a Mode and a creation
// timestamp. Its bytes are treated as sensitive: Destroy overwrites the
// backing array with zeroes before the value is dropped, and no accessor
// copies the array into a container that could outlive the zeroization.
type Secret struct {
	bytes     []byte
	mode      Mode
	createdAt time.Time
}

// NewSecret constructs a Secret from bytes and a Mode, stamping the
// creation time at construction. The caller's slice is copied so later
// mutation of the caller's buffer cannot alter the Secret.
func NewSecret(value []byte, mode Mode) Secret {
	buf := make([]byte, len(value))
	copy(buf, value)
	return Secret{bytes: buf, mode: mode, createdAt: time.Now()}
}

// newSecretAt is used by the serializer to reconstruct a Secret with its
// original creation time.
func newSecretAt(value []byte, mode Mode, createdAt time.Time) Secret {
	buf := make([]byte, len(value))
	copy(buf, value)
	return Secret{bytes: buf, mode: mode, createdAt: createdAt}
}

// Bytes returns a borrowed view of the secret's payload. Callers that
// need to retain the data beyond the current call must copy it.
func (s Secret) Bytes() []byte { return s.bytes }

// Mode returns the secret's Mode.
func (s Secret) Mode() Mode { return s.mode }

// CreatedAt returns the secret's creation time.
func (s Secret) CreatedAt() time.Time { return s.createdAt }

// Destroy overwrites the secret's backing bytes with zeroes. Safe to call
// more than once.
func (s *Secret) Destroy() {
	zeroize(s.bytes)
}

// zeroize overwrites buf in place. It never reallocates, and it is not
// inlined-away by the compiler because it operates through a slice
// parameter with observable side effects on the caller's backing array.
func zeroize(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
