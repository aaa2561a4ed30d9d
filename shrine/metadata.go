package shrine

import (
	"github.com/google/uuid"
)

// Encryption identifies the cryptographic variant of a shrine's payload.
type Encryption uint8

const (
	// Plain means the payload is stored as plaintext.
	Plain Encryption = iota
	// Aes means the payload is AES-SIV encrypted with a passphrase-derived
	// key (spec.md §4.E).
	Aes
)

func (e Encryption) String() string {
	switch e {
	case Plain:
		return "plain"
	case Aes:
		return "aes"
	default:
		return "unknown"
	}
}

// Format identifies the serialization of the Holder within the payload.
type Format uint8

const (
	// BinaryDoc is the self-describing BSON document format used on disk.
	BinaryDoc Format = iota
	// TextFmt is the line-oriented dump/import format; never used as the
	// on-disk payload (spec.md §4.D).
	TextFmt
)

func (f Format) String() string {
	switch f {
	case BinaryDoc:
		return "binary"
	case TextFmt:
		return "text"
	default:
		return "unknown"
	}
}

// metadataSize is the fixed V0 on-disk layout: uuid(16) | encryption(1) |
// format(1).
const metadataSize = 18

// Metadata is the versioned V0 header: a uuid assigned at creation (and
// reassigned on convert), the encryption algorithm, and the serialization
// format.
type Metadata struct {
	uuid       uuid.UUID
	encryption Encryption
	format     Format
}

// NewMetadata returns fresh V0 metadata with a random uuid.
func NewMetadata(encryption Encryption, format Format) Metadata {
	return Metadata{uuid: uuid.New(), encryption: encryption, format: format}
}

// UUID returns the metadata's identity.
func (m Metadata) UUID() uuid.UUID { return m.uuid }

// Encryption returns the encryption tag.
func (m Metadata) Encryption() Encryption { return m.encryption }

// Format returns the serialization format tag.
func (m Metadata) Format() Format { return m.format }

// WithEncryption returns a copy of m with a different encryption tag,
// leaving the uuid and format untouched.
func (m Metadata) WithEncryption(e Encryption) Metadata {
	m.encryption = e
	return m
}

// WithFormat returns a copy of m with a different serialization format.
func (m Metadata) WithFormat(f Format) Metadata {
	m.format = f
	return m
}

// WithNewUUID returns a copy of m carrying a freshly minted uuid. Convert
// always calls this to invalidate any agent-cached passphrase for the old
// identity (spec.md §4.F).
func (m Metadata) WithNewUUID() Metadata {
	m.uuid = uuid.New()
	return m
}

// marshal writes the fixed V0 layout: uuid(16) | encryption(1) | format(1).
func (m Metadata) marshal() []byte {
	buf := make([]byte, metadataSize)
	copy(buf[0:16], m.uuid[:])
	buf[16] = byte(m.encryption)
	buf[17] = byte(m.format)
	return buf
}

// unmarshalMetadata parses the fixed V0 layout. Unknown tags are rejected
// with InvalidFileError per spec.md §4.C.
func unmarshalMetadata(buf []byte) (Metadata, error) {
	if len(buf) < metadataSize {
		return Metadata{}, &InvalidFileError{Detail: "truncated metadata"}
	}

	var id uuid.UUID
	copy(id[:], buf[0:16])

	encTag := buf[16]
	if encTag != byte(Plain) && encTag != byte(Aes) {
		return Metadata{}, &InvalidFileError{Detail: "unknown encryption tag"}
	}

	fmtTag := buf[17]
	if fmtTag != byte(BinaryDoc) && fmtTag != byte(TextFmt) {
		return Metadata{}, &InvalidFileError{Detail: "unknown format tag"}
	}

	return Metadata{uuid: id, encryption: Encryption(encTag), format: Format(fmtTag)}, nil
}
