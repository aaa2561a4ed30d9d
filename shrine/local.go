package shrine

import (
	"github.com/google/uuid"

	"github.com/shrine-cli/shrine/shrine/crypto"
	"github.com/shrine-cli/shrine/shrine/serialize"
)

var encryptor = crypto.NewEncryptor()

// LocalClosed is a closed local shrine: its payload is an opaque byte
// blob (plaintext for Clear, nonce|ciphertext for Aes) and no secret is
// reachable until it is opened (spec.md §3 Lifecycle).
type LocalClosed struct {
	meta    Metadata
	payload []byte
}

// UUID returns the shrine's identity.
func (s *LocalClosed) UUID() uuid.UUID { return s.meta.UUID() }

// Version returns the file format version.
func (s *LocalClosed) Version() uint8 { return VERSION }

// Encryption returns the cryptographic variant.
func (s *LocalClosed) Encryption() Encryption { return s.meta.Encryption() }

// Format returns the serialization format.
func (s *LocalClosed) Format() Format { return s.meta.Format() }

// RequiresPassword reports whether Open needs a passphrase.
func (s *LocalClosed) RequiresPassword() bool { return s.meta.Encryption() == Aes }

// OpenClear transitions a Clear closed shrine to Open. Illegal on an Aes
// shrine (spec.md §4.F "illegal: opening an AES shrine without a
// passphrase" — here illegal because it is the wrong variant entirely).
func (s *LocalClosed) OpenClear() (*LocalOpen, error) {
	if s.meta.Encryption() != Plain {
		return nil, ErrInvalidTransition
	}
	holder, err := decodeHolder(s.meta.Format(), s.payload)
	if err != nil {
		return nil, err
	}
	return &LocalOpen{meta: s.meta, holder: holder}, nil
}

// OpenAes transitions an Aes closed shrine to Open, decrypting the
// payload with a key derived from passphrase. A wrong passphrase and a
// tampered payload are indistinguishable: both return ErrCrypto
// (spec.md §4.E, §8 invariants 3-4).
func (s *LocalClosed) OpenAes(passphrase []byte) (*LocalOpen, error) {
	if s.meta.Encryption() != Aes {
		return nil, ErrInvalidTransition
	}

	id := s.meta.UUID()
	plaintext, err := encryptor.Decrypt(s.payload, passphrase, id[:], VERSION)
	if err != nil {
		return nil, ErrCrypto
	}

	holder, err := decodeHolder(s.meta.Format(), plaintext)
	if err != nil {
		return nil, err
	}

	pass := make([]byte, len(passphrase))
	copy(pass, passphrase)

	return &LocalOpen{meta: s.meta, holder: holder, passphrase: pass}, nil
}

// toBytes renders the closed shrine's on-disk framing (spec.md §4.G).
func (s *LocalClosed) toBytes() []byte {
	return encodeFile(s.meta, s.payload)
}

// Persist writes the closed shrine to path atomically (spec.md §3
// Lifecycle "Persist").
func (s *LocalClosed) Persist(path string) error {
	return writeFileAtomic(path, s.toBytes())
}

// LoadedShrine is the result of reading a shrine file from disk or bytes:
// its Metadata is known but its payload stays opaque until Open (spec.md
// §3 Lifecycle "Load from bytes").
type LoadedShrine struct {
	Closed *LocalClosed
}

// LoadFromPath reads and parses the shrine file at path.
func LoadFromPath(path string) (*LoadedShrine, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a shrine file's bytes: magic-number check, version
// check, metadata parse; the payload is held as an opaque closed blob
// (spec.md §4.G steps 1-4).
func LoadFromBytes(data []byte) (*LoadedShrine, error) {
	meta, payload, err := decodeFile(data)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return &LoadedShrine{Closed: &LocalClosed{meta: meta, payload: buf}}, nil
}

// NewLocal creates a fresh Open shrine: a new uuid, an empty Holder,
// default algorithm Aes, default format BinaryDoc (spec.md §3 Lifecycle
// "Create"). The returned shrine carries no passphrase yet; Close will
// fail with ErrInvalidTransition until SetPassword is called or the
// shrine is moved IntoClear.
func NewLocal() *LocalOpen {
	return &LocalOpen{
		meta:   NewMetadata(Aes, BinaryDoc),
		holder: NewHolder(),
	}
}

// LocalOpen is an open local shrine: its Holder is mutable and its
// metadata may still change encryption variant before Close.
type LocalOpen struct {
	meta       Metadata
	holder     *Holder
	passphrase []byte // nil means "no passphrase attached" (AesNoPass)
}

// UUID returns the shrine's identity.
func (s *LocalOpen) UUID() uuid.UUID { return s.meta.UUID() }

// Encryption returns the cryptographic variant currently configured.
func (s *LocalOpen) Encryption() Encryption { return s.meta.Encryption() }

// WithFormat sets the serialization format used on the next Close.
func (s *LocalOpen) WithFormat(f Format) {
	s.meta = s.meta.WithFormat(f)
}

// Set stores value under key, routing a leading-dot key to the private
// namespace transparently (spec.md §4.F).
func (s *LocalOpen) Set(key string, value []byte, mode Mode) error {
	if priv, ok := stripPrivatePrefix(key); ok {
		return s.holder.SetPrivate(priv, NewSecret(value, mode))
	}
	return s.holder.Set(key, NewSecret(value, mode))
}

// Get returns the secret stored under key, routing a leading-dot key to
// the private namespace.
func (s *LocalOpen) Get(key string) (Secret, error) {
	if priv, ok := stripPrivatePrefix(key); ok {
		return s.holder.GetPrivate(priv)
	}
	return s.holder.Get(key)
}

// Rm removes key (from the namespace implied by a leading dot) and
// reports whether it was present.
func (s *LocalOpen) Rm(key string) bool {
	if priv, ok := stripPrivatePrefix(key); ok {
		return s.holder.RemovePrivate(priv)
	}
	return s.holder.Remove(key)
}

// Keys returns the public namespace's keys.
func (s *LocalOpen) Keys() []string { return s.holder.Keys() }

// KeysPrivate returns the private namespace's keys.
func (s *LocalOpen) KeysPrivate() []string { return s.holder.KeysPrivate() }

// Mv replaces dst's Holder with s's Holder, preserving dst's identity and
// metadata (spec.md §4.F "mv").
func (s *LocalOpen) Mv(dst *LocalOpen) {
	dst.holder = s.holder.Clone()
}

// IntoClear switches the shrine to the Clear variant, dropping any
// attached passphrase (spec.md §4.F "into_clear").
func (s *LocalOpen) IntoClear() {
	s.meta = s.meta.WithEncryption(Plain)
	zeroize(s.passphrase)
	s.passphrase = nil
}

// IntoAes switches the shrine to the Aes variant without a passphrase
// attached (AesNoPass); SetPassword or a subsequent Open with a
// passphrase is required before Close will succeed.
func (s *LocalOpen) IntoAes() {
	s.meta = s.meta.WithEncryption(Aes)
	s.passphrase = nil
}

// SetPassword attaches a passphrase, forcing the Aes variant
// (spec.md §4.F "set_password"), transitioning to AesWithPass.
func (s *LocalOpen) SetPassword(passphrase []byte) {
	s.meta = s.meta.WithEncryption(Aes)
	s.passphrase = append([]byte(nil), passphrase...)
}

// Close serializes the Holder and, for the Aes variant, encrypts it with
// the attached passphrase. Closing an Aes shrine with no passphrase
// attached is the one illegal transition a dynamic implementation must
// reject at the call boundary (spec.md §4.F): it returns
// ErrInvalidTransition.
func (s *LocalOpen) Close() (*LocalClosed, error) {
	payload, err := encodeHolder(s.meta.Format(), s.holder)
	if err != nil {
		return nil, err
	}

	if s.meta.Encryption() == Plain {
		return &LocalClosed{meta: s.meta, payload: payload}, nil
	}

	if s.passphrase == nil {
		return nil, ErrInvalidTransition
	}

	id := s.meta.UUID()
	ciphertext, err := encryptor.Encrypt(payload, s.passphrase, id[:], VERSION)
	if err != nil {
		return nil, err
	}
	return &LocalClosed{meta: s.meta, payload: ciphertext}, nil
}

// Destroy zeroizes the Holder's secrets and any attached passphrase
// (spec.md §3 Lifecycle "Destroy").
func (s *LocalOpen) Destroy() {
	s.holder.Destroy()
	zeroize(s.passphrase)
}

func stripPrivatePrefix(key string) (string, bool) {
	if len(key) > 0 && key[0] == '.' {
		return key[1:], true
	}
	return "", false
}

func encodeHolder(format Format, h *Holder) ([]byte, error) {
	switch format {
	case BinaryDoc:
		view := serialize.HolderView{
			Public:  make(map[string]serialize.SecretView, len(h.public)),
			Private: make(map[string]serialize.SecretView, len(h.private)),
		}
		for k, s := range h.public {
			view.Public[k] = serialize.SecretView{Bytes: s.Bytes(), Mode: int(s.Mode()), CreatedAt: s.CreatedAt()}
		}
		for k, s := range h.private {
			view.Private[k] = serialize.SecretView{Bytes: s.Bytes(), Mode: int(s.Mode()), CreatedAt: s.CreatedAt()}
		}
		return serialize.EncodeBinaryDoc(view)
	default:
		return nil, &InvalidFileError{Detail: "unsupported serialization format for payload"}
	}
}

func decodeHolder(format Format, data []byte) (*Holder, error) {
	switch format {
	case BinaryDoc:
		view, err := serialize.DecodeBinaryDoc(data)
		if err != nil {
			return nil, &InvalidFileError{Detail: "payload decode failure: " + err.Error()}
		}
		h := NewHolder()
		for k, s := range view.Public {
			h.public[k] = newSecretAt(s.Bytes, Mode(s.Mode), s.CreatedAt)
		}
		for k, s := range view.Private {
			h.private[k] = newSecretAt(s.Bytes, Mode(s.Mode), s.CreatedAt)
		}
		return h, nil
	default:
		return nil, &InvalidFileError{Detail: "unsupported serialization format for payload"}
	}
}
