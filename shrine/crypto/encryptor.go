package crypto

import (
	"crypto/rand"
	"fmt"
)

// Encryptor is the shrine's authenticated-encryption envelope contract
// (spec.md §4.E): encrypt(plaintext, passphrase, uuid, version) ->
// ciphertext_blob; decrypt(blob, passphrase, uuid, version) -> plaintext.
type Encryptor struct {
	params Argon2idParams
}

// NewEncryptor returns an Encryptor using the default Argon2id parameters.
func NewEncryptor() *Encryptor {
	return &Encryptor{params: DefaultArgon2idParams}
}

// Encrypt derives a key from passphrase salted with uuidBytes, generates a
// random 12-byte nonce, and seals plaintext. The associated data is
// uuidBytes || version, binding the ciphertext to the shrine's header
// (spec.md §4.E). The closed payload layout is nonce(12) |
// ciphertext_and_tag.
func (e *Encryptor) Encrypt(plaintext, passphrase, uuidBytes []byte, version uint8) ([]byte, error) {
	key, err := DeriveKey(passphrase, uuidBytes, e.params)
	if err != nil {
		return nil, err
	}

	engine, err := NewSIVEngine(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, engine.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("crypto: failed to generate nonce: %w", err)
	}

	ad := append(append([]byte{}, uuidBytes...), version)
	ciphertext, err := engine.Encrypt(nonce, plaintext, ad)
	if err != nil {
		return nil, err
	}

	blob := make([]byte, len(nonce)+len(ciphertext))
	copy(blob, nonce)
	copy(blob[len(nonce):], ciphertext)
	return blob, nil
}

// Decrypt reverses Encrypt. A wrong passphrase and a tampered blob both
// surface as ErrAuthFailed, indistinguishably (spec.md §4.E, §8 invariants
// 3-4).
func (e *Encryptor) Decrypt(blob, passphrase, uuidBytes []byte, version uint8) ([]byte, error) {
	key, err := DeriveKey(passphrase, uuidBytes, e.params)
	if err != nil {
		return nil, err
	}

	engine, err := NewSIVEngine(key)
	if err != nil {
		return nil, err
	}

	nonceSize := engine.NonceSize()
	if len(blob) < nonceSize {
		return nil, ErrAuthFailed
	}
	nonce := blob[:nonceSize]
	ciphertext := blob[nonceSize:]

	ad := append(append([]byte{}, uuidBytes...), version)
	plaintext, err := engine.Decrypt(nonce, ciphertext, ad)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}
