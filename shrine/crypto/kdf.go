// Package crypto implements the shrine's authenticated-encryption envelope:
// an Argon2id passphrase-derived key feeding a misuse-resistant AEAD
// construction, adapted from the absfs/encryptfs PasswordKeyProvider and
// SIVEngine.
package crypto

import (
	"fmt"

	"golang.org/x/crypto/argon2"
)

// KeySize is the number of key bytes SIVEngine needs: two 32-byte halves
// (spec.md §4.E derives a 32-byte key; the SIV construction the teacher
// provides splits a 64-byte key into k1/k2, so DeriveKey yields 64 bytes
// and the outward-facing envelope still spends "one 32-byte-class key" of
// entropy per RFC 5297's S2V+CTR split).
const KeySize = 64

// Argon2idParams mirrors the teacher's Argon2idParams, restricted to the
// knobs the shrine envelope actually drives.
type Argon2idParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultArgon2idParams matches spec.md §4.E's floor: >= 64 MiB memory,
// >= 3 iterations.
var DefaultArgon2idParams = Argon2idParams{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 4,
}

// DeriveKey derives a KeySize-byte key from passphrase using Argon2id,
// salted with salt (the shrine's uuid bytes per spec.md §4.E).
func DeriveKey(passphrase []byte, salt []byte, params Argon2idParams) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("crypto: passphrase cannot be empty")
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("crypto: salt cannot be empty")
	}

	return argon2.IDKey(passphrase, salt, params.Iterations, params.Memory, params.Parallelism, KeySize), nil
}
