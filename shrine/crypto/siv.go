package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrAuthFailed is returned by Decrypt when the synthetic IV recomputed
// over the decrypted plaintext does not match the one carried in the
// ciphertext — a wrong key and a tampered ciphertext are indistinguishable
// (spec.md §4.E / §8 invariants 3-4).
var ErrAuthFailed = errors.New("crypto: authentication failed")

// SIVEngine implements AES-SIV (RFC 5297) misuse-resistant authenticated
// encryption, adapted from the teacher's encryptfs.SIVEngine. The shrine
// envelope additionally folds a random 12-byte nonce into the S2V
// associated-data chain (see NonceSize/Encrypt below): this is the
// substitute this design uses for AES-256-GCM-SIV (RFC 8452), which no
// repository in the reference pack vendors — see DESIGN.md.
type SIVEngine struct {
	k1    []byte // first half of key, feeds S2V/CMAC
	k2    []byte // second half of key, feeds CTR
	block cipher.Block
}

// NewSIVEngine builds a SIVEngine from a 64-byte key (two 32-byte halves).
func NewSIVEngine(key []byte) (*SIVEngine, error) {
	if len(key) != 64 {
		return nil, fmt.Errorf("crypto: AES-SIV requires a 64-byte key, got %d bytes", len(key))
	}

	k1 := key[:32]
	k2 := key[32:]

	block, err := aes.NewCipher(k2)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to create AES cipher: %w", err)
	}

	return &SIVEngine{k1: k1, k2: k2, block: block}, nil
}

// NonceSize returns the size of the random nonce the shrine envelope mixes
// into the S2V chain (spec.md §4.E: 12 random bytes per close).
func (e *SIVEngine) NonceSize() int { return 12 }

// Overhead returns the size of the synthetic IV prepended to the
// ciphertext.
func (e *SIVEngine) Overhead() int { return 16 }

// Encrypt seals plaintext, authenticating nonce and any additional
// associated data alongside it. The nonce is required and must be
// NonceSize() bytes; passing a fresh random nonce on every call is what
// gives the construction its per-close unpredictability, matching the
// spec's "nonce: 12 random bytes per close".
func (e *SIVEngine) Encrypt(nonce, plaintext []byte, ad ...[]byte) ([]byte, error) {
	if len(nonce) != e.NonceSize() {
		return nil, fmt.Errorf("crypto: nonce must be %d bytes, got %d", e.NonceSize(), len(nonce))
	}

	chain := append([][]byte{nonce}, ad...)
	siv := e.s2v(plaintext, chain...)

	ciphertext := make([]byte, len(plaintext))
	e.ctrMode(siv, plaintext, ciphertext)

	result := make([]byte, 16+len(ciphertext))
	copy(result[:16], siv)
	copy(result[16:], ciphertext)
	return result, nil
}

// Decrypt opens a blob produced by Encrypt, given the same nonce and
// associated data. Any mismatch — wrong key, wrong nonce, wrong AD, or a
// tampered ciphertext — surfaces as ErrAuthFailed.
func (e *SIVEngine) Decrypt(nonce, blob []byte, ad ...[]byte) ([]byte, error) {
	if len(nonce) != e.NonceSize() {
		return nil, fmt.Errorf("crypto: nonce must be %d bytes, got %d", e.NonceSize(), len(nonce))
	}
	if len(blob) < 16 {
		return nil, fmt.Errorf("crypto: ciphertext too short")
	}

	siv := blob[:16]
	ct := blob[16:]

	plaintext := make([]byte, len(ct))
	e.ctrMode(siv, ct, plaintext)

	chain := append([][]byte{nonce}, ad...)
	expected := e.s2v(plaintext, chain...)
	if subtle.ConstantTimeCompare(siv, expected) != 1 {
		return nil, ErrAuthFailed
	}

	return plaintext, nil
}

// s2v implements the S2V (Synthetic IV) algorithm from RFC 5297.
func (e *SIVEngine) s2v(plaintext []byte, ad ...[]byte) []byte {
	block, _ := aes.NewCipher(e.k1)

	d := e.cmac(block, make([]byte, 16))

	for _, a := range ad {
		d = xorBlocks(dbl(d), e.cmac(block, a))
	}

	var t []byte
	if len(plaintext) >= 16 {
		t = make([]byte, len(plaintext))
		copy(t, plaintext)
		xorInto(t[len(t)-16:], d)
	} else {
		t = xorBlocks(dbl(d), pad(plaintext))
	}

	return e.cmac(block, t)
}

// cmac implements CMAC over data with the given block cipher.
func (e *SIVEngine) cmac(block cipher.Block, data []byte) []byte {
	k1, k2 := generateSubkeys(block)

	n := (len(data) + 15) / 16
	if n == 0 {
		n = 1
	}

	lastBlock := make([]byte, 16)
	if len(data) == 0 || len(data)%16 != 0 {
		copy(lastBlock, data[16*(n-1):])
		lastBlock = pad(lastBlock[:len(data)%16])
		xorInto(lastBlock, k2)
	} else {
		copy(lastBlock, data[16*(n-1):])
		xorInto(lastBlock, k1)
	}

	mac := make([]byte, 16)
	for i := 0; i < n-1; i++ {
		chunk := data[i*16 : (i+1)*16]
		xorInto(mac, chunk)
		block.Encrypt(mac, mac)
	}
	xorInto(mac, lastBlock)
	block.Encrypt(mac, mac)

	return mac
}

// ctrMode runs AES-CTR with the synthetic IV as the starting counter,
// clearing the top bits per RFC 5297 §2.5 so the 128-bit IV never
// overflows into the block counter's reserved bits.
func (e *SIVEngine) ctrMode(iv, src, dst []byte) {
	ctr := make([]byte, 16)
	copy(ctr, iv)
	ctr[8] &= 0x7f
	ctr[12] &= 0x7f

	stream := cipher.NewCTR(e.block, ctr)
	stream.XORKeyStream(dst, src)
}

func dbl(block []byte) []byte {
	result := make([]byte, 16)
	carry := uint64(0)

	for i := 0; i < 2; i++ {
		offset := (1 - i) * 8
		val := binary.BigEndian.Uint64(block[offset : offset+8])
		newVal := (val << 1) | carry
		binary.BigEndian.PutUint64(result[offset:offset+8], newVal)
		carry = val >> 63
	}

	if carry != 0 {
		result[15] ^= 0x87
	}

	return result
}

func pad(data []byte) []byte {
	result := make([]byte, 16)
	copy(result, data)
	result[len(data)] = 0x80
	return result
}

func xorBlocks(a, b []byte) []byte {
	result := make([]byte, len(a))
	for i := 0; i < len(a) && i < len(b); i++ {
		result[i] = a[i] ^ b[i]
	}
	return result
}

func xorInto(a, b []byte) {
	for i := 0; i < len(a) && i < len(b); i++ {
		a[i] ^= b[i]
	}
}

func generateSubkeys(block cipher.Block) ([]byte, []byte) {
	l := make([]byte, 16)
	block.Encrypt(l, l)

	k1 := dbl(l)
	k2 := dbl(k1)

	return k1, k2
}
