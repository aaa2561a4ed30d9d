package shrine

import "github.com/google/uuid"

// ConvertOptions configures a Convert call. A zero value performs a no-op
// re-encryption pass that still mints a new uuid.
type ConvertOptions struct {
	// NewFormat, if non-nil, changes the serialization format.
	NewFormat *Format
	// NewEncryption, if non-nil, changes the encryption algorithm.
	NewEncryption *Encryption
	// NewPassphrase, if non-nil, is the passphrase to close with when the
	// resulting encryption is Aes. If nil and the result is Aes, the
	// shrine's currently attached passphrase (if any) is reused.
	NewPassphrase []byte
}

// Convert is the composite open/re-encode/re-encrypt/close operation:
// it always mints a new uuid, invalidating any agent-cached passphrase
// for the old identity (spec.md §4.F "Convert", §8 invariant 8).
func Convert(open *LocalOpen, opts ConvertOptions) (*LocalClosed, error) {
	if opts.NewFormat != nil {
		open.WithFormat(*opts.NewFormat)
	}

	if opts.NewEncryption != nil {
		switch *opts.NewEncryption {
		case Plain:
			open.IntoClear()
		case Aes:
			if open.Encryption() != Aes {
				open.IntoAes()
			}
		}
	}

	if opts.NewPassphrase != nil {
		open.SetPassword(opts.NewPassphrase)
	}

	open.meta = open.meta.WithNewUUID()

	return open.Close()
}

// NewUUID returns a freshly generated random uuid. It is not the uuid
// Convert assigns; that one is read from the returned LocalClosed's UUID.
func NewUUID() uuid.UUID { return uuid.New() }
