package shrine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_EncodeDecodeRoundTrip(t *testing.T) {
	meta := NewMetadata(Plain, BinaryDoc)
	payload := []byte("opaque payload bytes")

	encoded := encodeFile(meta, payload)
	decodedMeta, decodedPayload, err := decodeFile(encoded)
	require.NoError(t, err)

	assert.Equal(t, meta.UUID(), decodedMeta.UUID())
	assert.Equal(t, payload, decodedPayload)
}

// TestCodec_BadMagicIsRejectedFirst is spec.md §8 invariant 5.
func TestCodec_BadMagicIsRejectedFirst(t *testing.T) {
	meta := NewMetadata(Plain, BinaryDoc)
	encoded := encodeFile(meta, []byte("payload"))
	encoded[0] ^= 0xFF

	_, _, err := decodeFile(encoded)
	var invalid *InvalidFileError
	require.ErrorAs(t, err, &invalid)
}

func TestCodec_TruncatedPayloadIsInvalid(t *testing.T) {
	meta := NewMetadata(Plain, BinaryDoc)
	encoded := encodeFile(meta, []byte("payload"))

	_, _, err := decodeFile(encoded[:len(encoded)-3])
	var invalid *InvalidFileError
	require.ErrorAs(t, err, &invalid)
}

func TestCodec_EmptyPayloadRoundTrips(t *testing.T) {
	meta := NewMetadata(Plain, BinaryDoc)
	encoded := encodeFile(meta, nil)

	_, payload, err := decodeFile(encoded)
	require.NoError(t, err)
	assert.Empty(t, payload)
}
