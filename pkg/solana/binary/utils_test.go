package binary

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublicKey(t *testing.T) {
	raw := bytes.Repeat([]byte{69}, ed25519.PublicKeySize)

	actual, err := ParsePublicKey(raw)
	require.NoError(t, err)
	assert.EqualValues(t, raw, actual)

	// The parsed key must not alias the source
	raw[0] = 0
	assert.EqualValues(t, 69, actual[0])

	_, err = ParsePublicKey([]byte{1, 2})
	assert.True(t, errors.Is(err, ErrInvalidLength))
	assert.Contains(t, err.Error(), "slice must be 32 bytes")
}

func TestPutGet_FixedLayout(t *testing.T) {
	key := ed25519.PublicKey(bytes.Repeat([]byte{7}, ed25519.PublicKeySize))

	data := make([]byte, 32+8+1)

	var offset int
	PutKey32(data, key, &offset)
	PutUint64(data, 1234567890123, &offset)
	PutUint8(data, 254, &offset)
	assert.Equal(t, len(data), offset)

	var actualKey ed25519.PublicKey
	var actualU64 uint64
	var actualU8 uint8

	offset = 0
	GetKey32(data, &actualKey, &offset)
	GetUint64(data, &actualU64, &offset)
	GetUint8(data, &actualU8, &offset)
	assert.Equal(t, len(data), offset)

	assert.EqualValues(t, key, actualKey)
	assert.EqualValues(t, 1234567890123, actualU64)
	assert.EqualValues(t, 254, actualU8)
}
