package binary

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	ErrInvalidLength = errors.New("invalid slice length")
)

// ParsePublicKey copies a 32 byte identifier out of data.
func ParsePublicKey(data []byte) (ed25519.PublicKey, error) {
	if len(data) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(ErrInvalidLength, "slice must be %d bytes, got %d", ed25519.PublicKeySize, len(data))
	}
	key := make([]byte, ed25519.PublicKeySize)
	copy(key, data)
	return key, nil
}

// The Put*/Get* helpers below read and write at *offset and advance it. They
// assume the caller sized the slice for the full fixed layout up front.

func PutKey32(dst []byte, src []byte, offset *int) {
	copy(dst[*offset:*offset+ed25519.PublicKeySize], src)
	*offset += ed25519.PublicKeySize
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset += 1
}

func GetKey32(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:*offset+ed25519.PublicKeySize])
	*offset += ed25519.PublicKeySize
}

func GetUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
}

func GetUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[*offset]
	*offset += 1
}
