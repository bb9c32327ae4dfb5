package solana

import (
	"crypto/ed25519"
	"crypto/sha256"
	"math"

	"github.com/jdgcs/ed25519/edwards25519"
	"github.com/pkg/errors"
)

const (
	maxSeeds      = 16
	maxSeedLength = 32
)

var (
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrInvalidPublicKey      = errors.New("invalid public key")
	ErrNoViableBump          = errors.New("unable to find a viable program address bump seed")
)

var pdaMarker = []byte("ProgramDerivedAddress")

var (
	programHashCtor = sha256.New
)

// CreateProgramAddress mirrors the Solana SDK's create_program_address.
//
// Program addresses must not lie on the ed25519 curve so that no private key
// exists for them. When the hashed seeds land on the curve, ErrInvalidPublicKey
// is returned and the caller is expected to try another bump.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L158
func CreateProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	if len(seeds) > maxSeeds {
		return nil, ErrTooManySeeds
	}

	h := programHashCtor()
	for _, seed := range seeds {
		if len(seed) > maxSeedLength {
			return nil, ErrMaxSeedLengthExceeded
		}
		if _, err := h.Write(seed); err != nil {
			return nil, errors.Wrap(err, "failed to hash seed")
		}
	}
	if _, err := h.Write(program); err != nil {
		return nil, errors.Wrap(err, "failed to hash program id")
	}
	if _, err := h.Write(pdaMarker); err != nil {
		return nil, errors.Wrap(err, "failed to hash pda marker")
	}

	var candidate [ed25519.PublicKeySize]byte
	copy(candidate[:], h.Sum(nil))

	// x/crypto keeps its edwards25519 point type internal, so the on-curve
	// check goes through the extended group element decoder instead.
	//
	// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L182-L187
	var point edwards25519.ExtendedGroupElement
	if point.FromBytes(&candidate) {
		return nil, ErrInvalidPublicKey
	}

	return candidate[:], nil
}

// FindProgramAddressAndBump mirrors the Solana SDK's find_program_address,
// searching bump seeds from 255 downwards and returning the first off-curve
// address along with the bump that produced it.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L234
func FindProgramAddressAndBump(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, uint8, error) {
	bump := []byte{math.MaxUint8}
	withBump := make([][]byte, 0, len(seeds)+1)
	withBump = append(withBump, seeds...)
	withBump = append(withBump, bump)

	for i := 0; i < math.MaxUint8; i++ {
		address, err := CreateProgramAddress(program, withBump...)
		if err == nil {
			return address, bump[0], nil
		}
		if err != ErrInvalidPublicKey {
			return nil, 0, err
		}
		bump[0]--
	}

	return nil, 0, ErrNoViableBump
}

// FindProgramAddress is FindProgramAddressAndBump without the bump.
func FindProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	address, _, err := FindProgramAddressAndBump(program, seeds...)
	return address, err
}
