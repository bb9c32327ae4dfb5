package solana

import (
	"crypto/ed25519"
	"encoding/binary"
	"strings"

	"github.com/code-payments/sutils/pkg/cache"
)

// AddressDeriver computes program derived addresses. It's the only view of the
// derivation primitive that program code depends on.
type AddressDeriver interface {
	// FindProgramAddress searches for the canonical bump and returns the
	// resulting address along with it.
	FindProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, uint8, error)

	// CreateProgramAddress derives an address from seeds that already include
	// the bump.
	CreateProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error)
}

// DefaultDeriver derives addresses directly, with no memoization.
var DefaultDeriver AddressDeriver = &deriver{}

type deriver struct{}

func (*deriver) FindProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, uint8, error) {
	return FindProgramAddressAndBump(program, seeds...)
}

func (*deriver) CreateProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	return CreateProgramAddress(program, seeds...)
}

type derivedAddress struct {
	address ed25519.PublicKey
	bump    uint8
}

type cachedDeriver struct {
	underlying AddressDeriver
	found      cache.Cache[derivedAddress]
}

// NewCachedDeriver wraps an AddressDeriver with an LRU of bump searches. A
// bump search can cost up to 255 hash and curve checks, and account reads
// repeat the same derivation for every access to the same record.
//
// Only FindProgramAddress results are cached; CreateProgramAddress is a single
// hash and always delegated.
func NewCachedDeriver(underlying AddressDeriver, maxEntries int) AddressDeriver {
	return &cachedDeriver{
		underlying: underlying,
		found:      cache.NewCache[derivedAddress](maxEntries),
	}
}

func (d *cachedDeriver) FindProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, uint8, error) {
	key := derivationKey(program, seeds)

	if cached, ok := d.found.Retrieve(key); ok {
		return cloneKey(cached.address), cached.bump, nil
	}

	address, bump, err := d.underlying.FindProgramAddress(program, seeds...)
	if err != nil {
		return nil, 0, err
	}

	// A concurrent caller may have raced us to the insert, which is harmless
	_ = d.found.Insert(key, derivedAddress{address: cloneKey(address), bump: bump}, 1)

	return address, bump, nil
}

func (d *cachedDeriver) CreateProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	return d.underlying.CreateProgramAddress(program, seeds...)
}

// derivationKey length-prefixes every component so that different seed
// splits of the same bytes never collide.
func derivationKey(program ed25519.PublicKey, seeds [][]byte) string {
	var sb strings.Builder
	var prefix [2]byte

	binary.LittleEndian.PutUint16(prefix[:], uint16(len(program)))
	sb.Write(prefix[:])
	sb.Write(program)

	for _, seed := range seeds {
		binary.LittleEndian.PutUint16(prefix[:], uint16(len(seed)))
		sb.Write(prefix[:])
		sb.Write(seed)
	}

	return sb.String()
}

func cloneKey(key ed25519.PublicKey) ed25519.PublicKey {
	cloned := make([]byte, len(key))
	copy(cloned, key)
	return cloned
}
