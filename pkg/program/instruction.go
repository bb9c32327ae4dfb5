package program

import (
	"sync"

	"github.com/pkg/errors"
)

// InstructionPacker packs an instruction variant into its wire form: the
// variant discriminator followed by a variant specific payload.
type InstructionPacker interface {
	InstructionDiscriminator

	Pack() []byte
}

// VariantDecoder decodes the payload that follows a variant's discriminator.
// It must fail with ErrInvalidInstructionData when the payload is malformed
// or too short.
type VariantDecoder[Ix InstructionPacker] func(payload []byte) (Ix, error)

type variant[Ix InstructionPacker] struct {
	name   string
	decode VariantDecoder[Ix]
}

// InstructionSet is the closed set of variants of one instruction type, keyed
// by discriminator. It's the unpack half of the codec; each variant packs
// itself.
type InstructionSet[Ix InstructionPacker] struct {
	name string

	mu       sync.RWMutex
	variants map[uint8]variant[Ix]
}

func NewInstructionSet[Ix InstructionPacker](name string) *InstructionSet[Ix] {
	return &InstructionSet[Ix]{
		name:     name,
		variants: make(map[uint8]variant[Ix]),
	}
}

// Register adds a variant. Discriminators are unique within a set.
func (s *InstructionSet[Ix]) Register(discriminator uint8, name string, decode VariantDecoder[Ix]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.variants[discriminator]; ok {
		return errors.Wrapf(
			ErrDuplicateDiscriminator,
			"%s discriminator %d claimed by %s, cannot register %s",
			s.name,
			discriminator,
			existing.name,
			name,
		)
	}

	s.variants[discriminator] = variant[Ix]{name: name, decode: decode}
	return nil
}

// MustRegister is Register that panics on a clash. Intended for package init.
func (s *InstructionSet[Ix]) MustRegister(discriminator uint8, name string, decode VariantDecoder[Ix]) {
	if err := s.Register(discriminator, name, decode); err != nil {
		panic(err)
	}
}

// Unpack decodes raw instruction data into one of the registered variants.
func (s *InstructionSet[Ix]) Unpack(data []byte) (Ix, error) {
	var zero Ix

	if len(data) == 0 {
		return zero, ErrEmptyInstruction
	}

	s.mu.RLock()
	v, ok := s.variants[data[0]]
	s.mu.RUnlock()
	if !ok {
		return zero, errors.Wrapf(ErrUnknownDiscriminator, "%s discriminator %d", s.name, data[0])
	}

	ix, err := v.decode(data[1:])
	if err != nil {
		return zero, errors.Wrapf(err, "failed to unpack %s", v.name)
	}
	return ix, nil
}

// Name returns the registered name of ix's variant, for logging.
func (s *InstructionSet[Ix]) Name(ix Ix) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.variants[ix.Discriminator()]; ok {
		return v.name
	}
	return "Unknown"
}

// PackVariant prefixes payload with discriminator.
func PackVariant(discriminator uint8, payload []byte) []byte {
	data := make([]byte, 1+len(payload))
	data[0] = discriminator
	copy(data[1:], payload)
	return data
}

// ExpectPayloadSize fails with ErrInvalidInstructionData unless payload is
// exactly size bytes. Fixed-width variants use it to reject both truncated
// and padded payloads.
func ExpectPayloadSize(payload []byte, size int) error {
	if len(payload) != size {
		return errors.Wrapf(ErrInvalidInstructionData, "expected %d payload bytes, got %d", size, len(payload))
	}
	return nil
}
