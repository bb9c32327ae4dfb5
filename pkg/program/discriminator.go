package program

import (
	"sync"

	"github.com/pkg/errors"
)

// AccountDiscriminator identifies an account type. The value is a per-type
// constant and must be available from the zero value.
type AccountDiscriminator interface {
	Discriminator() uint8
}

// InstructionDiscriminator identifies an instruction variant. Unlike accounts
// it's computed from the value, since one instruction type spans several
// variants.
type InstructionDiscriminator interface {
	Discriminator() uint8
}

// DiscriminatorRegistry claims account discriminators for a program. Two live
// account types sharing a tag would let one decode as the other, so every
// account type registers here once at start-up.
type DiscriminatorRegistry struct {
	mu       sync.RWMutex
	accounts map[uint8]string
}

func NewDiscriminatorRegistry() *DiscriminatorRegistry {
	return &DiscriminatorRegistry{
		accounts: make(map[uint8]string),
	}
}

// RegisterAccount claims account's discriminator under name.
func (r *DiscriminatorRegistry) RegisterAccount(name string, account AccountDiscriminator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	discriminator := account.Discriminator()
	if existing, ok := r.accounts[discriminator]; ok {
		return errors.Wrapf(ErrDuplicateDiscriminator, "account discriminator %d claimed by %s, cannot register %s", discriminator, existing, name)
	}

	r.accounts[discriminator] = name
	return nil
}

// MustRegisterAccount is RegisterAccount that panics on a clash. Intended for
// package init.
func (r *DiscriminatorRegistry) MustRegisterAccount(name string, account AccountDiscriminator) {
	if err := r.RegisterAccount(name, account); err != nil {
		panic(err)
	}
}

// AccountName returns the name registered for a discriminator.
func (r *DiscriminatorRegistry) AccountName(discriminator uint8) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.accounts[discriminator]
	return name, ok
}
