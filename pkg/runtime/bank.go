package runtime

import (
	"crypto/ed25519"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/sutils/pkg/program"
	"github.com/code-payments/sutils/pkg/solana"
)

var (
	ErrAccountNotFound = program.NewError(solana.InstructionErrorMissingAccount, "account not found")
	ErrAccountExists   = errors.New("account already exists")
)

// Account is a bank entry: an address, the program that owns it, and a data
// buffer whose length is fixed at allocation.
type Account struct {
	Key   ed25519.PublicKey
	Owner ed25519.PublicKey
	Data  []byte
}

func (a *Account) Clone() *Account {
	cloned := &Account{
		Key:   make([]byte, len(a.Key)),
		Owner: make([]byte, len(a.Owner)),
		Data:  make([]byte, len(a.Data)),
	}
	copy(cloned.Key, a.Key)
	copy(cloned.Owner, a.Owner)
	copy(cloned.Data, a.Data)
	return cloned
}

// Bank is an in-memory account store. Accounts are copied in and out, so
// callers never share buffers with it.
//
// Put and Allocate don't take the executor's account locks. Seed the bank
// before executing against it.
type Bank struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

func NewBank() *Bank {
	return &Bank{
		accounts: make(map[string]*Account),
	}
}

// Put creates or replaces an account.
func (b *Bank) Put(account *Account) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.accounts[string(account.Key)] = account.Clone()
}

// Allocate creates a zeroed account of size bytes assigned to owner.
func (b *Bank) Allocate(key, owner ed25519.PublicKey, size int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.accounts[string(key)]; ok {
		return errors.Wrapf(ErrAccountExists, "account %s", base58.Encode(key))
	}

	account := &Account{Key: key, Owner: owner, Data: make([]byte, size)}
	b.accounts[string(key)] = account.Clone()
	return nil
}

// Get returns a copy of the account at key.
func (b *Bank) Get(key ed25519.PublicKey) (*Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	account, ok := b.accounts[string(key)]
	if !ok {
		return nil, errors.Wrapf(ErrAccountNotFound, "account %s", base58.Encode(key))
	}
	return account.Clone(), nil
}

func (b *Bank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.accounts)
}

// commit replaces the data of existing accounts in one step.
func (b *Bank) commit(updates map[string][]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, data := range updates {
		account, ok := b.accounts[key]
		if !ok {
			continue
		}

		account.Data = make([]byte, len(data))
		copy(account.Data, data)
	}
}
