package program

import (
	"bytes"
	"crypto/ed25519"
	"strconv"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// AccountInfo is the host supplied view of one account for a single
// invocation: its address, its owning program, the access the instruction was
// granted, and its data buffer.
//
// The buffer is never handed out directly. Code borrows it for the span of one
// read or one write, and must call the returned release func on every exit
// path. A mutable borrow excludes every other borrow.
type AccountInfo struct {
	Key        ed25519.PublicKey
	Owner      ed25519.PublicKey
	IsSigner   bool
	IsWritable bool

	data []byte

	// >0: number of shared borrows, -1: mutably borrowed
	borrows int
}

// NewAccountInfo wraps data without copying it. Data length is fixed for the
// lifetime of the AccountInfo.
func NewAccountInfo(key, owner ed25519.PublicKey, data []byte, isSigner, isWritable bool) *AccountInfo {
	return &AccountInfo{
		Key:        key,
		Owner:      owner,
		IsSigner:   isSigner,
		IsWritable: isWritable,
		data:       data,
	}
}

// BorrowData returns a shared view of the account data.
func (a *AccountInfo) BorrowData() ([]byte, func(), error) {
	if a.borrows < 0 {
		return nil, nil, errors.Wrapf(ErrAccountBorrowFailed, "account %s is mutably borrowed", base58.Encode(a.Key))
	}

	a.borrows++
	var released bool
	return a.data, func() {
		if released {
			return
		}
		released = true
		a.borrows--
	}, nil
}

// BorrowMutData returns an exclusive, writable view of the account data.
func (a *AccountInfo) BorrowMutData() ([]byte, func(), error) {
	if a.borrows != 0 {
		return nil, nil, errors.Wrapf(ErrAccountBorrowFailed, "account %s is already borrowed", base58.Encode(a.Key))
	}

	a.borrows = -1
	var released bool
	return a.data, func() {
		if released {
			return
		}
		released = true
		a.borrows = 0
	}, nil
}

// DataLen is the fixed capacity of the account buffer.
func (a *AccountInfo) DataLen() int {
	return len(a.data)
}

// IsOwnedBy reports whether program owns the account.
func (a *AccountInfo) IsOwnedBy(program ed25519.PublicKey) bool {
	return bytes.Equal(a.Owner, program)
}

func (a *AccountInfo) String() string {
	return "AccountInfo{" +
		"key=" + base58.Encode(a.Key) +
		",owner=" + base58.Encode(a.Owner) +
		",signer=" + strconv.FormatBool(a.IsSigner) +
		",writable=" + strconv.FormatBool(a.IsWritable) +
		"}"
}

// ExpectAccounts checks that exactly n accounts were supplied.
func ExpectAccounts(accounts []*AccountInfo, n int) error {
	if len(accounts) < n {
		return errors.Wrapf(ErrNotEnoughAccountKeys, "expected %d accounts, got %d", n, len(accounts))
	}
	if len(accounts) > n {
		return errors.Wrapf(ErrAccountShapeMismatch, "expected %d accounts, got %d", n, len(accounts))
	}
	return nil
}

// RequireWritable fails unless the invocation may modify the account. Checking
// it up front keeps a later write from failing after other accounts were
// already written.
func RequireWritable(account *AccountInfo) error {
	if !account.IsWritable {
		return errors.Wrapf(ErrReadonlyDataModified, "account %s", base58.Encode(account.Key))
	}
	return nil
}

// RequireSigner fails unless the account signed the invocation.
func RequireSigner(account *AccountInfo) error {
	if !account.IsSigner {
		return errors.Wrapf(ErrMissingRequiredSignature, "account %s", base58.Encode(account.Key))
	}
	return nil
}
