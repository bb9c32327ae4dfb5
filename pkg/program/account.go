package program

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/sutils/pkg/solana"
)

// AccountSerializer encodes an account record into its fixed layout:
// the discriminator at offset 0 followed by SerializedSize()-1 bytes of fields.
type AccountSerializer interface {
	AccountDiscriminator

	// SerializedSize is the total encoded length, discriminator included. It
	// is a per-type constant.
	SerializedSize() int

	// MarshalFields writes the fields into dst, which is exactly
	// SerializedSize()-1 bytes long.
	MarshalFields(dst []byte)
}

// AccountDeserializer decodes an account record from its fixed layout.
type AccountDeserializer interface {
	AccountDiscriminator

	SerializedSize() int

	// UnmarshalFields reads the fields from src, which is exactly
	// SerializedSize()-1 bytes long. Length has been checked by the caller.
	UnmarshalFields(src []byte)
}

// ProgramOwned names the program that must own an account type.
type ProgramOwned interface {
	ProgramID() ed25519.PublicKey
}

// PdaDeriver recomputes the address a record must live at from the record's
// own seed fields.
type PdaDeriver interface {
	ProgramOwned

	CreatePda() (ed25519.PublicKey, error)
}

// AccountReader is everything AccountRead needs to load a record safely.
type AccountReader interface {
	AccountDeserializer
	PdaDeriver
}

// ToBytes encodes account into a freshly allocated buffer of exactly
// SerializedSize() bytes.
func ToBytes(account AccountSerializer) []byte {
	data := make([]byte, account.SerializedSize())
	encode(account, data)
	return data
}

// IntoBytes encodes account into the first SerializedSize() bytes of buffer.
// The buffer is left untouched when it's too small.
func IntoBytes(account AccountSerializer, buffer []byte) error {
	size := account.SerializedSize()
	if len(buffer) < size {
		return errors.Wrapf(ErrBufferTooSmall, "need %d bytes, got %d", size, len(buffer))
	}

	encode(account, buffer[:size])
	return nil
}

func encode(account AccountSerializer, dst []byte) {
	dst[0] = account.Discriminator()
	account.MarshalFields(dst[1:])
}

// FromBytes decodes data without checking the discriminator. Use it only on
// bytes whose type is already established; TryFromBytes is the checked form.
// Undersized input fails with ErrAccountDataTooShort.
func FromBytes[T any, PT interface {
	*T
	AccountDeserializer
}](data []byte) (PT, error) {
	account := PT(new(T))

	size := account.SerializedSize()
	if len(data) < size {
		return nil, errors.Wrapf(ErrAccountDataTooShort, "need %d bytes, got %d", size, len(data))
	}

	account.UnmarshalFields(data[1:size])
	return account, nil
}

// TryFromBytes validates the discriminator at data[0] before decoding.
func TryFromBytes[T any, PT interface {
	*T
	AccountDeserializer
}](data []byte) (PT, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrAccountDataTooShort, "empty account data")
	}

	expected := PT(new(T)).Discriminator()
	if data[0] != expected {
		return nil, errors.Wrapf(ErrDiscriminatorMismatch, "expected %d, got %d", expected, data[0])
	}

	return FromBytes[T, PT](data)
}

// AccountRead loads a record from info, checking in order:
//
//  1. the account is owned by the record's program
//  2. the data carries the record's discriminator and decodes
//  3. the account lives at the address derived from the decoded record
//
// The third check stops a record that was written by some other program, and
// later reassigned, from passing as ours: its bytes may decode fine, but it
// cannot sit at the address our seeds derive to.
func AccountRead[T any, PT interface {
	*T
	AccountReader
}](info *AccountInfo) (PT, error) {
	programID := PT(new(T)).ProgramID()
	if !info.IsOwnedBy(programID) {
		return nil, errors.Wrapf(
			ErrInvalidOwner,
			"account %s owned by %s, expected %s",
			base58.Encode(info.Key),
			base58.Encode(info.Owner),
			base58.Encode(programID),
		)
	}

	account, err := readData[T, PT](info)
	if err != nil {
		return nil, err
	}

	// Seeds that don't derive to any address can't match the account
	expected, err := account.CreatePda()
	if err != nil {
		return nil, errors.Wrapf(
			ErrAddressMismatch,
			"account %s: failed to derive address: %v",
			base58.Encode(info.Key),
			err,
		)
	}
	if !bytes.Equal(expected, info.Key) {
		return nil, errors.Wrapf(
			ErrAddressMismatch,
			"account %s, expected %s",
			base58.Encode(info.Key),
			base58.Encode(expected),
		)
	}

	return account, nil
}

func readData[T any, PT interface {
	*T
	AccountDeserializer
}](info *AccountInfo) (PT, error) {
	data, release, err := info.BorrowData()
	if err != nil {
		return nil, err
	}
	defer release()

	return TryFromBytes[T, PT](data)
}

// AccountWrite persists the record *account points at into info, and clears
// *account before doing so.
//
// Writing is the commit point for a record: once handed over, the caller's
// binding is gone, so a record can't be mutated after it was persisted, or
// written twice from a stale copy. Pass the address of the only binding:
//
//	err := program.AccountWrite(&state, stateInfo) // state == nil afterwards
func AccountWrite[A AccountSerializer](account *A, info *AccountInfo) error {
	record := take(account)

	if !info.IsWritable {
		return errors.Wrapf(ErrReadonlyDataModified, "account %s", base58.Encode(info.Key))
	}

	data, release, err := info.BorrowMutData()
	if err != nil {
		return err
	}
	defer release()

	return IntoBytes(record, data)
}

// AccountWriteInto is AccountWrite against a raw buffer.
func AccountWriteInto[A AccountSerializer](account *A, buffer []byte) error {
	return IntoBytes(take(account), buffer)
}

func take[A any](binding *A) A {
	record := *binding
	var zero A
	*binding = zero
	return record
}

// DerivePda finds the canonical address and bump for seeds under programID.
func DerivePda(deriver solana.AddressDeriver, programID ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, uint8, error) {
	address, bump, err := deriver.FindProgramAddress(programID, seeds...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to derive program address")
	}
	return address, bump, nil
}
