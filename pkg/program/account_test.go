package program

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountSerialize(t *testing.T) {
	fooBar := newFooBar()

	data := ToBytes(fooBar)
	require.Len(t, data, fooBarSize)
	assert.EqualValues(t, 69, data[0])

	decoded, err := TryFromBytes[FooBar](data)
	require.NoError(t, err)
	assert.Equal(t, fooBar, decoded)
	assert.Equal(t, "9yyz5BqahoXPivcGdBKpgqt5dbTTLELNW8LkPRwWagqs", base58.Encode(decoded.Key))
	assert.EqualValues(t, 420691337, decoded.Amount)
}

func TestAccountSerialize_LargeAmount(t *testing.T) {
	fooBar := newFooBar()
	fooBar.Amount = 420_69_1337_1234

	decoded, err := TryFromBytes[FooBar](ToBytes(fooBar))
	require.NoError(t, err)
	assert.EqualValues(t, 420_69_1337_1234, decoded.Amount)
}

func TestAccountWriteInto(t *testing.T) {
	fooBar := newFooBar()
	expected := fooBar.Clone()

	buffer := make([]byte, fooBarSize)
	require.NoError(t, AccountWriteInto(&fooBar, buffer))

	// The binding is consumed by the write
	assert.Nil(t, fooBar)

	decoded, err := TryFromBytes[FooBar](buffer)
	require.NoError(t, err)
	assert.Equal(t, expected, decoded)
}

func TestIntoBytes_BufferTooSmall(t *testing.T) {
	buffer := bytes.Repeat([]byte{0xab}, fooBarSize-1)
	original := append([]byte{}, buffer...)

	err := IntoBytes(newFooBar(), buffer)
	assert.True(t, errors.Is(err, ErrBufferTooSmall))
	assert.Equal(t, original, buffer)

	fooBar := newFooBar()
	err = AccountWriteInto(&fooBar, buffer)
	assert.True(t, errors.Is(err, ErrBufferTooSmall))
	assert.Equal(t, original, buffer)
	assert.Nil(t, fooBar)
}

func TestIntoBytes_LargerBuffer(t *testing.T) {
	buffer := bytes.Repeat([]byte{0xab}, fooBarSize+8)

	require.NoError(t, IntoBytes(newFooBar(), buffer))
	assert.Equal(t, ToBytes(newFooBar()), buffer[:fooBarSize])
	assert.Equal(t, bytes.Repeat([]byte{0xab}, 8), buffer[fooBarSize:])
}

func TestTryFromBytes_InvalidDiscriminator(t *testing.T) {
	_, err := TryFromBytes[FooBar]([]byte{4, 2, 0})
	assert.True(t, errors.Is(err, ErrDiscriminatorMismatch))

	data := ToBytes(newFooBar())
	for b := 0; b < 256; b++ {
		if b == 69 {
			continue
		}

		corrupted := append([]byte{}, data...)
		corrupted[0] = byte(b)

		_, err := TryFromBytes[FooBar](corrupted)
		assert.True(t, errors.Is(err, ErrDiscriminatorMismatch), "discriminator %d", b)
	}
}

func TestTryFromBytes_Undersized(t *testing.T) {
	_, err := TryFromBytes[FooBar](nil)
	assert.True(t, errors.Is(err, ErrAccountDataTooShort))

	_, err = TryFromBytes[FooBar]([]byte{})
	assert.True(t, errors.Is(err, ErrAccountDataTooShort))

	// Right tag, truncated fields
	_, err = TryFromBytes[FooBar]([]byte{69, 1, 2})
	assert.True(t, errors.Is(err, ErrAccountDataTooShort))

	_, err = FromBytes[FooBar](ToBytes(newFooBar())[:fooBarSize-1])
	assert.True(t, errors.Is(err, ErrAccountDataTooShort))
}

func TestFromBytes_TrustsDiscriminator(t *testing.T) {
	data := ToBytes(newFooBar())
	data[0] = 1

	decoded, err := FromBytes[FooBar](data)
	require.NoError(t, err)
	assert.Equal(t, newFooBar(), decoded)
}

func newFooBarAccountInfo(t *testing.T, fooBar *FooBar) *AccountInfo {
	address, err := fooBar.CreatePda()
	require.NoError(t, err)

	return NewAccountInfo(address, fooBarProgramID, ToBytes(fooBar), false, true)
}

func TestAccountRead(t *testing.T) {
	info := newFooBarAccountInfo(t, newFooBar())

	actual, err := AccountRead[FooBar](info)
	require.NoError(t, err)
	assert.Equal(t, newFooBar(), actual)

	// Borrows are released after the read
	_, release, err := info.BorrowMutData()
	require.NoError(t, err)
	release()
}

func TestAccountRead_InvalidOwner(t *testing.T) {
	info := newFooBarAccountInfo(t, newFooBar())
	info.Owner = ed25519.PublicKey(bytes.Repeat([]byte{1}, ed25519.PublicKeySize))

	_, err := AccountRead[FooBar](info)
	assert.True(t, errors.Is(err, ErrInvalidOwner))

	// Owner is checked before the data is even looked at
	data, release, err := info.BorrowMutData()
	require.NoError(t, err)
	data[0] = 0
	release()

	_, err = AccountRead[FooBar](info)
	assert.True(t, errors.Is(err, ErrInvalidOwner))
}

func TestAccountRead_DiscriminatorMismatch(t *testing.T) {
	info := newFooBarAccountInfo(t, newFooBar())
	info.Key = ed25519.PublicKey(bytes.Repeat([]byte{2}, ed25519.PublicKeySize))

	data, release, err := info.BorrowMutData()
	require.NoError(t, err)
	data[0] = 70
	release()

	// Both the tag and the address are wrong, the tag is reported
	_, err = AccountRead[FooBar](info)
	assert.True(t, errors.Is(err, ErrDiscriminatorMismatch))
}

func TestAccountRead_AddressMismatch(t *testing.T) {
	// A valid record planted at an address derived from another key
	planted := newFooBar()
	info := newFooBarAccountInfo(t, planted)

	other := newFooBar()
	other.Key = bytes.Repeat([]byte{3}, ed25519.PublicKeySize)
	otherAddress, err := other.CreatePda()
	require.NoError(t, err)
	info.Key = otherAddress

	_, err = AccountRead[FooBar](info)
	assert.True(t, errors.Is(err, ErrAddressMismatch))
}

func TestAccountRead_BorrowConflict(t *testing.T) {
	info := newFooBarAccountInfo(t, newFooBar())

	_, release, err := info.BorrowMutData()
	require.NoError(t, err)

	_, err = AccountRead[FooBar](info)
	assert.True(t, errors.Is(err, ErrAccountBorrowFailed))

	release()

	_, err = AccountRead[FooBar](info)
	assert.NoError(t, err)
}

func TestAccountWrite(t *testing.T) {
	original := newFooBar()
	info := newFooBarAccountInfo(t, original)

	fooBar, err := AccountRead[FooBar](info)
	require.NoError(t, err)

	fooBar.Amount += 1000
	expected := fooBar.Clone()

	require.NoError(t, AccountWrite(&fooBar, info))
	assert.Nil(t, fooBar)

	actual, err := AccountRead[FooBar](info)
	require.NoError(t, err)
	assert.Equal(t, expected, actual)
}

func TestAccountWrite_Readonly(t *testing.T) {
	info := newFooBarAccountInfo(t, newFooBar())
	info.IsWritable = false

	fooBar := newFooBar()
	fooBar.Amount = 1

	err := AccountWrite(&fooBar, info)
	assert.True(t, errors.Is(err, ErrReadonlyDataModified))

	actual, err := AccountRead[FooBar](info)
	require.NoError(t, err)
	assert.Equal(t, newFooBar(), actual)
}

func TestAccountWrite_BufferTooSmall(t *testing.T) {
	data := bytes.Repeat([]byte{0xcd}, fooBarSize-10)
	info := NewAccountInfo(nil, fooBarProgramID, data, false, true)

	fooBar := newFooBar()
	err := AccountWrite(&fooBar, info)
	assert.True(t, errors.Is(err, ErrBufferTooSmall))
	assert.Equal(t, bytes.Repeat([]byte{0xcd}, fooBarSize-10), data)
}

func TestAccountWrite_BorrowConflict(t *testing.T) {
	info := newFooBarAccountInfo(t, newFooBar())

	_, release, err := info.BorrowData()
	require.NoError(t, err)
	defer release()

	fooBar := newFooBar()
	err = AccountWrite(&fooBar, info)
	assert.True(t, errors.Is(err, ErrAccountBorrowFailed))
}
