package program

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"

	"github.com/code-payments/sutils/pkg/solana"
	"github.com/code-payments/sutils/pkg/solana/binary"
	_ "github.com/code-payments/sutils/pkg/testutil"
)

var fooBarProgramID = ed25519.PublicKey(mustBase58Decode("BPFLoader1111111111111111111111111111111111"))

const fooBarSize = (1 + // discriminator
	32 + // key
	8) // amount

// FooBar is PDA governed by ("foo_bar", key).
type FooBar struct {
	Key    ed25519.PublicKey
	Amount uint64
}

func (*FooBar) Discriminator() uint8 {
	return 69
}

func (*FooBar) SerializedSize() int {
	return fooBarSize
}

func (f *FooBar) MarshalFields(dst []byte) {
	var offset int
	binary.PutKey32(dst, f.Key, &offset)
	binary.PutUint64(dst, f.Amount, &offset)
}

func (f *FooBar) UnmarshalFields(src []byte) {
	var offset int
	binary.GetKey32(src, &f.Key, &offset)
	binary.GetUint64(src, &f.Amount, &offset)
}

func (*FooBar) ProgramID() ed25519.PublicKey {
	return fooBarProgramID
}

func (f *FooBar) CreatePda() (ed25519.PublicKey, error) {
	address, _, err := DerivePda(solana.DefaultDeriver, fooBarProgramID, []byte("foo_bar"), f.Key)
	return address, err
}

func (f *FooBar) Clone() *FooBar {
	key := make([]byte, len(f.Key))
	copy(key, f.Key)
	return &FooBar{Key: key, Amount: f.Amount}
}

func newFooBar() *FooBar {
	return &FooBar{
		Key:    mustBase58Decode("9yyz5BqahoXPivcGdBKpgqt5dbTTLELNW8LkPRwWagqs"),
		Amount: 420691337,
	}
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
