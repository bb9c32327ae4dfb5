package ledger

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/code-payments/sutils/pkg/solana/binary"
)

const BalanceAccountDiscriminator uint8 = 69

const BalanceAccountSize = (1 + // discriminator
	32 + // state
	32 + // owner
	8) // amount

// BalanceAccount holds the amount one owner deposited into the ledger state at
// State. It lives at the PDA derived from ("ledger_balance", state, owner).
type BalanceAccount struct {
	State  ed25519.PublicKey
	Owner  ed25519.PublicKey
	Amount uint64
}

func (*BalanceAccount) Discriminator() uint8 {
	return BalanceAccountDiscriminator
}

func (*BalanceAccount) SerializedSize() int {
	return BalanceAccountSize
}

func (obj *BalanceAccount) MarshalFields(dst []byte) {
	var offset int

	binary.PutKey32(dst, obj.State, &offset)
	binary.PutKey32(dst, obj.Owner, &offset)
	binary.PutUint64(dst, obj.Amount, &offset)
}

func (obj *BalanceAccount) UnmarshalFields(src []byte) {
	var offset int

	binary.GetKey32(src, &obj.State, &offset)
	binary.GetKey32(src, &obj.Owner, &offset)
	binary.GetUint64(src, &obj.Amount, &offset)
}

func (*BalanceAccount) ProgramID() ed25519.PublicKey {
	return PROGRAM_ID
}

func (obj *BalanceAccount) CreatePda() (ed25519.PublicKey, error) {
	address, _, err := GetBalanceAddress(&GetBalanceAddressArgs{
		State: obj.State,
		Owner: obj.Owner,
	})
	return address, err
}

func (obj *BalanceAccount) Clone() *BalanceAccount {
	state := make([]byte, len(obj.State))
	copy(state, obj.State)

	owner := make([]byte, len(obj.Owner))
	copy(owner, obj.Owner)

	return &BalanceAccount{
		State:  state,
		Owner:  owner,
		Amount: obj.Amount,
	}
}

func (obj *BalanceAccount) String() string {
	var state, owner string
	if obj.State != nil {
		state = base58.Encode(obj.State)
	}
	if obj.Owner != nil {
		owner = base58.Encode(obj.Owner)
	}

	return fmt.Sprintf(
		"BalanceAccount{state=%s,owner=%s,amount=%d}",
		state,
		owner,
		obj.Amount,
	)
}
