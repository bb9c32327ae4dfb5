package ledger

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/code-payments/sutils/pkg/solana/binary"
)

const StateAccountDiscriminator uint8 = 70

const StateAccountSize = (1 + // discriminator
	32 + // authority
	8 + // total_deposits
	1) // bump

// StateAccount is the per-authority ledger root. It lives at the PDA derived
// from ("ledger_state", authority), and tracks the sum of all balances opened
// against it. Balances record the state they belong to, and transfers only
// move a balance together with that state.
type StateAccount struct {
	Authority     ed25519.PublicKey
	TotalDeposits uint64
	Bump          uint8
}

func (*StateAccount) Discriminator() uint8 {
	return StateAccountDiscriminator
}

func (*StateAccount) SerializedSize() int {
	return StateAccountSize
}

func (obj *StateAccount) MarshalFields(dst []byte) {
	var offset int

	binary.PutKey32(dst, obj.Authority, &offset)
	binary.PutUint64(dst, obj.TotalDeposits, &offset)
	binary.PutUint8(dst, obj.Bump, &offset)
}

func (obj *StateAccount) UnmarshalFields(src []byte) {
	var offset int

	binary.GetKey32(src, &obj.Authority, &offset)
	binary.GetUint64(src, &obj.TotalDeposits, &offset)
	binary.GetUint8(src, &obj.Bump, &offset)
}

func (*StateAccount) ProgramID() ed25519.PublicKey {
	return PROGRAM_ID
}

// CreatePda re-derives the address from the stored bump, which skips the bump
// search.
func (obj *StateAccount) CreatePda() (ed25519.PublicKey, error) {
	return Deriver.CreateProgramAddress(
		PROGRAM_ID,
		statePrefix,
		obj.Authority,
		[]byte{obj.Bump},
	)
}

func (obj *StateAccount) Clone() *StateAccount {
	authority := make([]byte, len(obj.Authority))
	copy(authority, obj.Authority)

	return &StateAccount{
		Authority:     authority,
		TotalDeposits: obj.TotalDeposits,
		Bump:          obj.Bump,
	}
}

func (obj *StateAccount) String() string {
	var authority string
	if obj.Authority != nil {
		authority = base58.Encode(obj.Authority)
	}

	return fmt.Sprintf(
		"StateAccount{authority=%s,total_deposits=%d,bump=%d}",
		authority,
		obj.TotalDeposits,
		obj.Bump,
	)
}
