package ledger

import (
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/sutils/pkg/program"
)

// requireUninitialized checks that a new record of size bytes can be created
// in info: it must already be assigned to the ledger, be writable and large
// enough, and its discriminator slot must be empty unless force is set.
func requireUninitialized(info *program.AccountInfo, size int, force bool) error {
	if !info.IsOwnedBy(PROGRAM_ID) {
		return errors.Wrapf(program.ErrInvalidOwner, "account %s", base58.Encode(info.Key))
	}

	if err := program.RequireWritable(info); err != nil {
		return err
	}

	if info.DataLen() < size {
		return errors.Wrapf(
			program.ErrBufferTooSmall,
			"account %s holds %d bytes, need %d",
			base58.Encode(info.Key),
			info.DataLen(),
			size,
		)
	}

	data, release, err := info.BorrowData()
	if err != nil {
		return err
	}
	defer release()

	if data[0] != 0 && !force {
		return errors.Wrapf(program.ErrAccountAlreadyInitialized, "account %s", base58.Encode(info.Key))
	}
	return nil
}

// requireInitialized rejects a ledger account that was allocated but never
// had a record written to it. Anything else is left to program.AccountRead.
func requireInitialized(info *program.AccountInfo) error {
	if !info.IsOwnedBy(PROGRAM_ID) {
		return errors.Wrapf(program.ErrInvalidOwner, "account %s", base58.Encode(info.Key))
	}

	data, release, err := info.BorrowData()
	if err != nil {
		return err
	}
	defer release()

	if len(data) == 0 || data[0] == 0 {
		return errors.Wrapf(ErrUninitializedAccount, "account %s", base58.Encode(info.Key))
	}
	return nil
}
