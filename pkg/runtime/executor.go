package runtime

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"sync"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/sutils/pkg/metrics"
	"github.com/code-payments/sutils/pkg/program"
	"github.com/code-payments/sutils/pkg/solana"
)

const (
	metricsStructName = "runtime.executor"

	executeEventName      = "InstructionExecuted"
	executeDurationMetric = "Runtime.Execute.Duration"
	executeSuccessMetric  = "Runtime.Execute.Success"
	executeFailureMetric  = "Runtime.Execute.Failure"
)

var (
	ErrUnknownProgram           = program.NewError(solana.InstructionErrorUnsupportedProgramID, "unknown program")
	ErrProgramAlreadyRegistered = errors.New("program already registered")
	ErrNoInstructions           = errors.New("no instructions to execute")
)

// Entrypoint is a program's instruction handler.
type Entrypoint func(programID ed25519.PublicKey, accounts []*program.AccountInfo, data []byte) error

// Executor runs instructions against a Bank. A call to Execute is atomic: the
// bank sees every write of every instruction, or none of them.
type Executor struct {
	log   *logrus.Entry
	bank  *Bank
	locks *accountLocks

	programsMu sync.RWMutex
	programs   map[string]Entrypoint
}

// NewExecutor returns an Executor over bank. Stripes bounds the number of
// account locks; keys hashing to the same stripe serialize.
func NewExecutor(bank *Bank, stripes uint) *Executor {
	return &Executor{
		log:      logrus.StandardLogger().WithField("type", "runtime/executor"),
		bank:     bank,
		locks:    newAccountLocks(stripes),
		programs: make(map[string]Entrypoint),
	}
}

// Register routes instructions for programID to entrypoint.
func (e *Executor) Register(programID ed25519.PublicKey, entrypoint Entrypoint) error {
	e.programsMu.Lock()
	defer e.programsMu.Unlock()

	if _, ok := e.programs[string(programID)]; ok {
		return errors.Wrapf(ErrProgramAlreadyRegistered, "program %s", base58.Encode(programID))
	}

	e.programs[string(programID)] = entrypoint
	return nil
}

func (e *Executor) entrypoint(programID ed25519.PublicKey) (Entrypoint, error) {
	e.programsMu.RLock()
	defer e.programsMu.RUnlock()

	entrypoint, ok := e.programs[string(programID)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownProgram, "program %s", base58.Encode(programID))
	}
	return entrypoint, nil
}

// workingAccount is the in-flight copy of a bank account for one Execute call
type workingAccount struct {
	key   ed25519.PublicKey
	owner ed25519.PublicKey
	data  []byte
}

// Execute runs instructions in order. The first failure aborts the call and
// discards all of its writes.
func (e *Executor) Execute(ctx context.Context, instructions ...solana.Instruction) (err error) {
	span := metrics.StartSpan(ctx, metricsStructName, "Execute")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.RecordDuration(ctx, executeDurationMetric, time.Since(start))
		if err == nil {
			metrics.RecordCount(ctx, executeSuccessMetric, 1)
		} else {
			metrics.RecordCount(ctx, executeFailureMetric, 1)
		}
		span.Fail(err)
	}()

	if len(instructions) == 0 {
		return ErrNoInstructions
	}

	entrypoints := make([]Entrypoint, len(instructions))
	for i, ix := range instructions {
		entrypoints[i], err = e.entrypoint(ix.Program)
		if err != nil {
			return err
		}
	}

	keys := lockSet(instructions)
	unlock := e.locks.lockAll(keys)
	defer unlock()

	working, err := e.load(instructions)
	if err != nil {
		return err
	}

	for i, ix := range instructions {
		err = e.executeOne(ctx, entrypoints[i], ix, working)
		if err != nil {
			e.log.WithError(err).WithFields(logrus.Fields{
				"method":    "Execute",
				"program":   base58.Encode(ix.Program),
				"index":     i,
				"error_key": program.KeyOf(err),
			}).Info("instruction failed, discarding writes")
			return err
		}
	}

	updates := make(map[string][]byte)
	for key, account := range working {
		if keys[key] {
			updates[key] = account.data
		}
	}
	e.bank.commit(updates)

	e.log.WithFields(logrus.Fields{
		"method":           "Execute",
		"instructions":     len(instructions),
		"updated_accounts": len(updates),
	}).Debug("committed instructions")

	span.SetAttribute("instructions", len(instructions))
	span.SetAttribute("updated_accounts", len(updates))
	return nil
}

func (e *Executor) executeOne(ctx context.Context, entrypoint Entrypoint, ix solana.Instruction, working map[string]*workingAccount) error {
	infos := make([]*program.AccountInfo, len(ix.Accounts))
	shared := make(map[string]*program.AccountInfo)
	readonly := make(map[string][]byte)

	for i, meta := range ix.Accounts {
		key := string(meta.PublicKey)

		// Repeated references to one account share a single view of it
		if info, ok := shared[key]; ok {
			info.IsSigner = info.IsSigner || meta.IsSigner
			info.IsWritable = info.IsWritable || meta.IsWritable
			infos[i] = info
			continue
		}

		account := working[key]
		info := program.NewAccountInfo(account.key, account.owner, account.data, meta.IsSigner, meta.IsWritable)
		shared[key] = info
		infos[i] = info
	}

	for key, info := range shared {
		if !info.IsWritable {
			readonly[key] = append([]byte{}, working[key].data...)
		}
	}

	err := entrypoint(ix.Program, infos, ix.Data)

	metrics.RecordEvent(ctx, executeEventName, map[string]interface{}{
		"program":   base58.Encode(ix.Program),
		"accounts":  len(ix.Accounts),
		"data_size": len(ix.Data),
		"success":   err == nil,
		"error_key": string(program.KeyOf(err)),
	})

	if err != nil {
		return err
	}

	for key, before := range readonly {
		if !bytes.Equal(before, working[key].data) {
			return errors.Wrapf(program.ErrReadonlyDataModified, "account %s", base58.Encode(working[key].key))
		}
	}
	return nil
}

func (e *Executor) load(instructions []solana.Instruction) (map[string]*workingAccount, error) {
	working := make(map[string]*workingAccount)
	for _, ix := range instructions {
		for _, meta := range ix.Accounts {
			key := string(meta.PublicKey)
			if _, ok := working[key]; ok {
				continue
			}

			account, err := e.bank.Get(meta.PublicKey)
			if err != nil {
				return nil, err
			}

			working[key] = &workingAccount{
				key:   account.Key,
				owner: account.Owner,
				data:  account.Data,
			}
		}
	}
	return working, nil
}

func lockSet(instructions []solana.Instruction) map[string]bool {
	keys := make(map[string]bool)
	for _, ix := range instructions {
		for _, meta := range ix.Accounts {
			key := string(meta.PublicKey)
			keys[key] = keys[key] || meta.IsWritable
		}
	}
	return keys
}
