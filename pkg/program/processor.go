package program

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = logrus.StandardLogger().WithField("type", "program")

// Log emits a program log line, the equivalent of msg! in on-chain programs.
func Log(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// InstructionProcessor handles one instruction type against the accounts it
// was constructed from. T is the optional result of Validations handed to
// Process, such as a bump seed found while checking an address, so Process
// doesn't need to derive it again. Processors with nothing to hand over use
// None.
type InstructionProcessor[Ix any, T any] interface {
	// LogIx logs the instruction being invoked.
	LogIx()

	// Validations checks the instruction inputs and accounts without mutating
	// anything.
	Validations(ix Ix) (*T, error)

	// Process runs the business logic. It's only invoked after Validations
	// succeeded.
	Process(ix Ix, validationsResult *T) error
}

// None is the validation result of processors that don't produce one.
type None struct{}

// Stage is the step of the pipeline an invocation failed in.
//
// The pipeline moves Init -> Validated -> Executed. Building the processor
// from the accounts is the Init step; Validated is entered once it exists, and
// runs the log and validation steps; Executed is entered once Process returns
// without error. Any failure ends the invocation.
type Stage uint8

const (
	StageFromAccounts Stage = iota
	StageValidations
	StageProcess
)

func (s Stage) String() string {
	switch s {
	case StageFromAccounts:
		return "from_accounts"
	case StageValidations:
		return "validations"
	case StageProcess:
		return "process"
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// StageError records which pipeline stage an error came out of.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage err was raised in, if it came out of the pipeline.
func StageOf(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}
	return 0, false
}

// TryProcess runs the log, validate and execute steps in order. Process is
// never reached when Validations fails.
func TryProcess[Ix any, T any](p InstructionProcessor[Ix, T], ix Ix) error {
	p.LogIx()

	validationsResult, err := p.Validations(ix)
	if err != nil {
		return &StageError{Stage: StageValidations, Err: err}
	}

	if err := p.Process(ix, validationsResult); err != nil {
		return &StageError{Stage: StageProcess, Err: err}
	}

	return nil
}

// Run is the full pipeline for one invocation: build the processor from the
// supplied accounts, then TryProcess.
func Run[Ix any, T any](
	fromAccounts func(accounts []*AccountInfo) (InstructionProcessor[Ix, T], error),
	accounts []*AccountInfo,
	ix Ix,
) error {
	p, err := fromAccounts(accounts)
	if err != nil {
		return &StageError{Stage: StageFromAccounts, Err: err}
	}

	return TryProcess(p, ix)
}
