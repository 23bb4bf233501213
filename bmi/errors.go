package bmi

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrTimeout indicates a polling budget ran out before the target answered.
	ErrTimeout = errors.New("communication timeout")

	// ErrBusIO indicates the bus transport failed a transfer.
	ErrBusIO = errors.New("bus I/O error")

	// ErrContractViolation indicates the target broke the wire contract.
	ErrContractViolation = errors.New("protocol contract violation")

	// ErrSessionDone indicates a command was issued after Done.
	ErrSessionDone = errors.New("BMI done already sent")

	// ErrInvalidArgument indicates a caller-supplied buffer or value was unusable.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Phase names the polling loop a TimeoutError came from.
type Phase string

// Polling phases.
const (
	PhaseCredit         Phase = "command credit"
	PhaseReadiness      Phase = "response data"
	PhaseResponseCredit Phase = "response credit"
)

// TimeoutError indicates a polling loop exhausted its iteration budget.
type TimeoutError struct {
	Phase      Phase
	Iterations int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("communication timeout waiting for %s after %d polls", e.Phase, e.Iterations)
}

// Is reports whether target is ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// BusError indicates the bus transport failed a transfer or a
// configuration query. Address, Length and Mode are zero for queries.
type BusError struct {
	// Op describes what the session was doing
	Op      string
	Address uint32
	Length  int
	Mode    Mode
	Err     error
}

func (e *BusError) Error() string {
	if e.Address == 0 && e.Length == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s at 0x%04X (%d bytes, %s): %v", e.Op, e.Address, e.Length, e.Mode, e.Err)
}

// Unwrap returns the transport error.
func (e *BusError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrBusIO.
func (e *BusError) Is(target error) bool {
	return target == ErrBusIO
}

// TargetInfoSizeError indicates an extended target reported a target info
// byte count that differs from the host's record size.
type TargetInfoSizeError struct {
	Expected uint32
	Actual   uint32
}

func (e *TargetInfoSizeError) Error() string {
	return fmt.Sprintf("target info size mismatch: host expects %d bytes, target reports %d", e.Expected, e.Actual)
}

// Is reports whether target is ErrContractViolation.
func (e *TargetInfoSizeError) Is(target error) bool {
	return target == ErrContractViolation
}
