package protocol

import "fmt"

// ProtocolError represents a malformed command or response buffer.
type ProtocolError struct {
	// Operation is the command being built or parsed
	Operation string

	// Message describes what was wrong with the buffer
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// IsProtocolError returns true if the error is a ProtocolError.
func IsProtocolError(err error) bool {
	_, ok := err.(*ProtocolError)
	return ok
}

func newProtocolError(op, format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{Operation: op, Message: fmt.Sprintf(format, args...)}
}

// CommandName returns a human-readable name for a command ID.
func CommandName(cmd uint32) string {
	switch cmd {
	case CmdNoCommand:
		return "no command"
	case CmdDone:
		return "done"
	case CmdReadMemory:
		return "read memory"
	case CmdWriteMemory:
		return "write memory"
	case CmdExecute:
		return "execute"
	case CmdSetAppStart:
		return "set app start"
	case CmdReadSOCRegister:
		return "read SoC register"
	case CmdWriteSOCRegister:
		return "write SoC register"
	case CmdGetTargetInfo:
		return "get target info"
	default:
		return fmt.Sprintf("unknown command 0x%02X", cmd)
	}
}
