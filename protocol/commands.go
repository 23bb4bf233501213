package protocol

import (
	"encoding/binary"
)

// BuildGetTargetInfoCmd constructs a Get Target Info command.
//
// Command structure:
//
//	[CMD(4)]
func BuildGetTargetInfoCmd() []byte {
	return appendWords(nil, CmdGetTargetInfo)
}

// BuildDoneCmd constructs a Done command. The target does not respond.
//
// Command structure:
//
//	[CMD(4)]
func BuildDoneCmd() []byte {
	return appendWords(nil, CmdDone)
}

// BuildReadMemoryCmd constructs a Read Memory command for one chunk.
// The target responds with exactly length bytes.
//
// Command structure:
//
//	[CMD(4)][ADDR(4)][LEN(4)]
func BuildReadMemoryCmd(address uint32, length int) ([]byte, error) {
	if length <= 0 {
		return nil, newProtocolError("read memory", "length must be positive, got %d", length)
	}
	if length > MaxDataSize {
		return nil, newProtocolError("read memory", "length %d exceeds maximum %d bytes", length, MaxDataSize)
	}

	return appendWords(make([]byte, 0, ReadMemoryHeaderSize), CmdReadMemory, address, uint32(length)), nil
}

// BuildWriteMemoryCmd constructs a Write Memory command for one chunk.
// The target does not respond.
//
// Command structure:
//
//	[CMD(4)][ADDR(4)][LEN(4)][DATA...]
func BuildWriteMemoryCmd(address uint32, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, newProtocolError("write memory", "data cannot be empty")
	}
	if len(data) > MaxWriteChunk {
		return nil, newProtocolError("write memory", "data length %d exceeds maximum %d bytes", len(data), MaxWriteChunk)
	}

	cmd := make([]byte, 0, WriteMemoryHeaderSize+len(data))
	cmd = appendWords(cmd, CmdWriteMemory, address, uint32(len(data)))
	return append(cmd, data...), nil
}

// BuildExecuteCmd constructs an Execute command.
// The target responds with a 32-bit return value once the code completes.
//
// Command structure:
//
//	[CMD(4)][ADDR(4)][PARAM(4)]
func BuildExecuteCmd(address, param uint32) []byte {
	return appendWords(nil, CmdExecute, address, param)
}

// BuildSetAppStartCmd constructs a Set App Start command.
//
// Command structure:
//
//	[CMD(4)][ADDR(4)]
func BuildSetAppStartCmd(address uint32) []byte {
	return appendWords(nil, CmdSetAppStart, address)
}

// BuildReadSOCRegisterCmd constructs a Read SoC Register command.
// The target responds with the 32-bit register value.
//
// Command structure:
//
//	[CMD(4)][ADDR(4)]
func BuildReadSOCRegisterCmd(address uint32) []byte {
	return appendWords(nil, CmdReadSOCRegister, address)
}

// BuildWriteSOCRegisterCmd constructs a Write SoC Register command.
//
// Command structure:
//
//	[CMD(4)][ADDR(4)][VALUE(4)]
func BuildWriteSOCRegisterCmd(address, value uint32) []byte {
	return appendWords(nil, CmdWriteSOCRegister, address, value)
}

// ParseCommandID returns the command ID at the start of a command buffer.
func ParseCommandID(cmd []byte) (uint32, error) {
	if len(cmd) < WordSize {
		return 0, newProtocolError("parse command", "command too short: got %d bytes, minimum is %d", len(cmd), WordSize)
	}
	return binary.LittleEndian.Uint32(cmd[0:4]), nil
}

func appendWords(dst []byte, words ...uint32) []byte {
	if dst == nil {
		dst = make([]byte, 0, len(words)*WordSize)
	}
	for _, w := range words {
		dst = binary.LittleEndian.AppendUint32(dst, w)
	}
	return dst
}
