// Package protocol implements the wire contract of the Bootstrap Message
// Interface (BMI), the request/response protocol a host uses to talk to a
// wireless target over its mailbox interface before the target firmware runs.
//
// # Protocol Overview
//
// Every command is a sequence of little-endian 32-bit words starting with
// the command ID, optionally followed by raw data:
//
//	Command:  [CMD(4)][ARG(4)...][DATA...]
//	Response: [DATA...]
//
// Responses carry no header. The host knows the response length from the
// command it sent, and commands such as Done or Write Memory have no
// response at all.
//
// # Command Builders
//
// Use the Build* functions to create command buffers:
//
//	cmd := protocol.BuildGetTargetInfoCmd()
//	cmd, err := protocol.BuildReadMemoryCmd(0x00400000, 64)
//	cmd := protocol.BuildExecuteCmd(0x00940000, 0)
//
// # Target Info
//
// Get Target Info has two reply formats. Targets that predate the command
// reply with a bare version word; later targets reply with
// TargetVersionSentinel, a byte count, and the record:
//
//	Legacy:   [VERSION(4)]
//	Extended: [SENTINEL(4)][BYTE_COUNT(4)][VERSION(4)][TYPE(4)]
//
// ClassifyVersion tells the two apart and LegacyTargetInfo synthesizes the
// record a legacy target never sends.
//
// # Registers
//
// The mailbox interface also exposes credit counters and data-ready status
// registers. Their addresses and masks are defined here so both the host
// session and simulated targets agree on them.
package protocol
