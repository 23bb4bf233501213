package protocol

// Command IDs (BMI opcodes). Every command starts with its ID as a
// little-endian 32-bit word.
const (
	// CmdNoCommand is reserved and never sent
	CmdNoCommand = 0x00

	// CmdDone ends the bootstrap conversation; the target starts its firmware
	CmdDone = 0x01

	// CmdReadMemory reads a block of target memory
	CmdReadMemory = 0x02

	// CmdWriteMemory writes a block of target memory
	CmdWriteMemory = 0x03

	// CmdExecute runs code at an address and returns a 32-bit result
	CmdExecute = 0x04

	// CmdSetAppStart sets the firmware entry point used after CmdDone
	CmdSetAppStart = 0x05

	// CmdReadSOCRegister reads a 32-bit SoC register
	CmdReadSOCRegister = 0x06

	// CmdWriteSOCRegister writes a 32-bit SoC register
	CmdWriteSOCRegister = 0x07

	// CmdGetTargetInfo requests the target identity/version record
	CmdGetTargetInfo = 0x08
)

// Target info negotiation constants.
const (
	// TargetVersionSentinel is the version word sent by targets that follow
	// it with a self-describing, length-prefixed target info record.
	TargetVersionSentinel = 0xFFFFFFFF

	// TargetTypeAR6001 is the target type synthesized for targets that
	// predate CmdGetTargetInfo.
	TargetTypeAR6001 = 1

	// TargetTypeAR6002 and later are reported by the target itself.
	TargetTypeAR6002 = 2
	TargetTypeAR6003 = 3
	TargetTypeAR6004 = 5
)

// Mailbox layout.
const (
	// MailboxCount is the number of mailboxes (logical endpoints) exposed by the target
	MailboxCount = 4

	// Endpoint1 is the mailbox used for all bootstrap traffic
	Endpoint1 = 0

	// MailboxFIFOSize is the receive FIFO depth of a mailbox in bytes
	MailboxFIFOSize = 128

	// MailboxBaseAddress is the bus address of mailbox 0
	MailboxBaseAddress = 0x800

	// MailboxWidth is the address span of one mailbox
	MailboxWidth = 0x800
)

// Register addresses of the mailbox interface.
const (
	// HostIntStatusAddress holds per-mailbox data-pending bits (SDIO 3.0 targets)
	HostIntStatusAddress = 0x400

	// RxLookaheadValidAddress holds per-mailbox lookahead-valid bits (earlier targets)
	RxLookaheadValidAddress = 0x405

	// CountAddress is the base of the non-decrementing credit counters.
	// One byte per counter.
	CountAddress = 0x420

	// CountDecAddress is the base of the read-to-decrement credit counters.
	// One 4-byte aligned word per counter.
	CountDecAddress = 0x440

	// ScratchAddress is the scratch register used during bus bring-up
	ScratchAddress = 0x864
)

// Register field masks.
const (
	// HostIntStatusMboxDataMask selects the mailbox data bits of HostIntStatusAddress
	HostIntStatusMboxDataMask = 0x0F

	// HostIntStatusMboxDataShift is the bit offset of the mailbox data field
	HostIntStatusMboxDataShift = 0

	// CreditMask keeps the 8-bit credit counter out of a 4-byte register read
	CreditMask = 0xFF
)

// CommunicationTimeout is the default polling budget, in iterations, for
// credit acquisition and readiness waits.
const CommunicationTimeout = 100000

// Sizes of wire fields and payloads.
const (
	// WordSize is the size of every command field on the wire
	WordSize = 4

	// RegisterSize is the size of every register access
	RegisterSize = 4

	// MaxDataSize is the largest command or response buffer the target accepts
	MaxDataSize = 256

	// ReadMemoryHeaderSize is [CMD][ADDR][LEN]
	ReadMemoryHeaderSize = 3 * WordSize

	// WriteMemoryHeaderSize is [CMD][ADDR][LEN]
	WriteMemoryHeaderSize = 3 * WordSize

	// MaxWriteChunk is the largest payload carried by one write memory command
	MaxWriteChunk = MaxDataSize - WriteMemoryHeaderSize
)
