package bmi

import "github.com/moffa90/go-bmi/protocol"

// Mode selects how the bus transport addresses a transfer.
type Mode int

const (
	// ModeReadIncrement reads with an auto-incrementing address
	ModeReadIncrement Mode = iota

	// ModeReadFixed reads repeatedly from the same address
	ModeReadFixed

	// ModeWriteIncrement writes with an auto-incrementing address
	ModeWriteIncrement
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeReadIncrement:
		return "read-inc"
	case ModeReadFixed:
		return "read-fix"
	case ModeWriteIncrement:
		return "write-inc"
	default:
		return "unknown"
	}
}

// IsRead reports whether the mode transfers data from the target.
func (m Mode) IsRead() bool {
	return m == ModeReadIncrement || m == ModeReadFixed
}

// MailboxTable maps each mailbox (logical endpoint) to its bus address.
type MailboxTable [protocol.MailboxCount]uint32

// PendingEvents reports how many received bytes are buffered per mailbox.
type PendingEvents struct {
	AvailableRecvBytes [protocol.MailboxCount]uint32
}

// PendingEventsFunc queries the transport for buffered receive bytes.
// Transports that can answer this cheaply expose it so sessions can skip
// status register polling.
type PendingEventsFunc func() (PendingEvents, error)

// Bus is the bus transport capability a Session drives.
//
// Implementations perform a single synchronous transfer per call and must
// not retry on their own. The session never issues concurrent calls.
//
// This package does NOT implement a transport. Users provide one for their
// interconnect (SDIO, SPI, a USB bridge, or a simulated target):
//
//	type MySDIO struct{ ... }
//
//	func (d *MySDIO) MailboxAddresses() (bmi.MailboxTable, error)    { ... }
//	func (d *MySDIO) PendingEventsFunc() (bmi.PendingEventsFunc, error) { return nil, nil }
//	func (d *MySDIO) ReadWrite(addr uint32, buf []byte, mode bmi.Mode) error { ... }
type Bus interface {
	// MailboxAddresses returns the bus address of every mailbox.
	MailboxAddresses() (MailboxTable, error)

	// PendingEventsFunc returns the transport's pending-events query,
	// or nil if it has none.
	PendingEventsFunc() (PendingEventsFunc, error)

	// ReadWrite transfers len(buf) bytes at address.
	ReadWrite(address uint32, buf []byte, mode Mode) error
}
