package bmi

import (
	"encoding/binary"

	"github.com/moffa90/go-bmi/protocol"
)

// creditCounterIndex is the counter tracking command credits for a mailbox.
// The first MailboxCount counters track the mailboxes' data path.
func creditCounterIndex(endpoint int) uint32 {
	return uint32(protocol.MailboxCount + endpoint)
}

// maskCredit keeps the 8-bit counter out of a 4-byte register read.
func maskCredit(reg uint32) uint32 {
	return reg & protocol.CreditMask
}

// acquireCredit waits until the target can accept a command buffer.
//
// Each read of the decrementing counter consumes the credit it reports, so
// polling stops at the first non-zero value and never reads again for the
// same send. The counter is 8 bits wide but accessed as an aligned 4-byte
// word; the first byte hits the counter and the rest are ignored.
func (s *Session) acquireCredit() (uint32, error) {
	address := protocol.CountDecAddress + creditCounterIndex(s.config.Endpoint)*protocol.RegisterSize

	s.credits = 0
	var buf [protocol.RegisterSize]byte
	for i := 0; i < s.config.TimeoutBudget && s.credits == 0; i++ {
		if err := s.bus.ReadWrite(address, buf[:], ModeReadIncrement); err != nil {
			return 0, &BusError{Op: "decrement credit counter", Address: address, Length: len(buf), Mode: ModeReadIncrement, Err: err}
		}
		s.credits = maskCredit(binary.LittleEndian.Uint32(buf[:]))
	}

	if s.credits == 0 {
		return 0, &TimeoutError{Phase: PhaseCredit, Iterations: s.config.TimeoutBudget}
	}
	return s.credits, nil
}

// awaitResponseCredit waits for the target to return a command credit,
// which it does only once the whole response sits in the mailbox FIFO.
// The plain counter does not decrement on read, so it is polled with
// fixed-address reads.
func (s *Session) awaitResponseCredit(bounded bool) error {
	address := protocol.CountAddress + creditCounterIndex(s.config.Endpoint)

	s.credits = 0
	var buf [protocol.RegisterSize]byte
	for i := 0; (!bounded || i < s.config.TimeoutBudget) && s.credits == 0; i++ {
		if err := s.bus.ReadWrite(address, buf[:], ModeReadFixed); err != nil {
			return &BusError{Op: "read credit count", Address: address, Length: len(buf), Mode: ModeReadFixed, Err: err}
		}
		s.credits = maskCredit(binary.LittleEndian.Uint32(buf[:]))
	}

	if s.credits == 0 {
		return &TimeoutError{Phase: PhaseResponseCredit, Iterations: s.config.TimeoutBudget}
	}
	return nil
}
