package bmi

import (
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-bmi/protocol"
)

// Exchange sends a command and, if response is non-nil, reads exactly
// len(response) bytes of reply into it.
//
// A zero timeout waits for the reply without bound, for commands such as
// Execute whose latency depends on target-side work. Any other value bounds
// every wait by the session's polling budget; polls are counted, not timed.
//
// The context is checked before the command is sent. Once bus traffic
// starts the exchange runs to completion, timeout, or bus error.
//
// Example:
//
//	resp := make([]byte, 4)
//	err := s.Exchange(ctx, protocol.BuildReadSOCRegisterCmd(addr), resp, time.Second)
func (s *Session) Exchange(ctx context.Context, request, response []byte, timeout time.Duration) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}
	if len(request) == 0 {
		return fmt.Errorf("%w: request cannot be empty", ErrInvalidArgument)
	}

	return s.exchange(request, response, timeout != 0)
}

// exchange runs one send/receive cycle on an open session.
func (s *Session) exchange(request, response []byte, bounded bool) error {
	command := commandName(request)

	if err := s.send(request); err != nil {
		s.logError("unable to send message to device", "command", command, "error", err)
		return fmt.Errorf("send: %w", err)
	}

	if response != nil {
		if err := s.receive(response, bounded); err != nil {
			s.logError("unable to read response", "command", command, "length", len(response), "error", err)
			return fmt.Errorf("receive: %w", err)
		}
	}

	s.logDebug("exchange complete", "command", command, "sent", len(request), "received", len(response), "bounded", bounded)
	return nil
}

// Send writes a raw buffer to the bootstrap mailbox once a command credit
// is available. It fails with ErrSessionDone after Done.
func (s *Session) Send(ctx context.Context, buf []byte) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}
	return s.send(buf)
}

// Receive reads exactly len(buf) raw bytes from the bootstrap mailbox once
// response data is buffered. An unbounded receive polls until data arrives.
// It fails with ErrSessionDone after Done.
func (s *Session) Receive(ctx context.Context, buf []byte, bounded bool) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}
	return s.receive(buf, bounded)
}

// send acquires one credit and writes the whole buffer in a single
// transfer. Without a credit nothing is written.
func (s *Session) send(buf []byte) error {
	address, err := s.mailboxAddress()
	if err != nil {
		return err
	}

	if _, err := s.acquireCredit(); err != nil {
		s.logError("no command credit", "error", err)
		return err
	}

	if err := s.bus.ReadWrite(address, buf, ModeWriteIncrement); err != nil {
		return &BusError{Op: "write mailbox", Address: address, Length: len(buf), Mode: ModeWriteIncrement, Err: err}
	}
	return nil
}

// receive waits for the first response word before reading, so a silent
// target surfaces as a timeout instead of a stalled or garbage bus read.
//
// Responses longer than the mailbox FIFO cannot be fully buffered before
// the read starts; only the first word is awaited for them.
func (s *Session) receive(buf []byte, bounded bool) error {
	address, err := s.mailboxAddress()
	if err != nil {
		return err
	}

	if len(buf) >= protocol.WordSize {
		if err := s.awaitWord(bounded); err != nil {
			return err
		}
	}

	if s.config.ConservativeRead && len(buf) > protocol.WordSize && len(buf) < protocol.MailboxFIFOSize {
		if err := s.awaitResponseCredit(bounded); err != nil {
			return err
		}
	}

	if err := s.bus.ReadWrite(address, buf, ModeReadIncrement); err != nil {
		return &BusError{Op: "read mailbox", Address: address, Length: len(buf), Mode: ModeReadIncrement, Err: err}
	}
	return nil
}

// awaitWord polls the readiness source until a response word is buffered.
func (s *Session) awaitWord(bounded bool) error {
	src, err := s.readiness()
	if err != nil {
		return err
	}

	for i := 0; !bounded || i < s.config.TimeoutBudget; i++ {
		ok, err := src.WordAvailable(s.bus, s.config.Endpoint)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}

	s.logError("mailbox FIFO empty", "source", src.String(), "polls", s.config.TimeoutBudget)
	return &TimeoutError{Phase: PhaseReadiness, Iterations: s.config.TimeoutBudget}
}

// checkOpen rejects commands after Done or on a cancelled context.
func (s *Session) checkOpen(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}
	if s.done {
		return ErrSessionDone
	}
	return nil
}

// commandName names the command a raw request carries, for log lines.
func commandName(request []byte) string {
	id, err := protocol.ParseCommandID(request)
	if err != nil {
		return "raw"
	}
	return protocol.CommandName(id)
}
