package bmi

import (
	"encoding/binary"
	"fmt"

	"github.com/rs/xid"

	"github.com/moffa90/go-bmi/protocol"
)

// Session owns the bootstrap conversation with one target.
//
// The credit count, mailbox table and pending-events hook live here rather
// than in package state, so several targets can be driven side by side.
// A Session is NOT safe for concurrent use: the protocol allows exactly one
// outstanding command, and callers must serialize access.
type Session struct {
	bus    Bus
	config Config
	id     string

	mbox         MailboxTable
	mboxResolved bool

	pendingEvents   PendingEventsFunc
	pendingResolved bool

	// credits is the last command credit count read from the target.
	credits uint32

	done bool
}

// New creates a new Session on the given bus with the given options.
//
// Example:
//
//	bus := mysdio.Open("mmc1:0001:1")
//	s := bmi.New(bus,
//	    bmi.WithHardware(bmi.HardwareIntStatus),
//	    bmi.WithLogger(bmi.NewSlogLogger(slog.Default())),
//	)
func New(bus Bus, opts ...Option) *Session {
	if bus == nil {
		panic("bus cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{
		bus:    bus,
		config: cfg,
		id:     xid.New().String(),
	}
}

// ID returns the session identifier attached to every log line.
func (s *Session) ID() string {
	return s.id
}

// Credits returns the command credit count seen by the last credit poll.
func (s *Session) Credits() uint32 {
	return s.credits
}

// IsDone reports whether Done has been sent.
func (s *Session) IsDone() bool {
	return s.done
}

// mailboxAddress returns the bus address of the bootstrap mailbox. The
// table is queried once and reused for the rest of the session.
func (s *Session) mailboxAddress() (uint32, error) {
	if !s.mboxResolved {
		table, err := s.bus.MailboxAddresses()
		if err != nil {
			return 0, &BusError{Op: "get mailbox addresses", Err: err}
		}
		s.mbox = table
		s.mboxResolved = true
		s.logDebug("mailbox table resolved", "endpoint", s.config.Endpoint,
			"address", fmt.Sprintf("0x%04X", table[s.config.Endpoint]))
	}
	return s.mbox[s.config.Endpoint], nil
}

// readiness returns the transport's pending-events hook when it has one,
// otherwise the configured register poller. The hook is looked up once.
func (s *Session) readiness() (ReadinessSource, error) {
	if !s.pendingResolved {
		fn, err := s.bus.PendingEventsFunc()
		if err != nil {
			return nil, &BusError{Op: "get pending events function", Err: err}
		}
		s.pendingEvents = fn
		s.pendingResolved = true
		s.logDebug("pending events hook resolved", "available", fn != nil)
	}
	if s.pendingEvents != nil {
		return pendingEventsReadiness{fn: s.pendingEvents}, nil
	}
	return s.config.Readiness, nil
}

// readRegister performs a 4-byte incrementing read and decodes it little-endian.
func readRegister(bus Bus, address uint32, op string) (uint32, error) {
	var buf [protocol.RegisterSize]byte
	if err := bus.ReadWrite(address, buf[:], ModeReadIncrement); err != nil {
		return 0, &BusError{Op: op, Address: address, Length: len(buf), Mode: ModeReadIncrement, Err: err}
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// writeRegister performs a 4-byte incrementing write of a little-endian value.
func writeRegister(bus Bus, address, value uint32, op string) error {
	var buf [protocol.RegisterSize]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	if err := bus.ReadWrite(address, buf[:], ModeWriteIncrement); err != nil {
		return &BusError{Op: op, Address: address, Length: len(buf), Mode: ModeWriteIncrement, Err: err}
	}
	return nil
}

// logDebug logs a debug message if a logger is configured.
func (s *Session) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, append([]interface{}{"session", s.id}, keysAndValues...)...)
	}
}

// logInfo logs an info message if a logger is configured.
func (s *Session) logInfo(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Info(msg, append([]interface{}{"session", s.id}, keysAndValues...)...)
	}
}

// logError logs an error message if a logger is configured.
func (s *Session) logError(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Error(msg, append([]interface{}{"session", s.id}, keysAndValues...)...)
	}
}
