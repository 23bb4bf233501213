package bmi

import (
	"fmt"

	"github.com/moffa90/go-bmi/protocol"
)

// ReadinessSource reports whether at least one 32-bit word of response
// data is buffered in a mailbox.
type ReadinessSource interface {
	WordAvailable(bus Bus, endpoint int) (bool, error)
	String() string
}

// Hardware identifies a mailbox hardware generation.
type Hardware int

const (
	// HardwareLookahead targets flag buffered data in RX_LOOKAHEAD_VALID
	HardwareLookahead Hardware = iota

	// HardwareIntStatus targets (SDIO 3.0) flag buffered data in the
	// mailbox data field of HOST_INT_STATUS
	HardwareIntStatus
)

// String returns a human-readable hardware name.
func (h Hardware) String() string {
	switch h {
	case HardwareLookahead:
		return "lookahead"
	case HardwareIntStatus:
		return "intstatus"
	default:
		return "unknown"
	}
}

// ReadinessSource returns the status register poller for the generation.
func (h Hardware) ReadinessSource() ReadinessSource {
	if h == HardwareIntStatus {
		return IntStatusReadiness{}
	}
	return LookaheadReadiness{}
}

// ParseHardware maps a hardware name to its Hardware value.
func ParseHardware(name string) (Hardware, error) {
	switch name {
	case "lookahead", "":
		return HardwareLookahead, nil
	case "intstatus", "sdio3":
		return HardwareIntStatus, nil
	default:
		return 0, fmt.Errorf("%w: unknown hardware %q", ErrInvalidArgument, name)
	}
}

// IntStatusReadiness polls HOST_INT_STATUS and extracts the mailbox data field.
type IntStatusReadiness struct{}

func (IntStatusReadiness) WordAvailable(bus Bus, endpoint int) (bool, error) {
	v, err := readRegister(bus, protocol.HostIntStatusAddress, "read int status register")
	if err != nil {
		return false, err
	}
	data := (v >> protocol.HostIntStatusMboxDataShift) & protocol.HostIntStatusMboxDataMask
	return data&(1<<endpoint) != 0, nil
}

func (IntStatusReadiness) String() string { return "int status register" }

// LookaheadReadiness polls the raw RX_LOOKAHEAD_VALID bitmask.
type LookaheadReadiness struct{}

func (LookaheadReadiness) WordAvailable(bus Bus, endpoint int) (bool, error) {
	v, err := readRegister(bus, protocol.RxLookaheadValidAddress, "read rx lookahead register")
	if err != nil {
		return false, err
	}
	return v&(1<<endpoint) != 0, nil
}

func (LookaheadReadiness) String() string { return "rx lookahead register" }

// pendingEventsReadiness asks the transport instead of reading registers.
type pendingEventsReadiness struct {
	fn PendingEventsFunc
}

func (p pendingEventsReadiness) WordAvailable(_ Bus, endpoint int) (bool, error) {
	events, err := p.fn()
	if err != nil {
		return false, &BusError{Op: "get pending events", Err: err}
	}
	return events.AvailableRecvBytes[endpoint] >= protocol.WordSize, nil
}

func (pendingEventsReadiness) String() string { return "pending events" }
