package sim

import "github.com/moffa90/go-bmi/protocol"

// Default identity of a simulated target.
const (
	DefaultVersion = 0x31C80997
	DefaultType    = protocol.TargetTypeAR6004
)

// Config holds the simulated target configuration.
type Config struct {
	// Endpoint is the mailbox carrying bootstrap traffic
	Endpoint int

	// Credits is the number of command credits available at start
	Credits uint32

	// CreditRefill returns one credit after every handled command
	CreditRefill bool

	// ReadyLatency is the number of status polls that report no data
	// after a response is queued
	ReadyLatency int

	// NeverReady keeps the data-pending bits clear regardless of the FIFO
	NeverReady bool

	// PendingEvents exposes a pending-events query through the bus
	PendingEvents bool

	// RegisterNoise is OR-ed into the unused upper bytes of counter and
	// status register reads
	RegisterNoise uint32

	// Legacy targets answer Get Target Info with a bare version word
	Legacy bool

	// Version and Type are reported by Get Target Info
	Version uint32
	Type    uint32

	// ByteCount is the record size an extended target reports
	ByteCount uint32

	// Execute computes the result of an Execute command (optional).
	// By default the parameter is echoed back.
	Execute func(address, param uint32) uint32

	// Handlers override the built-in handling of individual commands
	Handlers map[uint32]Handler
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Endpoint:     protocol.Endpoint1,
		Credits:      1,
		CreditRefill: true,
		Version:      DefaultVersion,
		Type:         DefaultType,
		ByteCount:    protocol.TargetInfoSize,
		Handlers:     make(map[uint32]Handler),
	}
}

// Option is a functional option for configuring the Target.
type Option func(*Config)

// WithEndpoint sets the mailbox carrying bootstrap traffic.
func WithEndpoint(endpoint int) Option {
	return func(c *Config) {
		if endpoint >= 0 && endpoint < protocol.MailboxCount {
			c.Endpoint = endpoint
		}
	}
}

// WithCredits sets the initial command credit count.
func WithCredits(n uint32) Option {
	return func(c *Config) {
		c.Credits = n & protocol.CreditMask
	}
}

// WithoutCredits simulates a target that never grants a command credit.
//
// Example:
//
//	target := sim.New(sim.WithoutCredits())
func WithoutCredits() Option {
	return func(c *Config) {
		c.Credits = 0
		c.CreditRefill = false
	}
}

// WithReadyLatency delays data-pending reporting by polls status reads.
//
// Example:
//
//	target := sim.New(sim.WithReadyLatency(3))
func WithReadyLatency(polls int) Option {
	return func(c *Config) {
		if polls >= 0 {
			c.ReadyLatency = polls
		}
	}
}

// WithNeverReady simulates a target whose response never lands in the FIFO.
func WithNeverReady() Option {
	return func(c *Config) {
		c.NeverReady = true
	}
}

// WithPendingEvents exposes a pending-events query through the bus.
func WithPendingEvents() Option {
	return func(c *Config) {
		c.PendingEvents = true
	}
}

// WithRegisterNoise sets garbage in the upper three bytes of register reads.
func WithRegisterNoise(noise uint32) Option {
	return func(c *Config) {
		c.RegisterNoise = noise &^ protocol.CreditMask
	}
}

// WithLegacyTarget simulates a target that predates Get Target Info.
//
// Example:
//
//	target := sim.New(sim.WithLegacyTarget(0x20000188))
func WithLegacyTarget(version uint32) Option {
	return func(c *Config) {
		c.Legacy = true
		c.Version = version
	}
}

// WithTargetInfo sets the version and type an extended target reports.
func WithTargetInfo(version, targetType uint32) Option {
	return func(c *Config) {
		c.Legacy = false
		c.Version = version
		c.Type = targetType
	}
}

// WithByteCount sets the record size an extended target reports.
func WithByteCount(n uint32) Option {
	return func(c *Config) {
		c.ByteCount = n
	}
}

// WithExecute sets how Execute commands compute their result.
func WithExecute(fn func(address, param uint32) uint32) Option {
	return func(c *Config) {
		c.Execute = fn
	}
}

// WithHandler overrides the handling of one command ID.
//
// Example:
//
//	target := sim.New(sim.WithHandler(protocol.CmdDone, func([]byte) []byte {
//	    return []byte{0xAA, 0xBB, 0xCC, 0xDD}
//	}))
func WithHandler(cmd uint32, h Handler) Option {
	return func(c *Config) {
		c.Handlers[cmd] = h
	}
}
