package bmi

import "github.com/moffa90/go-bmi/protocol"

// Config holds the session configuration.
type Config struct {
	// ProgressCallback is called during memory transfers to report progress (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// TimeoutBudget is the number of polls a bounded wait makes before
	// giving up. It is an iteration count, not a duration.
	TimeoutBudget int

	// Readiness decides whether a response word is waiting in the mailbox.
	// Used only when the transport has no pending-events query.
	Readiness ReadinessSource

	// Endpoint is the mailbox carrying bootstrap traffic
	Endpoint int

	// ConservativeRead also waits for a renewed command credit before
	// reading responses shorter than the mailbox FIFO, so the whole
	// response is buffered before the read starts.
	ConservativeRead bool

	// ChunkSize is the maximum data size per memory read or write command
	ChunkSize int
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		TimeoutBudget: protocol.CommunicationTimeout,
		Readiness:     LookaheadReadiness{},
		Endpoint:      protocol.Endpoint1,
		ChunkSize:     protocol.MaxDataSize,
	}
}

// Option is a functional option for configuring the Session.
type Option func(*Config)

// WithProgressCallback sets a callback function to track memory transfers.
//
// Example:
//
//	s := bmi.New(bus,
//	    bmi.WithProgressCallback(func(p bmi.Progress) {
//	        fmt.Printf("%.1f%% complete\n", p.Percentage)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the session operations.
//
// Example:
//
//	s := bmi.New(bus, bmi.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTimeoutBudget sets the number of polls a bounded wait makes.
// Non-positive values are ignored.
//
// Example:
//
//	s := bmi.New(bus, bmi.WithTimeoutBudget(1000))
func WithTimeoutBudget(iterations int) Option {
	return func(c *Config) {
		if iterations > 0 {
			c.TimeoutBudget = iterations
		}
	}
}

// WithReadinessSource sets how the session detects buffered response data.
//
// Example:
//
//	s := bmi.New(bus, bmi.WithReadinessSource(bmi.IntStatusReadiness{}))
func WithReadinessSource(src ReadinessSource) Option {
	return func(c *Config) {
		if src != nil {
			c.Readiness = src
		}
	}
}

// WithHardware selects the readiness source matching a mailbox hardware generation.
//
// Example:
//
//	s := bmi.New(bus, bmi.WithHardware(bmi.HardwareIntStatus))
func WithHardware(hw Hardware) Option {
	return func(c *Config) {
		c.Readiness = hw.ReadinessSource()
	}
}

// WithEndpoint sets the mailbox used for bootstrap traffic.
// Values outside the mailbox range are ignored.
func WithEndpoint(endpoint int) Option {
	return func(c *Config) {
		if endpoint >= 0 && endpoint < protocol.MailboxCount {
			c.Endpoint = endpoint
		}
	}
}

// WithConservativeRead enables or disables the response credit check.
// Default is false.
//
// Example:
//
//	s := bmi.New(bus, bmi.WithConservativeRead(true))
func WithConservativeRead(enabled bool) Option {
	return func(c *Config) {
		c.ConservativeRead = enabled
	}
}

// WithChunkSize sets the maximum data size per memory command.
// Default is protocol.MaxDataSize. Write chunks are further limited to
// protocol.MaxWriteChunk.
//
// Example:
//
//	s := bmi.New(bus, bmi.WithChunkSize(64))
func WithChunkSize(size int) Option {
	return func(c *Config) {
		if size > 0 && size <= protocol.MaxDataSize {
			c.ChunkSize = size
		}
	}
}
