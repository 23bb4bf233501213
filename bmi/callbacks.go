package bmi

import (
	"context"
	"log/slog"
	"time"
)

// Progress contains information about a chunked memory transfer.
// Passed to ProgressCallback after every chunk.
type Progress struct {
	// Op is the operation in flight: "read memory" or "write memory"
	Op string

	// Address is the target address of the current chunk
	Address uint32

	// BytesDone is the number of bytes transferred so far
	BytesDone int

	// BytesTotal is the size of the whole transfer
	BytesTotal int

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// ElapsedTime is the time elapsed since the transfer started
	ElapsedTime time.Duration
}

// ProgressCallback is called after every chunk of a memory transfer.
// Implementations should return quickly; the bus is idle while it runs.
//
// Example:
//
//	s := bmi.New(bus,
//	    bmi.WithProgressCallback(func(p bmi.Progress) {
//	        fmt.Printf("[%s] %.1f%% - %d/%d bytes\n",
//	            p.Op, p.Percentage, p.BytesDone, p.BytesTotal)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the session.
// This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	s := bmi.New(bus, bmi.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

// NewSlogLogger adapts a *slog.Logger to Logger. A nil logger uses slog.Default().
//
// Example:
//
//	s := bmi.New(bus, bmi.WithLogger(bmi.NewSlogLogger(slog.Default())))
func NewSlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger.With("component", "bmi")}
}

type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Log(context.Background(), slog.LevelDebug, msg, keysAndValues...)
}

func (l *slogLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Log(context.Background(), slog.LevelInfo, msg, keysAndValues...)
}

func (l *slogLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Log(context.Background(), slog.LevelError, msg, keysAndValues...)
}
