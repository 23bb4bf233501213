// Package bmi drives the Bootstrap Message Interface conversation with a
// wireless target over its mailbox bus, before the target firmware and its
// interrupts are running.
//
// # Overview
//
// Every exchange follows the same cycle:
//   - Poll the read-to-decrement credit counter until the target can accept a command
//   - Write the command to the bootstrap mailbox in one transfer
//   - Poll until the first response word is buffered
//   - Read the response in one transfer
//
// All waits are busy polls bounded by an iteration budget, not a clock.
//
// # Basic Usage
//
//	// User provides the bus transport (bmi.Bus)
//	bus := mysdio.Open("mmc1:0001:1")
//
//	s := bmi.New(bus)
//
//	info, err := s.GetTargetInfo(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("target type %d version 0x%08X\n", info.Type, info.Version)
//
// # Hardware Generations
//
// Targets signal buffered response data differently. SDIO 3.0 targets set
// the mailbox data field of HOST_INT_STATUS; earlier targets set
// RX_LOOKAHEAD_VALID. Pick one when creating the session:
//
//	s := bmi.New(bus, bmi.WithHardware(bmi.HardwareIntStatus))
//
// If the transport reports buffered byte counts itself (Bus.PendingEventsFunc),
// that query is used instead of either register.
//
// # Configuration Options
//
//	s := bmi.New(bus,
//	    bmi.WithLogger(bmi.NewSlogLogger(slog.Default())),
//	    bmi.WithTimeoutBudget(10000),
//	    bmi.WithConservativeRead(true),
//	    bmi.WithChunkSize(64),
//	    bmi.WithProgressCallback(progressFunc),
//	)
//
// # Error Handling
//
// Failures fall into three classes, all local to one exchange and never
// retried by this package:
//   - BusError (errors.Is ErrBusIO): the transport failed a transfer
//   - TimeoutError (errors.Is ErrTimeout): the target did not answer within the budget
//   - TargetInfoSizeError (errors.Is ErrContractViolation): the target's
//     record layout does not match the host's
//
// # Concurrency
//
// A Session is not safe for concurrent use. The protocol allows one
// outstanding command, and the session's credit count and cached transport
// queries assume a single caller.
package bmi
