// Package sim provides a simulated BMI target that implements bmi.Bus.
//
// The target models the parts of the mailbox interface the bootstrap
// protocol touches: the read-to-decrement and plain credit counters, the
// bootstrap mailbox and its receive FIFO, both readiness registers
// (HOST_INT_STATUS and RX_LOOKAHEAD_VALID), an optional pending-events
// query, and the scratch register. Commands are answered from simulated
// memory and SoC registers.
//
// Latency, missing credits, legacy target info records and bus faults can
// be configured so every error path of a session can be exercised without
// hardware:
//
//	target := sim.New(
//	    sim.WithReadyLatency(5),
//	    sim.WithRegisterNoise(0xA5A5A500),
//	)
//	target.InjectWriteError(target.MailboxAddress(), io.ErrUnexpectedEOF)
//
//	s := bmi.New(target)
package sim
