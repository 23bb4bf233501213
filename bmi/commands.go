package bmi

import (
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-bmi/protocol"
)

// Done ends the bootstrap conversation. The target starts its firmware and
// the session rejects every later command with ErrSessionDone.
func (s *Session) Done(ctx context.Context) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}

	if err := s.exchange(protocol.BuildDoneCmd(), nil, true); err != nil {
		return fmt.Errorf("done: %w", err)
	}

	s.done = true
	s.logInfo("BMI done")
	return nil
}

// ReadMemory reads length bytes of target memory starting at address,
// one chunk per command.
func (s *Session) ReadMemory(ctx context.Context, address uint32, length int) ([]byte, error) {
	if err := s.checkOpen(ctx); err != nil {
		return nil, err
	}
	if length <= 0 {
		return nil, fmt.Errorf("%w: length must be positive, got %d", ErrInvalidArgument, length)
	}

	startTime := time.Now()
	data := make([]byte, length)

	for offset := 0; offset < length; {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("cancelled: %w", err)
		}

		n := min(length-offset, s.config.ChunkSize)
		chunkAddr := address + uint32(offset)

		cmd, err := protocol.BuildReadMemoryCmd(chunkAddr, n)
		if err != nil {
			return nil, err
		}
		if err := s.exchange(cmd, data[offset:offset+n], true); err != nil {
			return nil, fmt.Errorf("read memory at 0x%08X (%d bytes): %w", chunkAddr, n, err)
		}

		offset += n
		s.reportProgress("read memory", chunkAddr, offset, length, startTime)
	}

	s.logDebug("memory read", "address", fmt.Sprintf("0x%08X", address), "length", length)
	return data, nil
}

// WriteMemory writes data to target memory starting at address,
// one chunk per command.
func (s *Session) WriteMemory(ctx context.Context, address uint32, data []byte) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: data cannot be empty", ErrInvalidArgument)
	}

	startTime := time.Now()
	chunkSize := min(s.config.ChunkSize, protocol.MaxWriteChunk)

	for offset := 0; offset < len(data); {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		n := min(len(data)-offset, chunkSize)
		chunkAddr := address + uint32(offset)

		cmd, err := protocol.BuildWriteMemoryCmd(chunkAddr, data[offset:offset+n])
		if err != nil {
			return err
		}
		if err := s.exchange(cmd, nil, true); err != nil {
			return fmt.Errorf("write memory at 0x%08X (%d bytes): %w", chunkAddr, n, err)
		}

		offset += n
		s.reportProgress("write memory", chunkAddr, offset, len(data), startTime)
	}

	s.logDebug("memory written", "address", fmt.Sprintf("0x%08X", address), "length", len(data))
	return nil
}

// Execute runs target code at address with param and returns its result.
// The reply is awaited without bound since execution time is up to the target.
func (s *Session) Execute(ctx context.Context, address, param uint32) (uint32, error) {
	if err := s.checkOpen(ctx); err != nil {
		return 0, err
	}

	var resp [protocol.WordSize]byte
	if err := s.exchange(protocol.BuildExecuteCmd(address, param), resp[:], false); err != nil {
		return 0, fmt.Errorf("execute at 0x%08X: %w", address, err)
	}

	result, err := protocol.ParseWord(resp[:])
	if err != nil {
		return 0, fmt.Errorf("execute at 0x%08X: %w", address, err)
	}
	s.logDebug("executed", "address", fmt.Sprintf("0x%08X", address), "param", param, "result", result)
	return result, nil
}

// SetAppStart sets the firmware entry point used once Done is sent.
func (s *Session) SetAppStart(ctx context.Context, address uint32) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}

	if err := s.exchange(protocol.BuildSetAppStartCmd(address), nil, true); err != nil {
		return fmt.Errorf("set app start 0x%08X: %w", address, err)
	}
	return nil
}

// ReadSOCRegister reads a 32-bit SoC register.
func (s *Session) ReadSOCRegister(ctx context.Context, address uint32) (uint32, error) {
	if err := s.checkOpen(ctx); err != nil {
		return 0, err
	}

	var resp [protocol.WordSize]byte
	if err := s.exchange(protocol.BuildReadSOCRegisterCmd(address), resp[:], true); err != nil {
		return 0, fmt.Errorf("read SoC register 0x%08X: %w", address, err)
	}
	value, err := protocol.ParseWord(resp[:])
	if err != nil {
		return 0, fmt.Errorf("read SoC register 0x%08X: %w", address, err)
	}
	return value, nil
}

// WriteSOCRegister writes a 32-bit SoC register.
func (s *Session) WriteSOCRegister(ctx context.Context, address, value uint32) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}

	if err := s.exchange(protocol.BuildWriteSOCRegisterCmd(address, value), nil, true); err != nil {
		return fmt.Errorf("write SoC register 0x%08X: %w", address, err)
	}
	return nil
}

// reportProgress calls the progress callback if configured.
func (s *Session) reportProgress(op string, address uint32, done, total int, startTime time.Time) {
	if s.config.ProgressCallback == nil {
		return
	}
	s.config.ProgressCallback(Progress{
		Op:          op,
		Address:     address,
		BytesDone:   done,
		BytesTotal:  total,
		Percentage:  float64(done) / float64(total) * 100,
		ElapsedTime: time.Since(startTime),
	})
}
