package bmi

import (
	"context"
	"fmt"

	"github.com/moffa90/go-bmi/protocol"
)

// WriteScratch writes the scratch register. Used while bringing up a new
// bus transport to check that register writes reach the target.
func (s *Session) WriteScratch(ctx context.Context, value uint32) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	if err := writeRegister(s.bus, protocol.ScratchAddress, value, "write scratch register"); err != nil {
		s.logError("unable to write scratch register", "error", err)
		return err
	}

	s.logDebug("scratch written", "value", fmt.Sprintf("0x%08X", value))
	return nil
}

// ReadScratch reads the scratch register.
func (s *Session) ReadScratch(ctx context.Context) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("cancelled: %w", err)
	}

	v, err := readRegister(s.bus, protocol.ScratchAddress, "read scratch register")
	if err != nil {
		s.logError("unable to read scratch register", "error", err)
		return 0, err
	}

	s.logDebug("scratch read", "value", fmt.Sprintf("0x%08X", v))
	return v, nil
}
