package bmi

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/moffa90/go-bmi/protocol"
)

// versionReply is the outcome of the first step of target info negotiation.
// ByteCount is set only for FormatExtended.
type versionReply struct {
	Format    protocol.RecordFormat
	Version   uint32
	ByteCount uint32
}

// GetTargetInfo retrieves the target identity record.
//
// Targets that predate Get Target Info answer with a bare version word; for
// those the rest of the record is synthesized locally and no further bus
// reads are made. Later targets answer with the sentinel version and a byte
// count, which must equal protocol.TargetInfoSize.
//
// Example:
//
//	info, err := s.GetTargetInfo(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("version 0x%08X type %d\n", info.Version, info.Type)
func (s *Session) GetTargetInfo(ctx context.Context) (*protocol.TargetInfo, error) {
	if err := s.checkOpen(ctx); err != nil {
		return nil, err
	}

	s.logDebug("get target info: enter")

	if err := s.send(protocol.BuildGetTargetInfoCmd()); err != nil {
		s.logError("unable to write to the device", "error", err)
		return nil, fmt.Errorf("send get target info: %w", err)
	}

	reply, err := s.readVersion()
	if err != nil {
		s.logError("unable to read target version", "error", err)
		return nil, fmt.Errorf("read target version: %w", err)
	}

	var info *protocol.TargetInfo
	switch reply.Format {
	case protocol.FormatExtended:
		info, err = s.readExtendedInfo(reply)
		if err != nil {
			s.logError("unable to read target info", "byte_count", reply.ByteCount, "error", err)
			return nil, fmt.Errorf("read target info: %w", err)
		}
	default:
		info = protocol.LegacyTargetInfo(reply.Version)
	}

	s.logInfo("target info",
		"format", info.Format.String(),
		"version", fmt.Sprintf("0x%08X", info.Version),
		"type", info.Type,
	)

	return info, nil
}

// readVersion reads the version word and, for extended targets, the byte
// count that follows it.
func (s *Session) readVersion() (versionReply, error) {
	var word [protocol.WordSize]byte

	if err := s.receive(word[:], true); err != nil {
		return versionReply{}, err
	}
	version, err := protocol.ParseWord(word[:])
	if err != nil {
		return versionReply{}, err
	}

	if protocol.ClassifyVersion(version) == protocol.FormatLegacy {
		return versionReply{Format: protocol.FormatLegacy, Version: version}, nil
	}

	if err := s.receive(word[:], true); err != nil {
		return versionReply{}, fmt.Errorf("byte count: %w", err)
	}

	count, err := protocol.ParseWord(word[:])
	if err != nil {
		return versionReply{}, fmt.Errorf("byte count: %w", err)
	}

	return versionReply{
		Format:    protocol.FormatExtended,
		Version:   version,
		ByteCount: count,
	}, nil
}

// readExtendedInfo reads the record body that follows the byte count. The
// body starts with the version field, so the sentinel is replaced by the
// target's real version.
func (s *Session) readExtendedInfo(reply versionReply) (*protocol.TargetInfo, error) {
	if reply.ByteCount != protocol.TargetInfoSize {
		return nil, &TargetInfoSizeError{Expected: protocol.TargetInfoSize, Actual: reply.ByteCount}
	}

	record := make([]byte, protocol.TargetInfoSize)
	binary.LittleEndian.PutUint32(record[0:4], reply.ByteCount)

	if err := s.receive(record[protocol.WordSize:], true); err != nil {
		return nil, err
	}

	return protocol.ParseTargetInfo(record)
}
