package protocol

import (
	"encoding/binary"
)

// ParseWord decodes a 4-byte little-endian response word, as returned by
// Execute, Read SoC Register and the first step of Get Target Info.
func ParseWord(data []byte) (uint32, error) {
	if len(data) != WordSize {
		return 0, newProtocolError("parse word", "invalid data length: got %d bytes, expected %d", len(data), WordSize)
	}
	return binary.LittleEndian.Uint32(data), nil
}

// ParseTargetInfo decodes a complete TargetInfoSize record sent by an
// extended target.
//
// Data format:
//
//	[BYTE_COUNT(4)][VERSION(4)][TYPE(4)]
func ParseTargetInfo(data []byte) (*TargetInfo, error) {
	if len(data) != TargetInfoSize {
		return nil, newProtocolError("parse target info", "invalid data length: got %d bytes, expected %d", len(data), TargetInfoSize)
	}

	return &TargetInfo{
		ByteCount: binary.LittleEndian.Uint32(data[0:4]),
		Version:   binary.LittleEndian.Uint32(data[4:8]),
		Type:      binary.LittleEndian.Uint32(data[8:12]),
		Format:    FormatExtended,
	}, nil
}

// MarshalBinary encodes the record in its wire layout.
func (t *TargetInfo) MarshalBinary() ([]byte, error) {
	return appendWords(make([]byte, 0, TargetInfoSize), t.ByteCount, t.Version, t.Type), nil
}

// EncodeWord encodes a single little-endian response word.
func EncodeWord(v uint32) []byte {
	return appendWords(nil, v)
}
