package protocol

// TargetInfoSize is the size of TargetInfo on the wire and the byte count
// an extended target must report.
const TargetInfoSize = 12

// TargetInfo is the target identity record returned by Get Target Info.
//
// Wire layout (little-endian):
//
//	[BYTE_COUNT(4)][VERSION(4)][TYPE(4)]
type TargetInfo struct {
	// ByteCount is the size of the record as reported by the target.
	// Synthesized as TargetInfoSize for legacy targets.
	ByteCount uint32

	// Version is the target version ID
	Version uint32

	// Type is the target type. Synthesized as TargetTypeAR6001 for legacy targets.
	Type uint32

	// Format records how the target answered. It is not part of the wire record.
	Format RecordFormat
}

// Legacy reports whether the record was synthesized for a target that
// predates Get Target Info. An extended target may still report
// TargetTypeAR6001.
func (t *TargetInfo) Legacy() bool {
	return t.Format == FormatLegacy
}

// RecordFormat identifies how a target answers Get Target Info.
type RecordFormat int

const (
	// FormatLegacy targets send a bare version word and nothing else
	FormatLegacy RecordFormat = iota

	// FormatExtended targets send the sentinel, a byte count, then the record
	FormatExtended
)

// String returns a human-readable format name.
func (f RecordFormat) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatExtended:
		return "extended"
	default:
		return "unknown"
	}
}

// ClassifyVersion maps the first word of a Get Target Info reply to the
// record format that follows it.
func ClassifyVersion(version uint32) RecordFormat {
	if version == TargetVersionSentinel {
		return FormatExtended
	}
	return FormatLegacy
}

// LegacyTargetInfo builds the record a legacy target would have sent had
// it supported Get Target Info.
func LegacyTargetInfo(version uint32) *TargetInfo {
	return &TargetInfo{
		ByteCount: TargetInfoSize,
		Version:   version,
		Type:      TargetTypeAR6001,
		Format:    FormatLegacy,
	}
}
