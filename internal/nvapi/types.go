// Package nvapi describes the boundary to the NVIDIA driver API: the raw record
// layouts the display-config calls read and write, the status codes they return,
// and the Driver interface the rest of nvdisplay talks to.
//
// The record types mirror the driver's C layouts field for field; Go's natural
// alignment produces the same padding, so they are passed to the driver as-is.
package nvapi

import "unsafe"

// Resolution mirrors NV_RESOLUTION.
type Resolution struct {
	Width      uint32
	Height     uint32
	ColorDepth uint32
}

// Position mirrors NV_POSITION.
type Position struct {
	X int32
	Y int32
}

// Source mode flag bits.
const (
	SourceFlagGDIPrimary uint32 = 1 << 0
	SourceFlagSLIFocus   uint32 = 1 << 1
)

// SourceModeInfo mirrors NV_DISPLAYCONFIG_SOURCE_MODE_INFO_V1.
type SourceModeInfo struct {
	Resolution          Resolution
	ColorFormat         uint32
	Position            Position
	SpanningOrientation uint32
	Flags               uint32
}

// TimingExt mirrors NV_TIMINGEXT.
type TimingExt struct {
	Flag   uint32
	RR     uint16
	RRx1k  uint32
	Aspect uint32
	Rep    uint16
	Status uint32
	Name   [40]byte
}

// Timing mirrors NV_TIMING.
type Timing struct {
	HVisible    uint16
	HBorder     uint16
	HFrontPorch uint16
	HSyncWidth  uint16
	HTotal      uint16
	HSyncPol    uint8
	VVisible    uint16
	VBorder     uint16
	VFrontPorch uint16
	VSyncWidth  uint16
	VTotal      uint16
	VSyncPol    uint8
	Interlaced  uint16
	Pclk        uint32
	Etc         TimingExt
}

// Advanced target flag bits.
const (
	TargetFlagInterlaced                uint32 = 1 << 0
	TargetFlagPrimary                   uint32 = 1 << 1
	TargetFlagDisableVirtualModeSupport uint32 = 1 << 3
	TargetFlagPreferredUnscaledTarget   uint32 = 1 << 4
)

// AdvancedTargetInfo mirrors NV_DISPLAYCONFIG_PATH_ADVANCED_TARGET_INFO.
type AdvancedTargetInfo struct {
	Version        uint32
	Rotation       uint32
	Scaling        uint32
	RefreshRate1K  uint32
	Flags          uint32
	Connector      uint32
	TVFormat       uint32
	TimingOverride uint32
	Timing         Timing
}

// PathTargetInfo mirrors NV_DISPLAYCONFIG_PATH_TARGET_INFO_V2. Details must
// point at a block owned by whoever built the record.
type PathTargetInfo struct {
	DisplayID uint32
	Details   *AdvancedTargetInfo
	TargetID  uint32
}

// Path flag bits.
const PathFlagNonNVIDIAAdapter uint32 = 1 << 0

// PathInfo mirrors NV_DISPLAYCONFIG_PATH_INFO_V2. TargetInfo points at the
// first of TargetInfoCount contiguous PathTargetInfo records.
type PathInfo struct {
	Version         uint32
	SourceID        uint32
	TargetInfoCount uint32
	TargetInfo      *PathTargetInfo
	SourceModeInfo  *SourceModeInfo
	Flags           uint32
	OSAdapterID     uintptr
}

// TimingFlag mirrors NV_TIMING_FLAG.
type TimingFlag struct {
	Bits    uint32
	Format  uint32
	Scaling uint32
}

// Timing override kinds (NV_TIMING_OVERRIDE).
const (
	TimingOverrideCurrent uint32 = 0
	TimingOverrideAuto    uint32 = 1
	TimingOverrideEDID    uint32 = 2
	TimingOverrideDMT     uint32 = 3
	TimingOverrideCVT     uint32 = 5
)

// TimingInput mirrors NV_TIMING_INPUT.
type TimingInput struct {
	Version uint32
	Width   uint32
	Height  uint32
	RR      float32
	Flag    TimingFlag
	Type    uint32
}

// ViewportF mirrors NV_VIEWPORTF.
type ViewportF struct {
	X float32
	Y float32
	W float32
	H float32
}

// CustomDisplay mirrors NV_CUSTOM_DISPLAY.
type CustomDisplay struct {
	Version      uint32
	Width        uint32
	Height       uint32
	Depth        uint32
	ColorFormat  uint32
	SrcPartition ViewportF
	XRatio       float32
	YRatio       float32
	Timing       Timing
	Flags        uint32
}

// MakeVersion builds a struct version the way MAKE_NVAPI_VERSION does: the
// struct size in the low 16 bits and the revision above it.
func MakeVersion(size uintptr, rev uint32) uint32 {
	return uint32(size) | rev<<16
}

var (
	PathInfoVersion           = MakeVersion(unsafe.Sizeof(PathInfo{}), 2)
	AdvancedTargetInfoVersion = MakeVersion(unsafe.Sizeof(AdvancedTargetInfo{}), 1)
	TimingInputVersion        = MakeVersion(unsafe.Sizeof(TimingInput{}), 1)
	CustomDisplayVersion      = MakeVersion(unsafe.Sizeof(CustomDisplay{}), 1)
)
