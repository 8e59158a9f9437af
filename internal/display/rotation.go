package display

import (
	"fmt"
	"strconv"
	"strings"
)

// Rotation is a clockwise display rotation.
type Rotation uint32

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 1
	Rotate180 Rotation = 2
	Rotate270 Rotation = 3
)

// RotationFromRaw converts a driver value, rejecting anything outside 0-3.
func RotationFromRaw(v uint32) (Rotation, error) {
	if v > uint32(Rotate270) {
		return 0, fmt.Errorf("%w: raw value %d", ErrInvalidRotation, v)
	}
	return Rotation(v), nil
}

// RotationFromDegrees accepts 0, 90, 180 and 270.
func RotationFromDegrees(deg int) (Rotation, error) {
	switch deg {
	case 0:
		return Rotate0, nil
	case 90:
		return Rotate90, nil
	case 180:
		return Rotate180, nil
	case 270:
		return Rotate270, nil
	default:
		return 0, fmt.Errorf("%w: %d degrees (valid: 0, 90, 180, 270)", ErrInvalidRotation, deg)
	}
}

// ParseRotation parses a user value in degrees.
func ParseRotation(s string) (Rotation, error) {
	deg, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "°"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRotation, s)
	}
	return RotationFromDegrees(deg)
}

// Raw returns the driver encoding.
func (r Rotation) Raw() uint32 {
	return uint32(r)
}

// Degrees returns the clockwise rotation in degrees.
func (r Rotation) Degrees() int {
	return int(r) * 90
}

func (r Rotation) String() string {
	return fmt.Sprintf("%d°", r.Degrees())
}
