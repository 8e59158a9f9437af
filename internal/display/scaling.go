package display

import (
	"fmt"
	"sort"
	"strings"
)

// Scaling is the driver's scaling mode. Values outside the named set are kept
// as-is so they survive a fetch/apply round trip.
type Scaling uint32

const (
	ScalingDefault       Scaling = 0
	ScalingMonitor       Scaling = 1
	ScalingGPU           Scaling = 2
	ScalingCenter        Scaling = 3
	ScalingAspect        Scaling = 5
	ScalingAspectClosest Scaling = 6
	ScalingCenterClosest Scaling = 7
	ScalingInteger       Scaling = 8
	ScalingCustom        Scaling = 255
)

var scalingNames = map[Scaling]string{
	ScalingDefault:       "default",
	ScalingMonitor:       "monitor",
	ScalingGPU:           "gpu",
	ScalingCenter:        "center",
	ScalingAspect:        "aspect",
	ScalingAspectClosest: "aspect-closest",
	ScalingCenterClosest: "center-closest",
	ScalingInteger:       "integer",
	ScalingCustom:        "custom",
}

var scalingAliases = map[string]Scaling{
	"stretch": ScalingGPU,
	"centre":  ScalingCenter,
}

// ScalingFromRaw converts a driver value. It never fails.
func ScalingFromRaw(v uint32) Scaling {
	return Scaling(v)
}

// Raw returns the driver encoding.
func (s Scaling) Raw() uint32 {
	return uint32(s)
}

// Known reports whether s is one of the named modes.
func (s Scaling) Known() bool {
	_, ok := scalingNames[s]
	return ok
}

func (s Scaling) String() string {
	if n, ok := scalingNames[s]; ok {
		return n
	}
	return fmt.Sprintf("unknown(%d)", uint32(s))
}

// ParseScaling resolves a user-supplied mode name, case-insensitively.
func ParseScaling(name string) (Scaling, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for s, sn := range scalingNames {
		if sn == n {
			return s, nil
		}
	}
	if s, ok := scalingAliases[n]; ok {
		return s, nil
	}

	// String renders unnamed values as unknown(N); accept that form back.
	var raw uint32
	if _, err := fmt.Sscanf(n, "unknown(%d)", &raw); err == nil {
		return Scaling(raw), nil
	}
	return 0, fmt.Errorf("%w: %q (valid: %s)", ErrInvalidScaling, name, strings.Join(ScalingNames(), ", "))
}

// ScalingNames lists the accepted mode names in encoding order.
func ScalingNames() []string {
	modes := make([]Scaling, 0, len(scalingNames))
	for s := range scalingNames {
		modes = append(modes, s)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })

	names := make([]string, len(modes))
	for i, s := range modes {
		names[i] = scalingNames[s]
	}
	return names
}
