package mapsnap

import "fmt"

// MapMode controls how the engine schedules render passes.
type MapMode int

const (
	// MapModeContinuous re-renders whenever the map state changes.
	MapModeContinuous MapMode = iota
	// MapModeStatic renders one complete frame per render call.
	MapModeStatic
	// MapModeTile renders one complete, tile-aligned frame per render call.
	MapModeTile
)

var mapModeNames = []string{
	"continuous",
	"static",
	"tile",
}

func (m MapMode) String() string {
	if m < 0 || int(m) >= len(mapModeNames) {
		return fmt.Sprintf("MapMode(%d)", int(m))
	}
	return mapModeNames[m]
}

// ParseMapMode converts a mode name (as accepted on the command line) to a MapMode.
func ParseMapMode(s string) (MapMode, bool) {
	for i, name := range mapModeNames {
		if name == s {
			return MapMode(i), true
		}
	}
	return 0, false
}

// DebugFlags is a bitmask of diagnostic overlays drawn on top of the map.
// Setting it replaces the previous mask; it is not additive.
type DebugFlags uint32

const (
	DebugNone        DebugFlags = 0
	DebugTileBorders DebugFlags = 1 << 1
	DebugParseStatus DebugFlags = 1 << 2
	DebugTimestamps  DebugFlags = 1 << 3
	DebugCollision   DebugFlags = 1 << 4
	DebugOverdraw    DebugFlags = 1 << 5
	DebugStencilClip DebugFlags = 1 << 6
	DebugDepthBuffer DebugFlags = 1 << 7
)

// Has reports whether all bits in flag are set.
func (d DebugFlags) Has(flag DebugFlags) bool {
	return d&flag == flag
}

// LatLng is a geographic coordinate, degrees.
type LatLng struct {
	Lat float64
	Lon float64
}

// Size is a surface size, in logical pixels (before pixel-ratio scaling).
type Size struct {
	Width  uint32
	Height uint32
}

// CameraOptions is the full camera state for a map view. Setting the camera
// replaces the previous state in one jump, without a transition.
type CameraOptions struct {
	Center  LatLng
	Zoom    float64
	Bearing float64
	Pitch   float64
}
