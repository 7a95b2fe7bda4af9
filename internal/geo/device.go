package geo

import "math"

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether c is finite and inside the WGS84 ranges.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// DeviceFix is a position obtained by the visitor's browser.
type DeviceFix struct {
	Coordinates
	Accuracy float64 `json:"accuracy,omitempty"`
	// Timestamp is the fix time in Unix milliseconds on the visitor's clock.
	// Freshness is enforced by the browser's maximumAge, so the server only
	// passes it along.
	Timestamp int64 `json:"timestamp,omitempty"`
}

// Device failure reasons reported by the page.
const (
	ReasonDenied      = "denied"
	ReasonUnavailable = "unavailable"
	ReasonTimeout     = "timeout"
	ReasonUnsupported = "unsupported"
)

// DeviceReport is what the page posts after asking the browser for a fix.
// Either Fix is set or Reason says why there is none.
type DeviceReport struct {
	Fix    *DeviceFix `json:"fix,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

// usable returns the device coordinates when the report carries a valid fix
// and no failure reason.  A report naming a reason never counts as a device
// fix, whatever else it carries.
func (r DeviceReport) usable() (Coordinates, bool) {
	if r.Reason != "" || r.Fix == nil || !r.Fix.Valid() {
		return Coordinates{}, false
	}
	return r.Fix.Coordinates, true
}
