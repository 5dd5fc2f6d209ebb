// Package units provides shared constants and conversions for the distance and
// elevation unit systems used in profile labels and chart axes.
package units

// Unit system constants
const (
	Metric   = "metric"
	Imperial = "imperial"
)

// ValidUnits contains all valid unit system values
var ValidUnits = []string{Metric, Imperial}

const (
	metersPerMile = 1609.344
	metersPerFoot = 0.3048
)

// IsValid checks if the given unit system is in the list of valid systems
func IsValid(system string) bool {
	for _, valid := range ValidUnits {
		if system == valid {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid systems for error messages
func GetValidUnitsString() string {
	return "metric, imperial"
}

// ConvertDistance converts a track distance in meters to the long-distance unit
// of the target system (km or mi). Unknown systems fall back to metric.
func ConvertDistance(meters float64, system string) float64 {
	switch system {
	case Imperial:
		return meters / metersPerMile
	default:
		return meters / 1000
	}
}

// ConvertElevation converts an elevation or height difference in meters to the
// target system (m or ft). Unknown systems fall back to metric.
func ConvertElevation(meters float64, system string) float64 {
	switch system {
	case Imperial:
		return meters / metersPerFoot
	default:
		return meters
	}
}

// DistanceSymbol returns the label suffix for ConvertDistance values.
func DistanceSymbol(system string) string {
	if system == Imperial {
		return "mi"
	}
	return "km"
}

// ElevationSymbol returns the label suffix for ConvertElevation values.
func ElevationSymbol(system string) string {
	if system == Imperial {
		return "ft"
	}
	return "m"
}
