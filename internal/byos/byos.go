// Package byos implements the wire protocol spoken by TRMNL-compatible
// e-ink displays running in "bring your own server" mode: the device polls
// this server directly instead of the vendor cloud. The JSON shapes here
// are what the firmware expects; field names and optional-field omission
// rules must not change.
package byos

// Display panel geometry and limits enforced by the firmware.
const (
	// DisplayWidth is the panel width in pixels.
	DisplayWidth = 800
	// DisplayHeight is the panel height in pixels.
	DisplayHeight = 480
	// MaxImageSize is the largest image the firmware will accept, in bytes.
	MaxImageSize = 90 * 1024
)

// LiPo battery voltage bounds used for percentage derivation.
const (
	BatteryMinMV = 3000
	BatteryMaxMV = 4200
)

// BatteryPercentage converts a battery voltage in millivolts to a 0-100
// percentage using the standard LiPo curve: 3.0V empty, 4.2V full, linear
// in between.
func BatteryPercentage(voltageMV int) int {
	switch {
	case voltageMV <= BatteryMinMV:
		return 0
	case voltageMV >= BatteryMaxMV:
		return 100
	default:
		return (voltageMV - BatteryMinMV) * 100 / (BatteryMaxMV - BatteryMinMV)
	}
}
