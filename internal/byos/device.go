package byos

import (
	"net/http"
	"strconv"
	"strings"
)

// Request headers the firmware sends on every poll.
const (
	HeaderID             = "ID"
	HeaderBatteryVoltage = "Battery-Voltage"
	HeaderFWVersion      = "FW-Version"
	HeaderRSSI           = "RSSI"
	HeaderRefreshRate    = "Refresh-Rate"
)

// DeviceInfo holds per-request device telemetry parsed from HTTP headers.
// Every field except the MAC address is optional; the firmware versions in
// the wild disagree about which headers they send.
type DeviceInfo struct {
	// MACAddress comes from the ID header; "unknown" when absent.
	MACAddress string

	// BatteryVoltage in volts, e.g. 4.2.
	BatteryVoltage *float64

	// FirmwareVersion as reported by the device.
	FirmwareVersion *string

	// RSSI is the WiFi signal strength in dBm.
	RSSI *int

	// RefreshRate the device is currently polling at, in seconds.
	RefreshRate *int
}

// DeviceInfoFromHeader parses device telemetry out of request headers.
// Missing or malformed values degrade to absent rather than failing: the
// endpoints must stay available to buggy or outdated firmware.
func DeviceInfoFromHeader(h http.Header) DeviceInfo {
	info := DeviceInfo{MACAddress: "unknown"}

	if mac := strings.TrimSpace(h.Get(HeaderID)); mac != "" {
		info.MACAddress = mac
	}
	if raw := h.Get(HeaderBatteryVoltage); raw != "" {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			info.BatteryVoltage = &v
		}
	}
	if fw := h.Get(HeaderFWVersion); fw != "" {
		info.FirmwareVersion = &fw
	}
	if raw := h.Get(HeaderRSSI); raw != "" {
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			info.RSSI = &v
		}
	}
	if raw := h.Get(HeaderRefreshRate); raw != "" {
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && v >= 0 {
			info.RefreshRate = &v
		}
	}
	return info
}

// BatteryVoltageMV returns the battery voltage in millivolts, truncated.
func (d DeviceInfo) BatteryVoltageMV() (int, bool) {
	if d.BatteryVoltage == nil {
		return 0, false
	}
	return int(*d.BatteryVoltage * 1000), true
}

// BatteryPercentage returns the derived battery charge (0-100).
func (d DeviceInfo) BatteryPercentage() (int, bool) {
	mv, ok := d.BatteryVoltageMV()
	if !ok {
		return 0, false
	}
	return BatteryPercentage(mv), true
}

// ShortID returns the last 4 characters of the MAC address, handy for log
// lines and MQTT topics. Returns the whole string when shorter than 4.
func (d DeviceInfo) ShortID() string {
	if len(d.MACAddress) >= 4 {
		return d.MACAddress[len(d.MACAddress)-4:]
	}
	return d.MACAddress
}
