package model

import "time"

// Device is a display known to this server, registered on first contact.
// Telemetry columns hold the most recent values reported via headers.
type Device struct {
	ID              int        `db:"id" json:"id"`
	MACAddress      string     `db:"mac_address" json:"mac_address"`
	FriendlyID      string     `db:"friendly_id" json:"friendly_id"`
	APIKey          string     `db:"api_key" json:"-"`
	BatteryVoltage  *float64   `db:"battery_voltage" json:"battery_voltage"`
	RSSI            *int       `db:"rssi" json:"rssi"`
	FirmwareVersion *string    `db:"firmware_version" json:"firmware_version"`
	RefreshRate     *int       `db:"refresh_rate" json:"refresh_rate"`
	LastSeenAt      *time.Time `db:"last_seen_at" json:"last_seen_at"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// DeviceLogRecord is one persisted entry from POST /api/log. Extra keeps
// the unmodeled top-level JSON fields verbatim.
type DeviceLogRecord struct {
	ID              int       `db:"id" json:"id"`
	DeviceID        int       `db:"device_id" json:"device_id"`
	Message         *string   `db:"message" json:"message"`
	BatteryVoltage  *float64  `db:"battery_voltage" json:"battery_voltage"`
	WiFiRSSILevel   *int      `db:"wifi_rssi_level" json:"wifi_rssi_level"`
	RefreshRate     *int      `db:"refresh_rate" json:"refresh_rate"`
	FirmwareVersion *string   `db:"firmware_version" json:"firmware_version"`
	Extra           []byte    `db:"extra" json:"extra"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
