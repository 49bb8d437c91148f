package packets

import "encoding/json"

type TokenResponse struct {
	Token string `json:"token"`
}

type ProfileResponse struct {
	ID    int     `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

// DeviceResponse mirrors model.Device, flattens times to RFC3339 and adds
// the derived battery percentage.
type DeviceResponse struct {
	ID                int      `json:"id"`
	MACAddress        string   `json:"mac_address"`
	ShortID           string   `json:"short_id"`
	FriendlyID        string   `json:"friendly_id"`
	BatteryVoltage    *float64 `json:"battery_voltage"`
	BatteryPercentage *int     `json:"battery_percentage"`
	RSSI              *int     `json:"rssi"`
	FirmwareVersion   *string  `json:"firmware_version"`
	RefreshRate       *int     `json:"refresh_rate"`
	LastSeenAt        *string  `json:"last_seen_at"`
	CreatedAt         string   `json:"created_at"`
}

type DeviceLogResponse struct {
	ID              int             `json:"id"`
	Message         *string         `json:"message"`
	BatteryVoltage  *float64        `json:"battery_voltage"`
	WiFiRSSILevel   *int            `json:"wifi_rssi_level"`
	RefreshRate     *int            `json:"refresh_rate"`
	FirmwareVersion *string         `json:"firmware_version"`
	Extra           json.RawMessage `json:"extra,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type ScreenResponse struct {
	DeviceID  int    `json:"device_id"`
	ImageURL  string `json:"image_url"`
	Filename  string `json:"filename"`
	UpdatedAt string `json:"updated_at"`
}
