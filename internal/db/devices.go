package db

import (
	"database/sql"
	"errors"

	"github.com/Driftline-Labs/papercast/internal/model"
)

func (s *pgStore) CreateDevice(mac, friendlyID, apiKey string) (model.Device, error) {
	var d model.Device
	err := s.db.Get(&d, `
		INSERT INTO devices (mac_address, friendly_id, api_key, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, mac_address, friendly_id, api_key, battery_voltage, rssi,
		          firmware_version, refresh_rate, last_seen_at, created_at, updated_at
		`, mac, friendlyID, apiKey)
	return d, err
}

func (s *pgStore) GetDeviceByMAC(mac string) (*model.Device, error) {
	var d model.Device
	err := s.db.Get(&d, `
		SELECT id, mac_address, friendly_id, api_key, battery_voltage, rssi,
		       firmware_version, refresh_rate, last_seen_at, created_at, updated_at
		FROM devices
		WHERE mac_address = $1
		`, mac)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *pgStore) GetDeviceByID(id int) (*model.Device, error) {
	var d model.Device
	err := s.db.Get(&d, `
		SELECT id, mac_address, friendly_id, api_key, battery_voltage, rssi,
		       firmware_version, refresh_rate, last_seen_at, created_at, updated_at
		FROM devices
		WHERE id = $1
		`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *pgStore) ListDevices() ([]model.Device, error) {
	var devices []model.Device
	err := s.db.Select(&devices, `
		SELECT id, mac_address, friendly_id, api_key, battery_voltage, rssi,
		       firmware_version, refresh_rate, last_seen_at, created_at, updated_at
		FROM devices
		ORDER BY id
		`)
	return devices, err
}

// UpdateDeviceTelemetry records the latest header-reported values and bumps
// last_seen_at. Nil values leave the existing column untouched so a buggy
// firmware that stops sending a header does not wipe history.
func (s *pgStore) UpdateDeviceTelemetry(mac string, batteryVoltage *float64, rssi *int, firmwareVersion *string, refreshRate *int) error {
	_, err := s.db.Exec(`
		UPDATE devices
		SET battery_voltage  = COALESCE($2, battery_voltage),
		    rssi             = COALESCE($3, rssi),
		    firmware_version = COALESCE($4, firmware_version),
		    refresh_rate     = COALESCE($5, refresh_rate),
		    last_seen_at     = now(),
		    updated_at       = now()
		WHERE mac_address = $1
		`, mac, batteryVoltage, rssi, firmwareVersion, refreshRate)
	return err
}
