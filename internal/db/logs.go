package db

import "github.com/Driftline-Labs/papercast/internal/model"

func (s *pgStore) CreateDeviceLog(rec model.DeviceLogRecord) (int, error) {
	var id int
	err := s.db.Get(&id, `
		INSERT INTO device_logs (device_id, message, battery_voltage, wifi_rssi_level,
		                         refresh_rate, firmware_version, extra, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id
		`, rec.DeviceID, rec.Message, rec.BatteryVoltage, rec.WiFiRSSILevel,
		rec.RefreshRate, rec.FirmwareVersion, rec.Extra)
	return id, err
}

func (s *pgStore) ListDeviceLogs(deviceID, limit int) ([]model.DeviceLogRecord, error) {
	var logs []model.DeviceLogRecord
	err := s.db.Select(&logs, `
		SELECT id, device_id, message, battery_voltage, wifi_rssi_level,
		       refresh_rate, firmware_version, extra, created_at
		FROM device_logs
		WHERE device_id = $1
		ORDER BY id DESC
		LIMIT $2
		`, deviceID, limit)
	return logs, err
}
