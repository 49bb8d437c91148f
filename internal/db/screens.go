package db

import (
	"database/sql"
	"errors"

	"github.com/Driftline-Labs/papercast/internal/model"
)

func (s *pgStore) GetScreenForDevice(deviceID int) (*model.Screen, error) {
	var screen model.Screen
	err := s.db.Get(&screen, `
		SELECT id, device_id, image_url, filename, created_at, updated_at
		FROM screens
		WHERE device_id = $1
		`, deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &screen, nil
}

// SetScreenForDevice upserts the single current screen of a device.
func (s *pgStore) SetScreenForDevice(deviceID int, imageURL, filename string) error {
	_, err := s.db.Exec(`
		INSERT INTO screens (device_id, image_url, filename, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (device_id)
		DO UPDATE SET image_url = EXCLUDED.image_url,
		              filename   = EXCLUDED.filename,
		              updated_at = now()
		`, deviceID, imageURL, filename)
	return err
}
